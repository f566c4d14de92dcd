package config

import (
	"fmt"
	"os"
)

// Config holds all configuration for the application.
type Config struct {
	Port string

	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string // optional: webhooks are unverified without it

	// Gmail OAuth for the alerting account
	GmailClientID     string
	GmailClientSecret string
	GmailAccessToken  string
	GmailRefreshToken string
	AlertRecipient    string

	// Record sink: Airtable when configured, otherwise Postgres
	AirtableAPIKey string
	AirtableBaseID string
	AirtableTable  string
	DatabaseURL    string

	// Optional shared activity log backend
	RedisURL string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		GmailClientID:       getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret:   getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailAccessToken:    getEnv("GMAIL_ACCESS_TOKEN", ""),
		GmailRefreshToken:   getEnv("GMAIL_REFRESH_TOKEN", ""),
		AlertRecipient:      getEnv("ALERT_EMAIL", ""),
		AirtableAPIKey:      getEnv("AIRTABLE_API_KEY", ""),
		AirtableBaseID:      getEnv("AIRTABLE_BASE_ID", ""),
		AirtableTable:       getEnv("AIRTABLE_TABLE", "Failed Payments"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
	}

	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if cfg.GmailClientID == "" || cfg.GmailClientSecret == "" || cfg.GmailRefreshToken == "" {
		return nil, fmt.Errorf("GMAIL_CLIENT_ID, GMAIL_CLIENT_SECRET and GMAIL_REFRESH_TOKEN are required")
	}
	if cfg.AlertRecipient == "" {
		return nil, fmt.Errorf("ALERT_EMAIL is required")
	}
	if !cfg.AirtableConfigured() && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("either AIRTABLE_API_KEY+AIRTABLE_BASE_ID or DATABASE_URL is required")
	}

	return cfg, nil
}

// AirtableConfigured reports whether the Airtable record sink can be used.
func (c *Config) AirtableConfigured() bool {
	return c.AirtableAPIKey != "" && c.AirtableBaseID != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
