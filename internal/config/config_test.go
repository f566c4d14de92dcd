package config

import "testing"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("GMAIL_CLIENT_ID", "client-id")
	t.Setenv("GMAIL_CLIENT_SECRET", "client-secret")
	t.Setenv("GMAIL_REFRESH_TOKEN", "refresh-token")
	t.Setenv("ALERT_EMAIL", "ops@example.com")
	t.Setenv("AIRTABLE_API_KEY", "key123")
	t.Setenv("AIRTABLE_BASE_ID", "app123")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.AirtableTable != "Failed Payments" {
		t.Errorf("airtable table = %q, want default", cfg.AirtableTable)
	}
	if cfg.StripeWebhookSecret != "" {
		t.Errorf("webhook secret should default to empty, got %q", cfg.StripeWebhookSecret)
	}
	if !cfg.AirtableConfigured() {
		t.Error("airtable should be configured")
	}
}

func TestLoad_RequiresStripeKey(t *testing.T) {
	setRequired(t)
	t.Setenv("STRIPE_SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without STRIPE_SECRET_KEY")
	}
}

func TestLoad_RequiresRecordSink(t *testing.T) {
	setRequired(t)
	t.Setenv("AIRTABLE_API_KEY", "")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without a record sink")
	}
}

func TestLoad_PostgresFallback(t *testing.T) {
	setRequired(t)
	t.Setenv("AIRTABLE_API_KEY", "")
	t.Setenv("AIRTABLE_BASE_ID", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/relay")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AirtableConfigured() {
		t.Error("airtable should not be configured")
	}
}
