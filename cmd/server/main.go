package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paymentops/failed-payment-relay/internal/activitylog"
	"github.com/paymentops/failed-payment-relay/internal/api"
	"github.com/paymentops/failed-payment-relay/internal/config"
	"github.com/paymentops/failed-payment-relay/internal/enrich"
	"github.com/paymentops/failed-payment-relay/internal/pipeline"
	"github.com/paymentops/failed-payment-relay/internal/sink"
	"github.com/paymentops/failed-payment-relay/internal/store"
	ws "github.com/paymentops/failed-payment-relay/internal/websocket"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Activity log backend: shared Redis list when configured, otherwise
	// the in-process ring buffer.
	var log activitylog.Log
	if cfg.RedisURL != "" {
		redisLog, err := activitylog.NewRedis(ctx, cfg.RedisURL, logger)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisLog.Close()
		log = redisLog
		logger.Info("activity log backed by redis")
	} else {
		log = activitylog.NewMemory(logger)
	}

	// Live log stream
	hub := ws.NewHub(logger)
	go hub.Run()
	log = activitylog.WithBroadcast(log, hub.Broadcast)

	// Notification sink
	sender, err := sink.NewGmailSender(ctx, sink.GmailCredentials{
		ClientID:     cfg.GmailClientID,
		ClientSecret: cfg.GmailClientSecret,
		AccessToken:  cfg.GmailAccessToken,
		RefreshToken: cfg.GmailRefreshToken,
	})
	if err != nil {
		logger.Error("failed to create gmail client", "error", err)
		os.Exit(1)
	}
	notifier := sink.NewEmailSink(sender, cfg.AlertRecipient, log)

	// Record sink: Airtable when configured, otherwise Postgres.
	var recorder sink.Recorder
	if cfg.AirtableConfigured() {
		recorder = sink.NewAirtableSink(cfg.AirtableAPIKey, cfg.AirtableBaseID, cfg.AirtableTable, log)
		logger.Info("record sink: airtable", "table", cfg.AirtableTable)
	} else {
		pgStore, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pgStore.Close()

		if err := pgStore.RunMigrations(ctx, "migrations"); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		recorder = store.NewPostgresSink(pgStore, log)
		logger.Info("record sink: postgres")
	}

	enricher := enrich.NewEnricher(enrich.NewStripeDirectory(cfg.StripeSecretKey), log)
	pl := pipeline.New(enricher, notifier, recorder, log, logger)

	router := api.NewRouter(log, pl, cfg.StripeWebhookSecret, hub, time.Now())
	if cfg.StripeWebhookSecret == "" {
		logger.Warn("no webhook signing secret configured, inbound events are unverified")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
