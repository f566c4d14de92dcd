package store

import (
	"context"
	"fmt"
	"time"

	"github.com/paymentops/failed-payment-relay/internal/activitylog"
	"github.com/paymentops/failed-payment-relay/internal/domain"
	"github.com/paymentops/failed-payment-relay/internal/sink"
)

// PostgresSink persists failed payments into the failed_payments table. It is
// the record sink used when Airtable is not configured, with the same column
// semantics.
type PostgresSink struct {
	store *PostgresStore
	log   activitylog.Log
}

func NewPostgresSink(store *PostgresStore, log activitylog.Log) *PostgresSink {
	return &PostgresSink{store: store, log: log}
}

func (s *PostgresSink) Persist(ctx context.Context, payment domain.FailedPayment) sink.Outcome {
	_, err := s.store.pool.Exec(ctx, `
		INSERT INTO failed_payments
			(payment_id, amount, currency, customer_email, customer_id,
			 failure_reason, failure_code, failed_at, dashboard_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		payment.ID,
		payment.AmountDisplay(),
		payment.CurrencyDisplay(),
		orNA(payment.CustomerEmail),
		orNA(payment.CustomerID),
		orNA(payment.FailureReason),
		orNA(payment.FailureCode),
		time.Unix(payment.CreatedAt, 0).UTC(),
		payment.DashboardURL(),
		"Failed",
	)
	if err != nil {
		s.log.Record(ctx, fmt.Sprintf("Failed to record payment %s in postgres: %v", payment.ID, err), domain.LevelError)
		return sink.Outcome{Sink: "postgres", Err: fmt.Errorf("inserting failed payment: %w", err)}
	}

	s.log.Record(ctx, fmt.Sprintf("Payment %s recorded in postgres", payment.ID), domain.LevelSuccess)
	return sink.Outcome{Sink: "postgres"}
}

func orNA(s string) string {
	if s == "" {
		return sink.NA
	}
	return s
}
