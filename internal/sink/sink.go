// Package sink delivers FailedPayment records to external systems: an email
// alert via the Gmail API and a row in a tabular store. Sinks never retry and
// never raise to the pipeline; each returns an explicit Outcome.
package sink

import (
	"context"
	"time"

	"github.com/paymentops/failed-payment-relay/internal/domain"
)

// Outcome is the result of one sink dispatch. Failures carry the cause so
// callers and tests can assert on them without inspecting log strings.
type Outcome struct {
	Sink string
	Err  error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Notifier dispatches a human-readable alert for a failed payment.
type Notifier interface {
	Notify(ctx context.Context, payment domain.FailedPayment) Outcome
}

// Recorder persists a failed payment as a row in a tabular store.
type Recorder interface {
	Persist(ctx context.Context, payment domain.FailedPayment) Outcome
}

// NA is the sentinel stored for absent optional columns.
const NA = "N/A"

// RecordFields maps a payment to the fixed column schema shared by every
// Recorder implementation.
func RecordFields(payment domain.FailedPayment) map[string]any {
	return map[string]any{
		"Payment ID":     payment.ID,
		"Amount":         payment.AmountDisplay(),
		"Currency":       payment.CurrencyDisplay(),
		"Customer Email": orNA(payment.CustomerEmail),
		"Customer ID":    orNA(payment.CustomerID),
		"Failure Reason": orNA(payment.FailureReason),
		"Failure Code":   orNA(payment.FailureCode),
		"Failed At":      time.Unix(payment.CreatedAt, 0).UTC().Format(time.RFC3339),
		"Dashboard URL":  payment.DashboardURL(),
		"Status":         "Failed",
	}
}

func orNA(s string) string {
	if s == "" {
		return NA
	}
	return s
}
