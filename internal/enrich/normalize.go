// Package enrich turns raw Stripe event payloads into canonical FailedPayment
// records and augments them, best-effort, with customer data.
package enrich

import (
	"encoding/json"

	"github.com/paymentops/failed-payment-relay/internal/domain"
)

// Normalize maps a loosely-structured event object (webhook data.object or a
// synthetic test payload) to a FailedPayment. Field access is defensive:
// absent optional fields fall back to sentinels, never panic. Amount comes
// from "amount", or "amount_due" for invoice objects.
func Normalize(raw map[string]any) domain.FailedPayment {
	payment := domain.FailedPayment{
		ID:               stringField(raw, "id"),
		AmountMinorUnits: intField(raw, "amount"),
		Currency:         stringField(raw, "currency"),
		CustomerID:       customerID(raw),
		FailureReason:    stringField(raw, "failure_message"),
		FailureCode:      stringField(raw, "failure_code"),
		CreatedAt:        intField(raw, "created"),
	}

	if payment.AmountMinorUnits == 0 {
		payment.AmountMinorUnits = intField(raw, "amount_due")
	}

	// payment_intent objects carry the cause nested under last_payment_error.
	if lastErr, ok := raw["last_payment_error"].(map[string]any); ok {
		if payment.FailureReason == "" {
			payment.FailureReason = stringField(lastErr, "message")
		}
		if payment.FailureCode == "" {
			payment.FailureCode = stringField(lastErr, "code")
		}
	}

	if payment.FailureReason == "" {
		payment.FailureReason = domain.FailureUnknown
	}

	return payment
}

// customerID reads "customer", which Stripe sends either as a bare id string
// or as an expanded customer object.
func customerID(raw map[string]any) string {
	switch v := raw["customer"].(type) {
	case string:
		return v
	case map[string]any:
		return stringField(v, "id")
	default:
		return ""
	}
}

func stringField(raw map[string]any, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

// intField tolerates the numeric types a decoded JSON payload or a
// hand-built test payload may carry.
func intField(raw map[string]any, key string) int64 {
	switch v := raw[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
