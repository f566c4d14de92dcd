package domain

import (
	"fmt"
	"strings"
)

// Stripe event types that represent a failed payment and trigger the pipeline.
const (
	EventPaymentIntentFailed = "payment_intent.payment_failed"
	EventChargeFailed        = "charge.failed"
	EventInvoiceFailed       = "invoice.payment_failed"
)

// FailureUnknown is the sentinel used when the event carries no failure reason.
const FailureUnknown = "Unknown"

// FailedPayment is the canonical record for one failed payment, charge or
// invoice event. It is built once by the normalizer; only CustomerEmail is
// set afterwards, by the enricher, before the sinks read it.
type FailedPayment struct {
	ID               string `json:"id"`
	AmountMinorUnits int64  `json:"amount"`
	Currency         string `json:"currency,omitempty"`
	CustomerID       string `json:"customer_id,omitempty"`
	CustomerEmail    string `json:"customer_email,omitempty"`
	FailureReason    string `json:"failure_reason,omitempty"`
	FailureCode      string `json:"failure_code,omitempty"`
	CreatedAt        int64  `json:"created"`
}

// AmountDisplay formats the minor-unit amount with two decimal places,
// e.g. 2500 -> "25.00".
func (p FailedPayment) AmountDisplay() string {
	return fmt.Sprintf("%.2f", float64(p.AmountMinorUnits)/100)
}

// CurrencyDisplay returns the upper-cased currency code, defaulting to USD.
func (p FailedPayment) CurrencyDisplay() string {
	if p.Currency == "" {
		return "USD"
	}
	return strings.ToUpper(p.Currency)
}

// DashboardURL links to the payment in the Stripe dashboard.
func (p FailedPayment) DashboardURL() string {
	return "https://dashboard.stripe.com/payments/" + p.ID
}
