package enrich

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/paymentops/failed-payment-relay/internal/activitylog"
	"github.com/paymentops/failed-payment-relay/internal/domain"
)

// CustomerDirectory looks up the email address behind a customer id.
type CustomerDirectory interface {
	CustomerEmail(ctx context.Context, customerID string) (string, error)
}

// Enricher attaches a customer email to a FailedPayment. Lookup failure is
// deliberate best-effort: it is warn-logged and the payment proceeds with an
// absent email. Nothing here blocks alerting or persistence.
type Enricher struct {
	directory CustomerDirectory
	log       activitylog.Log
}

func NewEnricher(directory CustomerDirectory, log activitylog.Log) *Enricher {
	return &Enricher{directory: directory, log: log}
}

// Enrich sets payment.CustomerEmail when the customer id is present and the
// lookup succeeds. It is a no-op without a customer id.
func (e *Enricher) Enrich(ctx context.Context, payment *domain.FailedPayment) {
	if payment.CustomerID == "" {
		return
	}

	email, err := e.directory.CustomerEmail(ctx, payment.CustomerID)
	if err != nil {
		e.log.Record(ctx, fmt.Sprintf("Could not fetch customer %s: %v", payment.CustomerID, err), domain.LevelWarn)
		return
	}

	payment.CustomerEmail = email
}

// StripeDirectory resolves customers through the Stripe API.
type StripeDirectory struct {
	api *client.API
}

func NewStripeDirectory(secretKey string) *StripeDirectory {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeDirectory{api: api}
}

func (d *StripeDirectory) CustomerEmail(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	cust, err := d.api.Customers.Get(customerID, params)
	if err != nil {
		return "", fmt.Errorf("retrieving customer %s: %w", customerID, err)
	}
	return cust.Email, nil
}
