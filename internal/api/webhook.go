package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/paymentops/failed-payment-relay/internal/activitylog"
	"github.com/paymentops/failed-payment-relay/internal/domain"
)

// WebhookHandler is the Stripe ingress gateway: verify, parse, filter,
// dispatch, acknowledge. Verification or parse failure rejects with 400;
// everything else acknowledges with 200, whether or not the event was
// relevant.
type WebhookHandler struct {
	processor EventProcessor
	secret    string
	log       activitylog.Log
}

func NewWebhookHandler(processor EventProcessor, secret string, log activitylog.Log) *WebhookHandler {
	return &WebhookHandler{processor: processor, secret: secret, log: log}
}

// eventEnvelope is the decoded webhook event: a type plus the event object.
type eventEnvelope struct {
	Type string `json:"type"`
	Data struct {
		Object map[string]any `json:"object"`
	} `json:"data"`
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		rejectWebhook(w, fmt.Errorf("reading request body: %w", err))
		return
	}

	envelope, err := h.verifyAndParse(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		rejectWebhook(w, err)
		return
	}

	switch envelope.Type {
	case domain.EventPaymentIntentFailed, domain.EventChargeFailed, domain.EventInvoiceFailed:
		// Pipeline errors are logged inside Process; the webhook is
		// acknowledged regardless.
		h.processor.Process(r.Context(), envelope.Data.Object)
	default:
		h.log.Record(r.Context(), "Ignoring event type: "+envelope.Type, domain.LevelInfo)
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// verifyAndParse checks the signature when a signing secret is configured;
// without one the body is trusted and parsed as plain JSON (development
// fallback).
func (h *WebhookHandler) verifyAndParse(payload []byte, sigHeader string) (*eventEnvelope, error) {
	if h.secret != "" {
		event, err := webhook.ConstructEvent(payload, sigHeader, h.secret)
		if err != nil {
			return nil, fmt.Errorf("verifying webhook signature: %w", err)
		}
		env := &eventEnvelope{Type: string(event.Type)}
		if event.Data != nil {
			env.Data.Object = event.Data.Object
		}
		return env, nil
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("parsing webhook payload: %w", err)
	}
	return &envelope, nil
}

func rejectWebhook(w http.ResponseWriter, err error) {
	http.Error(w, "Webhook Error: "+err.Error(), http.StatusBadRequest)
}
