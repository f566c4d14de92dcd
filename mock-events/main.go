// Command mock-events posts sample Stripe-shaped failure events at a running
// relay for local testing. It sends one recognized event per failure type
// plus one irrelevant event that the relay should ignore.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	target := "http://localhost:8080/stripe-webhook"
	if t := os.Getenv("RELAY_URL"); t != "" {
		target = t
	}

	now := time.Now().Unix()

	events := []map[string]any{
		{
			"type": "payment_intent.payment_failed",
			"data": map[string]any{"object": map[string]any{
				"id":       fmt.Sprintf("pi_mock_%d", now),
				"amount":   2500,
				"currency": "usd",
				"customer": "cus_mock",
				"created":  now,
				"last_payment_error": map[string]any{
					"message": "Your card has insufficient funds.",
					"code":    "insufficient_funds",
				},
			}},
		},
		{
			"type": "charge.failed",
			"data": map[string]any{"object": map[string]any{
				"id":              fmt.Sprintf("ch_mock_%d", now),
				"amount":          9900,
				"currency":        "eur",
				"failure_message": "Your card was declined.",
				"failure_code":    "card_declined",
				"created":         now,
			}},
		},
		{
			"type": "invoice.payment_failed",
			"data": map[string]any{"object": map[string]any{
				"id":         fmt.Sprintf("in_mock_%d", now),
				"amount_due": 15000,
				"currency":   "usd",
				"customer":   "cus_mock",
				"created":    now,
			}},
		},
		{
			"type": "charge.succeeded",
			"data": map[string]any{"object": map[string]any{
				"id":      fmt.Sprintf("ch_ok_%d", now),
				"amount":  100,
				"created": now,
			}},
		},
	}

	for _, event := range events {
		body, err := json.Marshal(event)
		if err != nil {
			log.Fatalf("marshaling event: %v", err)
		}

		resp, err := http.Post(target, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Fatalf("posting %s: %v", event["type"], err)
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()

		fmt.Printf("%-32s -> %d %s\n", event["type"], resp.StatusCode, respBody)
	}
}
