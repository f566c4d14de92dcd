package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/paymentops/failed-payment-relay/internal/enrich"
)

// TestHandler synthesizes a fixed failed payment and runs it through the
// pipeline, surfacing any pipeline error to the caller.
func TestHandler(processor EventProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := map[string]any{
			"id":              fmt.Sprintf("pi_test_%d", time.Now().Unix()),
			"amount":          int64(2500),
			"currency":        "usd",
			"failure_message": "Your card was declined.",
			"failure_code":    "card_declined",
			"created":         time.Now().Unix(),
		}

		if err := processor.Process(r.Context(), raw); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   err.Error(),
			})
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    enrich.Normalize(raw),
		})
	}
}
