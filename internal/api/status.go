package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/paymentops/failed-payment-relay/internal/activitylog"
	"github.com/paymentops/failed-payment-relay/internal/domain"
)

// IndexHandler returns the service banner and endpoint directory.
func IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"service": "failed-payment-relay",
			"endpoints": map[string]string{
				"GET /health":          "liveness, uptime and log count",
				"GET /logs":            "recent activity log entries, newest first",
				"GET /ws":              "live activity log stream",
				"POST /test":           "run the pipeline with a synthetic failed payment",
				"POST /stripe-webhook": "Stripe webhook ingress",
			},
		})
	}
}

// HealthHandler reports liveness, uptime and the retained log count.
func HealthHandler(log activitylog.Log, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status":         "healthy",
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
			"log_count":      log.Count(r.Context()),
		})
	}
}

type logsResponse struct {
	Logs  []domain.LogEntry `json:"logs"`
	Total int               `json:"total"`
}

// LogsHandler returns recent log entries, newest first. ?limit=N defaults to 50.
func LogsHandler(log activitylog.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := activitylog.DefaultRecentLimit
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
				limit = n
			}
		}

		respondJSON(w, http.StatusOK, logsResponse{
			Logs:  log.Recent(r.Context(), limit),
			Total: log.Count(r.Context()),
		})
	}
}
