package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/paymentops/failed-payment-relay/internal/activitylog"
	ws "github.com/paymentops/failed-payment-relay/internal/websocket"
)

// EventProcessor runs the failed-payment pipeline for one raw event object.
type EventProcessor interface {
	Process(ctx context.Context, raw map[string]any) error
}

// NewRouter creates and configures the HTTP router.
func NewRouter(log activitylog.Log, processor EventProcessor, webhookSecret string, hub *ws.Hub, startedAt time.Time) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	webhook := NewWebhookHandler(processor, webhookSecret, log)

	r.Get("/", IndexHandler())
	r.Get("/health", HealthHandler(log, startedAt))
	r.Get("/logs", LogsHandler(log))
	r.Post("/test", TestHandler(processor))
	r.Post("/stripe-webhook", webhook.Handle)

	if hub != nil {
		r.Get("/ws", hub.HandleWebSocket)
	}

	return r
}
