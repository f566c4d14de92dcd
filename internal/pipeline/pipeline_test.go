package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/paymentops/failed-payment-relay/internal/activitylog"
	"github.com/paymentops/failed-payment-relay/internal/domain"
	"github.com/paymentops/failed-payment-relay/internal/enrich"
	"github.com/paymentops/failed-payment-relay/internal/sink"
)

type fakeDirectory struct {
	email string
	err   error
}

func (d *fakeDirectory) CustomerEmail(_ context.Context, _ string) (string, error) {
	return d.email, d.err
}

type fakeNotifier struct {
	calls atomic.Int32
	last  domain.FailedPayment
	err   error
	panic bool
}

func (n *fakeNotifier) Notify(_ context.Context, p domain.FailedPayment) sink.Outcome {
	n.calls.Add(1)
	n.last = p
	if n.panic {
		panic("notifier exploded")
	}
	return sink.Outcome{Sink: "email", Err: n.err}
}

type fakeRecorder struct {
	calls atomic.Int32
	last  domain.FailedPayment
	err   error
}

func (r *fakeRecorder) Persist(_ context.Context, p domain.FailedPayment) sink.Outcome {
	r.calls.Add(1)
	r.last = p
	return sink.Outcome{Sink: "record", Err: r.err}
}

func newPipeline(dir *fakeDirectory, n *fakeNotifier, r *fakeRecorder) (*Pipeline, *activitylog.MemoryLog) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	log := activitylog.NewMemory(logger)
	enricher := enrich.NewEnricher(dir, log)
	return New(enricher, n, r, log, logger), log
}

func rawEvent() map[string]any {
	return map[string]any{
		"id":              "pi_1",
		"amount":          float64(2500),
		"currency":        "usd",
		"customer":        "cus_1",
		"failure_message": "Your card was declined.",
		"created":         float64(1700000000),
	}
}

func logMessages(log *activitylog.MemoryLog) []string {
	entries := log.Recent(context.Background(), activitylog.Capacity)
	msgs := make([]string, len(entries))
	for i, e := range entries {
		msgs[i] = e.Message
	}
	return msgs
}

func containsMessage(msgs []string, substr string) bool {
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestProcess_InvokesBothSinks(t *testing.T) {
	notifier := &fakeNotifier{}
	recorder := &fakeRecorder{}
	p, log := newPipeline(&fakeDirectory{email: "jane@example.com"}, notifier, recorder)

	if err := p.Process(context.Background(), rawEvent()); err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if notifier.calls.Load() != 1 {
		t.Errorf("notifier called %d times, want 1", notifier.calls.Load())
	}
	if recorder.calls.Load() != 1 {
		t.Errorf("recorder called %d times, want 1", recorder.calls.Load())
	}

	// Both sinks see the enriched record.
	if notifier.last.CustomerEmail != "jane@example.com" {
		t.Errorf("notifier saw email %q, want enriched email", notifier.last.CustomerEmail)
	}
	if recorder.last.CustomerEmail != "jane@example.com" {
		t.Errorf("recorder saw email %q, want enriched email", recorder.last.CustomerEmail)
	}

	msgs := logMessages(log)
	if !containsMessage(msgs, "Processing failed payment: pi_1") {
		t.Error("missing processing log entry")
	}
	if !containsMessage(msgs, "Successfully processed: pi_1") {
		t.Error("missing completion log entry")
	}
}

func TestProcess_EnrichmentFailureDoesNotBlockSinks(t *testing.T) {
	notifier := &fakeNotifier{}
	recorder := &fakeRecorder{}
	p, _ := newPipeline(&fakeDirectory{err: errors.New("lookup timeout")}, notifier, recorder)

	if err := p.Process(context.Background(), rawEvent()); err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if notifier.calls.Load() != 1 || recorder.calls.Load() != 1 {
		t.Fatal("both sinks must run despite enrichment failure")
	}
	if notifier.last.CustomerEmail != "" {
		t.Errorf("email should be absent after failed enrichment, got %q", notifier.last.CustomerEmail)
	}
	if recorder.last.CustomerEmail != "" {
		t.Errorf("email should be absent after failed enrichment, got %q", recorder.last.CustomerEmail)
	}
}

func TestProcess_SinkIndependence(t *testing.T) {
	notifier := &fakeNotifier{panic: true}
	recorder := &fakeRecorder{}
	p, log := newPipeline(&fakeDirectory{}, notifier, recorder)

	if err := p.Process(context.Background(), rawEvent()); err != nil {
		t.Fatalf("a sink panic must not escape Process, got %v", err)
	}

	if recorder.calls.Load() != 1 {
		t.Error("recorder must still run when the notifier panics")
	}

	msgs := logMessages(log)
	if !containsMessage(msgs, "Error in email sink") {
		t.Error("sink panic should be error-logged")
	}
	// Completion is logged regardless of sink outcomes.
	if !containsMessage(msgs, "Successfully processed: pi_1") {
		t.Error("completion log should appear despite a sink failure")
	}
}

func TestProcess_SinkErrorsAreAbsorbed(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	recorder := &fakeRecorder{err: errors.New("table missing")}
	p, log := newPipeline(&fakeDirectory{}, notifier, recorder)

	if err := p.Process(context.Background(), rawEvent()); err != nil {
		t.Fatalf("sink errors must not propagate, got %v", err)
	}

	if !containsMessage(logMessages(log), "Successfully processed: pi_1") {
		t.Error("completion log should appear even when both sinks fail")
	}
}
