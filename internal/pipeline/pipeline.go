// Package pipeline orchestrates one failed-payment event end to end:
// normalize, enrich, then fan out to the notification and record sinks.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/paymentops/failed-payment-relay/internal/activitylog"
	"github.com/paymentops/failed-payment-relay/internal/domain"
	"github.com/paymentops/failed-payment-relay/internal/enrich"
	"github.com/paymentops/failed-payment-relay/internal/sink"
)

// Pipeline runs the fan-out for one raw event. Sinks execute concurrently and
// are jointly awaited; neither cancels the other, and one sink's failure
// never suppresses the other.
type Pipeline struct {
	enricher *enrich.Enricher
	notifier sink.Notifier
	recorder sink.Recorder
	log      activitylog.Log
	logger   *slog.Logger
}

func New(enricher *enrich.Enricher, notifier sink.Notifier, recorder sink.Recorder, log activitylog.Log, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		enricher: enricher,
		notifier: notifier,
		recorder: recorder,
		log:      log,
		logger:   logger,
	}
}

// Process normalizes the raw event, enriches it, and dispatches both sinks.
// It returns only unexpected errors (recovered panics); sink failures are
// logged and absorbed. The completion log does not distinguish partial sink
// failure — that is deliberate, preserved behavior.
func (p *Pipeline) Process(ctx context.Context, raw map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("processing payment event: %v", r)
			p.log.Record(ctx, fmt.Sprintf("Error processing failed payment: %v", r), domain.LevelError)
		}
	}()

	payment := enrich.Normalize(raw)
	p.log.Record(ctx, "Processing failed payment: "+payment.ID, domain.LevelInfo)

	// Enrichment must finish before either sink reads the record.
	p.enricher.Enrich(ctx, &payment)

	var (
		wg         sync.WaitGroup
		notifyOut  sink.Outcome
		persistOut sink.Outcome
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		notifyOut = p.dispatch(ctx, payment, "email", p.notifier.Notify)
	}()
	go func() {
		defer wg.Done()
		persistOut = p.dispatch(ctx, payment, "record", p.recorder.Persist)
	}()
	wg.Wait()

	p.logger.Debug("fan-out complete",
		"payment_id", payment.ID,
		"notify_ok", notifyOut.OK(),
		"persist_ok", persistOut.OK(),
	)

	p.log.Record(ctx, "Successfully processed: "+payment.ID, domain.LevelSuccess)
	return nil
}

// dispatch invokes one sink, converting a panic into a failed outcome so the
// sibling sink is unaffected.
func (p *Pipeline) dispatch(ctx context.Context, payment domain.FailedPayment, name string, fn func(context.Context, domain.FailedPayment) sink.Outcome) (out sink.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = sink.Outcome{Sink: name, Err: fmt.Errorf("%s sink panic: %v", name, r)}
			p.log.Record(ctx, fmt.Sprintf("Error in %s sink for %s: %v", name, payment.ID, r), domain.LevelError)
		}
	}()
	return fn(ctx, payment)
}
