package sink

import (
	"context"
	"fmt"

	"github.com/mehanizm/airtable"

	"github.com/paymentops/failed-payment-relay/internal/activitylog"
	"github.com/paymentops/failed-payment-relay/internal/domain"
)

// AirtableSink writes one row per failed payment into an Airtable table.
type AirtableSink struct {
	table *airtable.Table
	log   activitylog.Log
}

func NewAirtableSink(apiKey, baseID, tableName string, log activitylog.Log) *AirtableSink {
	client := airtable.NewClient(apiKey)
	return &AirtableSink{
		table: client.GetTable(baseID, tableName),
		log:   log,
	}
}

func (s *AirtableSink) Persist(ctx context.Context, payment domain.FailedPayment) Outcome {
	records := &airtable.Records{
		Records: []*airtable.Record{
			{Fields: RecordFields(payment)},
		},
	}

	// The airtable client has no context plumbing; the call carries no
	// deadline, matching the rest of the outbound calls here.
	if _, err := s.table.AddRecords(records); err != nil {
		s.log.Record(ctx, fmt.Sprintf("Failed to record payment %s in Airtable: %v", payment.ID, err), domain.LevelError)
		return Outcome{Sink: "airtable", Err: fmt.Errorf("creating airtable record: %w", err)}
	}

	s.log.Record(ctx, fmt.Sprintf("Payment %s recorded in Airtable", payment.ID), domain.LevelSuccess)
	return Outcome{Sink: "airtable"}
}
