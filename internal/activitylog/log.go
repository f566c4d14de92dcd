// Package activitylog keeps a bounded, insertion-ordered record of what the
// relay has done, readable from the status endpoints. Entries beyond the
// capacity evict the oldest; recording never fails.
package activitylog

import (
	"context"
	"time"

	"github.com/paymentops/failed-payment-relay/internal/domain"
)

// Capacity is the fixed number of entries retained before FIFO eviction.
const Capacity = 100

// DefaultRecentLimit is used when a caller asks for recent entries without a limit.
const DefaultRecentLimit = 50

// Log is the activity log contract shared by the in-memory and Redis backends.
type Log interface {
	// Record appends an entry stamped with the current time.
	Record(ctx context.Context, message string, level domain.Level)
	// Recent returns up to limit entries, newest first. limit <= 0 means
	// DefaultRecentLimit.
	Recent(ctx context.Context, limit int) []domain.LogEntry
	// Count reports how many entries are currently retained.
	Count(ctx context.Context) int
}

// WithBroadcast decorates a Log so every recorded entry is also handed to
// notify, synchronously with the append. Used to feed the websocket stream.
func WithBroadcast(log Log, notify func(domain.LogEntry)) Log {
	return &broadcastLog{Log: log, notify: notify}
}

type broadcastLog struct {
	Log
	notify func(domain.LogEntry)
}

func (b *broadcastLog) Record(ctx context.Context, message string, level domain.Level) {
	b.Log.Record(ctx, message, level)
	b.notify(domain.LogEntry{
		Timestamp: time.Now().UTC(),
		Message:   message,
		Level:     level,
	})
}
