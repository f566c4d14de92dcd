package activitylog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/paymentops/failed-payment-relay/internal/domain"
)

// MemoryLog is the default in-process backend: a mutex-guarded ring of at
// most Capacity entries. Each append is echoed to the process logger so the
// operator sees entries live on stdout.
type MemoryLog struct {
	mu      sync.Mutex
	entries []domain.LogEntry
	logger  *slog.Logger
}

func NewMemory(logger *slog.Logger) *MemoryLog {
	return &MemoryLog{logger: logger}
}

func (l *MemoryLog) Record(_ context.Context, message string, level domain.Level) {
	entry := domain.LogEntry{
		Timestamp: time.Now().UTC(),
		Message:   message,
		Level:     level,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > Capacity {
		l.entries = l.entries[len(l.entries)-Capacity:]
	}
	l.mu.Unlock()

	echo(l.logger, entry)
}

func (l *MemoryLog) Recent(_ context.Context, limit int) []domain.LogEntry {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limit > len(l.entries) {
		limit = len(l.entries)
	}

	// Newest first.
	out := make([]domain.LogEntry, 0, limit)
	for i := len(l.entries) - 1; i >= len(l.entries)-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

func (l *MemoryLog) Count(_ context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func echo(logger *slog.Logger, entry domain.LogEntry) {
	switch entry.Level {
	case domain.LevelWarn:
		logger.Warn(entry.Message)
	case domain.LevelError:
		logger.Error(entry.Message)
	default:
		logger.Info(entry.Message, "level", string(entry.Level))
	}
}
