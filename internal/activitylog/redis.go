package activitylog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paymentops/failed-payment-relay/internal/domain"
)

const redisLogKey = "activity_log"

// RedisLog keeps the activity log in a capped Redis list so it survives
// restarts and is shared across replicas. Index 0 is always the newest entry.
type RedisLog struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedis connects to Redis and pings it before returning a backend.
func NewRedis(ctx context.Context, redisURL string, logger *slog.Logger) (*RedisLog, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisLog{client: client, logger: logger}, nil
}

// NewRedisWithClient wraps an existing client. Used by tests.
func NewRedisWithClient(client *redis.Client, logger *slog.Logger) *RedisLog {
	return &RedisLog{client: client, logger: logger}
}

func (l *RedisLog) Close() error {
	return l.client.Close()
}

// Record pushes the entry and trims the list back to Capacity. A Redis
// failure is reported on the process logger but never to the caller.
func (l *RedisLog) Record(ctx context.Context, message string, level domain.Level) {
	entry := domain.LogEntry{
		Timestamp: time.Now().UTC(),
		Message:   message,
		Level:     level,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Error("failed to marshal log entry", "error", err)
		return
	}

	pipe := l.client.Pipeline()
	pipe.LPush(ctx, redisLogKey, data)
	pipe.LTrim(ctx, redisLogKey, 0, Capacity-1)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Error("failed to record log entry", "error", err)
		return
	}

	echo(l.logger, entry)
}

func (l *RedisLog) Recent(ctx context.Context, limit int) []domain.LogEntry {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	raw, err := l.client.LRange(ctx, redisLogKey, 0, int64(limit)-1).Result()
	if err != nil {
		l.logger.Error("failed to read log entries", "error", err)
		return []domain.LogEntry{}
	}

	entries := make([]domain.LogEntry, 0, len(raw))
	for _, item := range raw {
		var entry domain.LogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			l.logger.Error("failed to unmarshal log entry", "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func (l *RedisLog) Count(ctx context.Context) int {
	n, err := l.client.LLen(ctx, redisLogKey).Result()
	if err != nil {
		l.logger.Error("failed to count log entries", "error", err)
		return 0
	}
	return int(n)
}
