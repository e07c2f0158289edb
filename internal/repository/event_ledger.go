package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/interfaces"
)

const dedupCacheTTL = 24 * time.Hour

// EventLedger is the append-only processed-event store. The unique
// constraint on event_id is the idempotency signal; Redis sits in front as a
// best-effort fast path and is never authoritative.
type EventLedger struct {
	db          *sql.DB
	redisClient *redis.Client
}

func NewEventLedger(db *sql.DB, redisClient *redis.Client) *EventLedger {
	return &EventLedger{db: db, redisClient: redisClient}
}

func (l *EventLedger) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS webhook_events (
			event_id VARCHAR(255) PRIMARY KEY,
			received_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := l.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// Record inserts an event id into the ledger. Zero rows affected means the
// id was already recorded: a redelivery, acknowledged harmlessly.
func (l *EventLedger) Record(ctx context.Context, eventID string) (interfaces.LedgerOutcome, error) {
	cacheKey := fmt.Sprintf("webhook_event:%s", eventID)

	if l.redisClient != nil {
		if _, err := l.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			return interfaces.LedgerDuplicate, nil
		}
	}

	result, err := l.db.ExecContext(ctx, `
		INSERT INTO webhook_events (event_id) VALUES ($1)
		ON CONFLICT (event_id) DO NOTHING
	`, eventID)
	if err != nil {
		return interfaces.LedgerFirstTime, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return interfaces.LedgerFirstTime, err
	}
	if rows == 0 {
		return interfaces.LedgerDuplicate, nil
	}

	if l.redisClient != nil {
		l.redisClient.Set(ctx, cacheKey, "1", dedupCacheTTL)
	}

	return interfaces.LedgerFirstTime, nil
}
