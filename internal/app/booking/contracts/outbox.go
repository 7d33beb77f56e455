package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrLeaseLost is returned when a record is no longer leased by the caller,
// typically because the lease expired and another worker reclaimed it.
var ErrLeaseLost = errors.New("outbox lease lost")

// Outbox record statuses.
const (
	OutboxUnpublished = "unpublished"
	OutboxPublishing  = "publishing"
	OutboxPublished   = "published"
)

// OutboxRecord is one durable event awaiting (or done with) relay.
type OutboxRecord struct {
	RecordID       string
	EventType      string
	AggregateID    string
	Payload        []byte // JSON envelope
	Status         string
	Published      bool
	AttemptCount   int64
	NextAttemptAt  time.Time
	LeaseOwner     string
	LeaseExpiresAt time.Time
	LastError      string
	CreatedAt      time.Time
	PublishedAt    time.Time
}

// OutboxStore is the relay's view of the outbox. Each method is its own
// atomic update, independent of any business unit of work.
type OutboxStore interface {
	// ReclaimExpired returns Publishing records whose lease expired at or
	// before now to Unpublished. Returns how many were reclaimed.
	ReclaimExpired(ctx context.Context, now time.Time) (int, error)

	// Lease marks up to limit due Unpublished records (next_attempt_at <= now)
	// as Publishing under owner, oldest first, and returns them.
	Lease(ctx context.Context, owner string, limit int, now time.Time, ttl time.Duration) ([]*OutboxRecord, error)

	// MarkPublished sets Published iff owner still holds the lease.
	MarkPublished(ctx context.Context, recordID, owner string, now time.Time) error

	// MarkRetry returns the record to Unpublished with attempt_count+1 and the
	// given next attempt time, iff owner still holds the lease.
	MarkRetry(ctx context.Context, recordID, owner string, nextAttemptAt time.Time, lastErr string) error

	// DeletePublishedBefore removes Published records older than cutoff.
	DeletePublishedBefore(ctx context.Context, cutoff time.Time, dryRun bool) (int64, error)

	// Pending reports how many records are not yet Published.
	Pending(ctx context.Context) (int64, error)
}
