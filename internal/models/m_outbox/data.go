package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the outbox_records table.
type Data struct {
	RecordID       string             `spanner:"record_id"`
	EventType      string             `spanner:"event_type"`
	AggregateID    string             `spanner:"aggregate_id"`
	Payload        spanner.NullJSON   `spanner:"payload"`
	Status         string             `spanner:"status"`
	Published      bool               `spanner:"published"`
	AttemptCount   int64              `spanner:"attempt_count"`
	NextAttemptAt  time.Time          `spanner:"next_attempt_at"`
	LeaseOwner     spanner.NullString `spanner:"lease_owner"`
	LeaseExpiresAt spanner.NullTime   `spanner:"lease_expires_at"`
	LastError      spanner.NullString `spanner:"last_error"`
	CreatedAt      time.Time          `spanner:"created_at"`
	PublishedAt    spanner.NullTime   `spanner:"published_at"`
}
