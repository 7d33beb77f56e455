package m_outbox

// Field name constants for the outbox_records table.
const (
	TableName = "outbox_records"

	RecordID       = "record_id"
	EventType      = "event_type"
	AggregateID    = "aggregate_id"
	Payload        = "payload"
	Status         = "status"
	Published      = "published"
	AttemptCount   = "attempt_count"
	NextAttemptAt  = "next_attempt_at"
	LeaseOwner     = "lease_owner"
	LeaseExpiresAt = "lease_expires_at"
	LastError      = "last_error"
	CreatedAt      = "created_at"
	PublishedAt    = "published_at"

	// ByStatusNextAttempt backs the relay's due-record scan.
	ByStatusNextAttempt = "outbox_records_by_status_next_attempt"
)

// Record status constants
const (
	StatusUnpublished = "unpublished"
	StatusPublishing  = "publishing"
	StatusPublished   = "published"
)

// Columns lists every column in table order.
var Columns = []string{
	RecordID,
	EventType,
	AggregateID,
	Payload,
	Status,
	Published,
	AttemptCount,
	NextAttemptAt,
	LeaseOwner,
	LeaseExpiresAt,
	LastError,
	CreatedAt,
	PublishedAt,
}
