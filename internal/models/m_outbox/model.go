package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the outbox_records table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an unpublished record.
// created_at is the commit timestamp so the relay drains in commit order.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.RecordID,
		data.EventType,
		data.AggregateID,
		data.Payload,
		StatusUnpublished,
		false,
		int64(0),
		data.NextAttemptAt,
		spanner.NullString{},
		spanner.NullTime{},
		spanner.NullString{},
		spanner.CommitTimestamp,
		spanner.NullTime{},
	})
}

// LeaseMut marks a record Publishing under owner until expiresAt.
func (m *Model) LeaseMut(recordID, owner string, expiresAt time.Time) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{RecordID, Status, LeaseOwner, LeaseExpiresAt},
		[]interface{}{recordID, StatusPublishing, owner, expiresAt},
	)
}

// PublishedMut marks a record Published. Irreversible.
func (m *Model) PublishedMut(recordID string, publishedAt time.Time) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{RecordID, Status, Published, PublishedAt, LeaseOwner, LeaseExpiresAt, LastError},
		[]interface{}{recordID, StatusPublished, true, publishedAt, spanner.NullString{}, spanner.NullTime{}, spanner.NullString{}},
	)
}

// RetryMut returns a record to Unpublished with its next attempt scheduled.
func (m *Model) RetryMut(recordID string, attemptCount int64, nextAttemptAt time.Time, lastError string) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{RecordID, Status, AttemptCount, NextAttemptAt, LeaseOwner, LeaseExpiresAt, LastError},
		[]interface{}{
			recordID,
			StatusUnpublished,
			attemptCount,
			nextAttemptAt,
			spanner.NullString{},
			spanner.NullTime{},
			spanner.NullString{StringVal: lastError, Valid: lastError != ""},
		},
	)
}

// ReleaseMut returns an abandoned lease to Unpublished without counting an attempt.
func (m *Model) ReleaseMut(recordID string) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{RecordID, Status, LeaseOwner, LeaseExpiresAt},
		[]interface{}{recordID, StatusUnpublished, spanner.NullString{}, spanner.NullTime{}},
	)
}

// DeleteMut creates a Spanner mutation for deleting an outbox record.
func (m *Model) DeleteMut(recordID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{recordID})
}
