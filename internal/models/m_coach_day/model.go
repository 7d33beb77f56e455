package m_coach_day

import (
	"cloud.google.com/go/civil"
	"cloud.google.com/go/spanner"
)

// Model provides a facade for the coach_days table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Key returns the primary key of a lock row.
func (m *Model) Key(coachID string, day civil.Date) spanner.Key {
	return spanner.Key{coachID, day}
}

// BumpMut writes the next version of the lock row, creating it if absent.
func (m *Model) BumpMut(coachID string, day civil.Date, version int64) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{CoachID, Day, Version, UpdatedAt},
		[]interface{}{coachID, day, version, spanner.CommitTimestamp},
	)
}
