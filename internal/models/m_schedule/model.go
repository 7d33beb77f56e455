package m_schedule

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the schedules table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a schedule window.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.ScheduleID,
		data.CoachID,
		data.Weekday,
		data.StartMinute,
		data.EndMinute,
		data.CreatedAt,
	})
}

// DeleteMut creates a Spanner mutation for deleting a schedule window.
func (m *Model) DeleteMut(scheduleID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{scheduleID})
}
