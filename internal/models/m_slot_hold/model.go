package m_slot_hold

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the slot_holds table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a hold.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.HoldID,
		data.CoachID,
		data.BookingID,
		data.HoldDate,
		data.StartMinute,
		data.EndMinute,
		data.CreatedAt,
		data.ExpiresAt,
	})
}
