package m_booking

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the bookings table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a booking.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.BookingID,
		data.CoachID,
		data.UserID,
		data.BookingDate,
		data.StartMinute,
		data.EndMinute,
		data.Status,
		data.PurchaseID,
		data.SessionConsumed,
		data.CreatedAt,
		data.UpdatedAt,
	})
}

// UpdateMut creates a Spanner mutation for updating specific booking fields.
func (m *Model) UpdateMut(bookingID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, BookingID)
	values = append(values, bookingID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}
