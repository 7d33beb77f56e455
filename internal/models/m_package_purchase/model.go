package m_package_purchase

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the package_purchases table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a purchase.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.PurchaseID,
		data.UserID,
		data.PackageID,
		data.CoachID,
		data.SessionCount,
		data.SessionsUsed,
		data.PurchasedAt,
		data.ExpiresAt,
		data.UpdatedAt,
	})
}

// UpdateSessionsMut writes a new sessions_used balance.
// expires_at is never part of an update.
func (m *Model) UpdateSessionsMut(purchaseID string, sessionsUsed int64, updatedAt time.Time) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{PurchaseID, SessionsUsed, UpdatedAt},
		[]interface{}{purchaseID, sessionsUsed, updatedAt},
	)
}
