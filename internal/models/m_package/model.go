package m_package

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the packages table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a package.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.PackageID,
		data.CoachID,
		data.Name,
		data.SessionCount,
		data.ValidityDays,
		data.CreatedAt,
	})
}
