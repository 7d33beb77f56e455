package m_package

import "time"

// Data represents the database model for the packages table.
type Data struct {
	PackageID    string    `spanner:"package_id"`
	CoachID      string    `spanner:"coach_id"`
	Name         string    `spanner:"name"`
	SessionCount int64     `spanner:"session_count"`
	ValidityDays int64     `spanner:"validity_days"`
	CreatedAt    time.Time `spanner:"created_at"`
}
