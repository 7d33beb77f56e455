package m_package

// Field name constants for the packages table.
const (
	TableName = "packages"

	PackageID    = "package_id"
	CoachID      = "coach_id"
	Name         = "name"
	SessionCount = "session_count"
	ValidityDays = "validity_days"
	CreatedAt    = "created_at"
)

var Columns = []string{PackageID, CoachID, Name, SessionCount, ValidityDays, CreatedAt}
