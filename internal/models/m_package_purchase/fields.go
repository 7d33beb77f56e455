package m_package_purchase

// Field name constants for the package_purchases table.
const (
	TableName = "package_purchases"

	PurchaseID   = "purchase_id"
	UserID       = "user_id"
	PackageID    = "package_id"
	CoachID      = "coach_id"
	SessionCount = "session_count"
	SessionsUsed = "sessions_used"
	PurchasedAt  = "purchased_at"
	ExpiresAt    = "expires_at"
	UpdatedAt    = "updated_at"
)

var Columns = []string{
	PurchaseID,
	UserID,
	PackageID,
	CoachID,
	SessionCount,
	SessionsUsed,
	PurchasedAt,
	ExpiresAt,
	UpdatedAt,
}
