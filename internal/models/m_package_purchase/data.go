package m_package_purchase

import "time"

// Data represents the database model for the package_purchases table.
type Data struct {
	PurchaseID   string    `spanner:"purchase_id"`
	UserID       string    `spanner:"user_id"`
	PackageID    string    `spanner:"package_id"`
	CoachID      string    `spanner:"coach_id"`
	SessionCount int64     `spanner:"session_count"`
	SessionsUsed int64     `spanner:"sessions_used"`
	PurchasedAt  time.Time `spanner:"purchased_at"`
	ExpiresAt    time.Time `spanner:"expires_at"`
	UpdatedAt    time.Time `spanner:"updated_at"`
}
