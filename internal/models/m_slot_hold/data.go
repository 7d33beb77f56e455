package m_slot_hold

import (
	"time"

	"cloud.google.com/go/civil"
)

// Data represents the database model for the slot_holds table.
type Data struct {
	HoldID      string     `spanner:"hold_id"`
	CoachID     string     `spanner:"coach_id"`
	BookingID   string     `spanner:"booking_id"`
	HoldDate    civil.Date `spanner:"hold_date"`
	StartMinute int64      `spanner:"start_minute"`
	EndMinute   int64      `spanner:"end_minute"`
	CreatedAt   time.Time  `spanner:"created_at"`
	ExpiresAt   time.Time  `spanner:"expires_at"`
}
