package m_booking

// Field name constants for the bookings table.
const (
	TableName = "bookings"

	BookingID       = "booking_id"
	CoachID         = "coach_id"
	UserID          = "user_id"
	BookingDate     = "booking_date"
	StartMinute     = "start_minute"
	EndMinute       = "end_minute"
	Status          = "status"
	PurchaseID      = "purchase_id"
	SessionConsumed = "session_consumed"
	CreatedAt       = "created_at"
	UpdatedAt       = "updated_at"

	// ByCoachDate backs admission reads.
	ByCoachDate = "bookings_by_coach_date"
)

// Columns lists every column in table order.
var Columns = []string{
	BookingID,
	CoachID,
	UserID,
	BookingDate,
	StartMinute,
	EndMinute,
	Status,
	PurchaseID,
	SessionConsumed,
	CreatedAt,
	UpdatedAt,
}
