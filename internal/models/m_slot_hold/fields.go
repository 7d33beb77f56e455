package m_slot_hold

// Field name constants for the slot_holds table.
const (
	TableName = "slot_holds"

	HoldID      = "hold_id"
	CoachID     = "coach_id"
	BookingID   = "booking_id"
	HoldDate    = "hold_date"
	StartMinute = "start_minute"
	EndMinute   = "end_minute"
	CreatedAt   = "created_at"
	ExpiresAt   = "expires_at"
)

var Columns = []string{HoldID, CoachID, BookingID, HoldDate, StartMinute, EndMinute, CreatedAt, ExpiresAt}
