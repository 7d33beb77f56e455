package m_booking

import (
	"time"

	"cloud.google.com/go/civil"
	"cloud.google.com/go/spanner"
)

// Data represents the database model for the bookings table.
type Data struct {
	BookingID       string             `spanner:"booking_id"`
	CoachID         string             `spanner:"coach_id"`
	UserID          string             `spanner:"user_id"`
	BookingDate     civil.Date         `spanner:"booking_date"`
	StartMinute     int64              `spanner:"start_minute"`
	EndMinute       int64              `spanner:"end_minute"`
	Status          string             `spanner:"status"`
	PurchaseID      spanner.NullString `spanner:"purchase_id"`
	SessionConsumed bool               `spanner:"session_consumed"`
	CreatedAt       time.Time          `spanner:"created_at"`
	UpdatedAt       time.Time          `spanner:"updated_at"`
}
