package get_booking

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
)

// Request contains the booking ID to retrieve.
type Request struct {
	Principal domain.Principal
	BookingID string
}

// BookingDTO is the read view of a booking.
type BookingDTO struct {
	BookingID       string
	CoachID         string
	UserID          string
	Date            string
	Start           string
	End             string
	Status          string
	PurchaseID      string
	SessionConsumed bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Query handles the get booking query use case.
type Query struct {
	reader contracts.BookingReader
}

// NewQuery creates a new get booking query.
func NewQuery(reader contracts.BookingReader) *Query {
	return &Query{
		reader: reader,
	}
}

// Execute retrieves a booking visible to its coach or its user.
func (q *Query) Execute(ctx context.Context, req *Request) (*BookingDTO, error) {
	b, err := q.reader.GetBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !req.Principal.Is(b.CoachID()) && !req.Principal.Is(b.UserID()) {
		return nil, domain.ErrNotAuthorized
	}

	slot := b.Slot()
	return &BookingDTO{
		BookingID:       b.ID(),
		CoachID:         b.CoachID(),
		UserID:          b.UserID(),
		Date:            slot.Date.String(),
		Start:           clockString(slot.Range.Start),
		End:             clockString(slot.Range.End),
		Status:          string(b.Status()),
		PurchaseID:      b.PurchaseID(),
		SessionConsumed: b.SessionConsumed(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}, nil
}

func clockString(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
