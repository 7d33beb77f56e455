package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/models/m_booking"
	"github.com/light-bringer/coachbook-service/internal/pkg/query"
)

// BookingRepo maps bookings to and from Spanner. It returns mutations and
// never applies them.
type BookingRepo struct {
	model *m_booking.Model
}

// NewBookingRepo creates a new BookingRepo.
func NewBookingRepo() *BookingRepo {
	return &BookingRepo{model: m_booking.NewModel()}
}

// InsertMut creates a mutation for inserting a new booking.
func (r *BookingRepo) InsertMut(b *domain.Booking) *spanner.Mutation {
	return r.model.InsertMut(bookingToData(b))
}

// UpdateMut creates a mutation for the dirty fields of a booking, or nil.
func (r *BookingRepo) UpdateMut(b *domain.Booking) *spanner.Mutation {
	changes := b.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})
	if changes.Dirty(domain.FieldStatus) {
		updates[m_booking.Status] = string(b.Status())
	}
	if changes.Dirty(domain.FieldSessionConsumed) {
		updates[m_booking.SessionConsumed] = b.SessionConsumed()
	}
	updates[m_booking.UpdatedAt] = b.UpdatedAt()

	return r.model.UpdateMut(b.ID(), updates)
}

// Get reads one booking.
func (r *BookingRepo) Get(ctx context.Context, rd reader, bookingID string) (*domain.Booking, error) {
	row, err := rd.ReadRow(ctx, m_booking.TableName, spanner.Key{bookingID}, m_booking.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to read booking: %w", err)
	}
	return decodeBooking(row)
}

// ActiveOn lists pending and confirmed bookings of a coach on one date.
func (r *BookingRepo) ActiveOn(ctx context.Context, rd reader, coachID string, date civil.Date) ([]*domain.Booking, error) {
	stmt := query.From(m_booking.TableName).
		Select(m_booking.Columns...).
		Where(query.Eq(m_booking.CoachID, coachID)).
		Where(query.Eq(m_booking.BookingDate, date)).
		Where(query.In(m_booking.Status, activeStatuses)).
		Build()
	return queryAll(ctx, rd, stmt, decodeBooking)
}

// ActiveForCoach lists every pending and confirmed booking of a coach.
func (r *BookingRepo) ActiveForCoach(ctx context.Context, rd reader, coachID string) ([]*domain.Booking, error) {
	stmt := query.From(m_booking.TableName).
		Select(m_booking.Columns...).
		Where(query.Eq(m_booking.CoachID, coachID)).
		Where(query.In(m_booking.Status, activeStatuses)).
		OrderBy(m_booking.BookingDate, query.Asc).
		Build()
	return queryAll(ctx, rd, stmt, decodeBooking)
}

func decodeBooking(row *spanner.Row) (*domain.Booking, error) {
	var data m_booking.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse booking: %w", err)
	}
	return dataToBooking(&data), nil
}

func bookingToData(b *domain.Booking) *m_booking.Data {
	slot := b.Slot()
	return &m_booking.Data{
		BookingID:       b.ID(),
		CoachID:         b.CoachID(),
		UserID:          b.UserID(),
		BookingDate:     slot.Date,
		StartMinute:     int64(slot.Range.Start),
		EndMinute:       int64(slot.Range.End),
		Status:          string(b.Status()),
		PurchaseID:      spanner.NullString{StringVal: b.PurchaseID(), Valid: b.HasPurchase()},
		SessionConsumed: b.SessionConsumed(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}

func dataToBooking(data *m_booking.Data) *domain.Booking {
	slot := domain.Slot{
		Date:  data.BookingDate,
		Range: domain.TimeRange{Start: int(data.StartMinute), End: int(data.EndMinute)},
	}
	return domain.ReconstructBooking(
		data.BookingID,
		data.CoachID,
		data.UserID,
		slot,
		domain.BookingStatus(data.Status),
		data.PurchaseID.StringVal,
		data.SessionConsumed,
		data.CreatedAt,
		data.UpdatedAt,
	)
}
