package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
)

// UnitOfWork runs fn inside one atomic read-write unit. Writes buffered on tx
// become visible together when fn returns nil and are discarded otherwise.
// fn may be invoked more than once if the store retries an aborted unit, so it
// must not have side effects outside tx.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the read/write surface available inside a unit of work.
// Reads observe committed state; buffered writes are not read back.
type Tx interface {
	// LockCoachDay serializes every unit that calls it with the same key.
	LockCoachDay(ctx context.Context, coachID string, date civil.Date) error

	ActiveBookingsOn(ctx context.Context, coachID string, date civil.Date) ([]*domain.Booking, error)
	ActiveHoldsOn(ctx context.Context, coachID string, date civil.Date, now time.Time) ([]*domain.SlotHold, error)
	ActiveBookingsForCoach(ctx context.Context, coachID string) ([]*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	GetPurchase(ctx context.Context, purchaseID string) (*domain.PackagePurchase, error)
	GetPackage(ctx context.Context, packageID string) (*domain.Package, error)
	GetSchedule(ctx context.Context, scheduleID string) (*domain.Schedule, error)
	SchedulesForCoach(ctx context.Context, coachID string) ([]*domain.Schedule, error)

	InsertBooking(b *domain.Booking) error
	UpdateBooking(b *domain.Booking) error
	InsertPurchase(p *domain.PackagePurchase) error
	UpdatePurchase(p *domain.PackagePurchase) error
	InsertPackage(p *domain.Package) error
	InsertSchedule(s *domain.Schedule) error
	DeleteSchedule(scheduleID string) error
	InsertHold(h *domain.SlotHold) error
	AppendOutbox(rec *OutboxRecord) error
}

// BookingReader serves single reads outside a unit of work.
type BookingReader interface {
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	GetPurchase(ctx context.Context, purchaseID string) (*domain.PackagePurchase, error)
}
