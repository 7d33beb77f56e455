// Package memstore is an in-memory implementation of the booking unit of work
// and the outbox store. A single mutex serializes units of work; writes are
// buffered and applied only when the unit's function returns nil.
// It backs tests and local runs without a Spanner emulator.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
)

type bookingRow struct {
	id, coachID, userID string
	slot                domain.Slot
	status              domain.BookingStatus
	purchaseID          string
	sessionConsumed     bool
	createdAt           time.Time
	updatedAt           time.Time
}

type purchaseRow struct {
	id, userID, packageID, coachID string
	sessionCount, sessionsUsed     int64
	purchasedAt, expiresAt         time.Time
	updatedAt                      time.Time
}

type coachDayKey struct {
	coachID string
	date    civil.Date
}

// Store holds all state in maps guarded by mu.
type Store struct {
	mu sync.Mutex

	bookings  map[string]bookingRow
	purchases map[string]purchaseRow
	packages  map[string]*domain.Package
	schedules map[string]*domain.Schedule
	holds     map[string]*domain.SlotHold
	coachDays map[coachDayKey]int64
	outbox    map[string]*contracts.OutboxRecord

	clock func() time.Time
}

// New creates an empty Store. now stamps outbox created_at, standing in for
// Spanner's commit timestamp.
func New(now func() time.Time) *Store {
	return &Store{
		bookings:  make(map[string]bookingRow),
		purchases: make(map[string]purchaseRow),
		packages:  make(map[string]*domain.Package),
		schedules: make(map[string]*domain.Schedule),
		holds:     make(map[string]*domain.SlotHold),
		coachDays: make(map[coachDayKey]int64),
		outbox:    make(map[string]*contracts.OutboxRecord),
		clock:     now,
	}
}

var (
	_ contracts.UnitOfWork    = (*Store)(nil)
	_ contracts.BookingReader = (*Store)(nil)
	_ contracts.OutboxStore   = (*Store)(nil)
)

// RunInTx runs fn with the store locked. Buffered writes are applied only if
// fn returns nil and ctx is still live.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx contracts.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, apply := range tx.writes {
		apply()
	}
	return nil
}

// GetBooking reads one booking.
func (s *Store) GetBooking(_ context.Context, bookingID string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.booking(bookingID)
}

// GetPurchase reads one purchase.
func (s *Store) GetPurchase(_ context.Context, purchaseID string) (*domain.PackagePurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purchase(purchaseID)
}

// OutboxRecords returns a copy of every outbox record ordered by creation.
func (s *Store) OutboxRecords() []contracts.OutboxRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedOutbox(func(*contracts.OutboxRecord) bool { return true })
}

func (s *Store) booking(id string) (*domain.Booking, error) {
	row, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return row.toDomain(), nil
}

func (s *Store) purchase(id string) (*domain.PackagePurchase, error) {
	row, ok := s.purchases[id]
	if !ok {
		return nil, domain.ErrPurchaseNotFound
	}
	return domain.ReconstructPackagePurchase(
		row.id, row.userID, row.packageID, row.coachID,
		row.sessionCount, row.sessionsUsed,
		row.purchasedAt, row.expiresAt, row.updatedAt,
	), nil
}

func (s *Store) sortedOutbox(keep func(*contracts.OutboxRecord) bool) []contracts.OutboxRecord {
	out := make([]contracts.OutboxRecord, 0, len(s.outbox))
	for _, rec := range s.outbox {
		if keep(rec) {
			cp := *rec
			cp.Payload = append([]byte(nil), rec.Payload...)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].RecordID < out[j].RecordID
	})
	return out
}

func (r bookingRow) toDomain() *domain.Booking {
	return domain.ReconstructBooking(
		r.id, r.coachID, r.userID, r.slot, r.status,
		r.purchaseID, r.sessionConsumed, r.createdAt, r.updatedAt,
	)
}

func rowFromBooking(b *domain.Booking) bookingRow {
	return bookingRow{
		id:              b.ID(),
		coachID:         b.CoachID(),
		userID:          b.UserID(),
		slot:            b.Slot(),
		status:          b.Status(),
		purchaseID:      b.PurchaseID(),
		sessionConsumed: b.SessionConsumed(),
		createdAt:       b.CreatedAt(),
		updatedAt:       b.UpdatedAt(),
	}
}

func rowFromPurchase(p *domain.PackagePurchase) purchaseRow {
	return purchaseRow{
		id:           p.ID(),
		userID:       p.UserID(),
		packageID:    p.PackageID(),
		coachID:      p.CoachID(),
		sessionCount: p.SessionCount(),
		sessionsUsed: p.SessionsUsed(),
		purchasedAt:  p.PurchasedAt(),
		expiresAt:    p.ExpiresAt(),
		updatedAt:    p.UpdatedAt(),
	}
}
