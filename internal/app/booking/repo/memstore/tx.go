package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
)

// memTx reads committed maps directly (the store lock is held) and queues
// writes for RunInTx to apply.
type memTx struct {
	store  *Store
	writes []func()
}

func (t *memTx) queue(fn func()) {
	t.writes = append(t.writes, fn)
}

func (t *memTx) LockCoachDay(_ context.Context, coachID string, date civil.Date) error {
	key := coachDayKey{coachID: coachID, date: date}
	next := t.store.coachDays[key] + 1
	t.queue(func() { t.store.coachDays[key] = next })
	return nil
}

func (t *memTx) ActiveBookingsOn(_ context.Context, coachID string, date civil.Date) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, row := range t.store.bookings {
		if row.coachID == coachID && row.slot.Date == date && row.status.IsActive() {
			out = append(out, row.toDomain())
		}
	}
	sortBookings(out)
	return out, nil
}

func (t *memTx) ActiveHoldsOn(_ context.Context, coachID string, date civil.Date, now time.Time) ([]*domain.SlotHold, error) {
	var out []*domain.SlotHold
	for _, h := range t.store.holds {
		if h.CoachID() == coachID && h.Slot().Date == date && h.IsActiveAt(now) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (t *memTx) ActiveBookingsForCoach(_ context.Context, coachID string) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, row := range t.store.bookings {
		if row.coachID == coachID && row.status.IsActive() {
			out = append(out, row.toDomain())
		}
	}
	sortBookings(out)
	return out, nil
}

func (t *memTx) GetBooking(_ context.Context, bookingID string) (*domain.Booking, error) {
	return t.store.booking(bookingID)
}

func (t *memTx) GetPurchase(_ context.Context, purchaseID string) (*domain.PackagePurchase, error) {
	return t.store.purchase(purchaseID)
}

func (t *memTx) GetPackage(_ context.Context, packageID string) (*domain.Package, error) {
	p, ok := t.store.packages[packageID]
	if !ok {
		return nil, domain.ErrPackageNotFound
	}
	return p, nil
}

func (t *memTx) GetSchedule(_ context.Context, scheduleID string) (*domain.Schedule, error) {
	s, ok := t.store.schedules[scheduleID]
	if !ok {
		return nil, domain.ErrScheduleNotFound
	}
	return s, nil
}

func (t *memTx) SchedulesForCoach(_ context.Context, coachID string) ([]*domain.Schedule, error) {
	var out []*domain.Schedule
	for _, s := range t.store.schedules {
		if s.CoachID() == coachID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weekday() != out[j].Weekday() {
			return out[i].Weekday() < out[j].Weekday()
		}
		return out[i].Window().Start < out[j].Window().Start
	})
	return out, nil
}

func (t *memTx) InsertBooking(b *domain.Booking) error {
	if _, exists := t.store.bookings[b.ID()]; exists {
		return fmt.Errorf("booking %s already exists", b.ID())
	}
	row := rowFromBooking(b)
	t.queue(func() { t.store.bookings[row.id] = row })
	return nil
}

func (t *memTx) UpdateBooking(b *domain.Booking) error {
	if !b.Changes().HasChanges() {
		return nil
	}
	if _, exists := t.store.bookings[b.ID()]; !exists {
		return domain.ErrBookingNotFound
	}
	row := rowFromBooking(b)
	t.queue(func() { t.store.bookings[row.id] = row })
	return nil
}

func (t *memTx) InsertPurchase(p *domain.PackagePurchase) error {
	if _, exists := t.store.purchases[p.ID()]; exists {
		return fmt.Errorf("package purchase %s already exists", p.ID())
	}
	row := rowFromPurchase(p)
	t.queue(func() { t.store.purchases[row.id] = row })
	return nil
}

func (t *memTx) UpdatePurchase(p *domain.PackagePurchase) error {
	if !p.Changes().Dirty(domain.FieldSessionsUsed) {
		return nil
	}
	if _, exists := t.store.purchases[p.ID()]; !exists {
		return domain.ErrPurchaseNotFound
	}
	row := rowFromPurchase(p)
	t.queue(func() { t.store.purchases[row.id] = row })
	return nil
}

func (t *memTx) InsertPackage(p *domain.Package) error {
	t.queue(func() { t.store.packages[p.ID()] = p })
	return nil
}

func (t *memTx) InsertSchedule(s *domain.Schedule) error {
	t.queue(func() { t.store.schedules[s.ID()] = s })
	return nil
}

func (t *memTx) DeleteSchedule(scheduleID string) error {
	t.queue(func() { delete(t.store.schedules, scheduleID) })
	return nil
}

func (t *memTx) InsertHold(h *domain.SlotHold) error {
	t.queue(func() { t.store.holds[h.ID()] = h })
	return nil
}

func (t *memTx) AppendOutbox(rec *contracts.OutboxRecord) error {
	cp := *rec
	cp.Payload = append([]byte(nil), rec.Payload...)
	cp.Status = contracts.OutboxUnpublished
	cp.Published = false
	t.queue(func() {
		cp.CreatedAt = t.store.clock()
		t.store.outbox[cp.RecordID] = &cp
	})
	return nil
}

func sortBookings(bs []*domain.Booking) {
	sort.Slice(bs, func(i, j int) bool {
		a, b := bs[i].Slot(), bs[j].Slot()
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		return a.Range.Start < b.Range.Start
	})
}
