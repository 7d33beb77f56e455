package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/models/m_coach_day"
	"github.com/light-bringer/coachbook-service/internal/pkg/committer"
)

// Store is the Spanner-backed unit of work.
type Store struct {
	client    *spanner.Client
	committer *committer.Committer

	bookings  *BookingRepo
	purchases *PurchaseRepo
	schedules *ScheduleRepo
	holds     *HoldRepo
	outbox    *OutboxRepo
	coachDays *m_coach_day.Model
}

// NewStore creates a new Store.
func NewStore(client *spanner.Client) *Store {
	return &Store{
		client:    client,
		committer: committer.NewCommitter(client),
		bookings:  NewBookingRepo(),
		purchases: NewPurchaseRepo(),
		schedules: NewScheduleRepo(),
		holds:     NewHoldRepo(),
		outbox:    NewOutboxRepo(client),
		coachDays: m_coach_day.NewModel(),
	}
}

var (
	_ contracts.UnitOfWork    = (*Store)(nil)
	_ contracts.BookingReader = (*Store)(nil)
)

// RunInTx runs fn in a Spanner read-write transaction. Writes made through tx
// are collected in a CommitPlan and buffered only if fn succeeds.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx contracts.Tx) error) error {
	return s.committer.RunReadWrite(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction, plan *committer.CommitPlan) error {
		return fn(ctx, &spannerTx{store: s, txn: txn, plan: plan})
	})
}

// GetBooking reads a booking at a strong read timestamp.
func (s *Store) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return s.bookings.Get(ctx, s.client.Single(), bookingID)
}

// GetPurchase reads a purchase at a strong read timestamp.
func (s *Store) GetPurchase(ctx context.Context, purchaseID string) (*domain.PackagePurchase, error) {
	return s.purchases.GetPurchase(ctx, s.client.Single(), purchaseID)
}

type spannerTx struct {
	store *Store
	txn   *spanner.ReadWriteTransaction
	plan  *committer.CommitPlan
}

func (t *spannerTx) LockCoachDay(ctx context.Context, coachID string, date civil.Date) error {
	var version int64
	row, err := t.txn.ReadRow(ctx, m_coach_day.TableName, t.store.coachDays.Key(coachID, date), []string{m_coach_day.Version})
	switch {
	case err == nil:
		if err := row.Columns(&version); err != nil {
			return fmt.Errorf("failed to parse coach day version: %w", err)
		}
	case spanner.ErrCode(err) == codes.NotFound:
		version = 0
	default:
		return fmt.Errorf("failed to lock coach day: %w", err)
	}
	t.plan.Add(t.store.coachDays.BumpMut(coachID, date, version+1))
	return nil
}

func (t *spannerTx) ActiveBookingsOn(ctx context.Context, coachID string, date civil.Date) ([]*domain.Booking, error) {
	return t.store.bookings.ActiveOn(ctx, t.txn, coachID, date)
}

func (t *spannerTx) ActiveHoldsOn(ctx context.Context, coachID string, date civil.Date, now time.Time) ([]*domain.SlotHold, error) {
	return t.store.holds.ActiveOn(ctx, t.txn, coachID, date, now)
}

func (t *spannerTx) ActiveBookingsForCoach(ctx context.Context, coachID string) ([]*domain.Booking, error) {
	return t.store.bookings.ActiveForCoach(ctx, t.txn, coachID)
}

func (t *spannerTx) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return t.store.bookings.Get(ctx, t.txn, bookingID)
}

func (t *spannerTx) GetPurchase(ctx context.Context, purchaseID string) (*domain.PackagePurchase, error) {
	return t.store.purchases.GetPurchase(ctx, t.txn, purchaseID)
}

func (t *spannerTx) GetPackage(ctx context.Context, packageID string) (*domain.Package, error) {
	return t.store.purchases.GetPackage(ctx, t.txn, packageID)
}

func (t *spannerTx) GetSchedule(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	return t.store.schedules.Get(ctx, t.txn, scheduleID)
}

func (t *spannerTx) SchedulesForCoach(ctx context.Context, coachID string) ([]*domain.Schedule, error) {
	return t.store.schedules.ForCoach(ctx, t.txn, coachID)
}

func (t *spannerTx) InsertBooking(b *domain.Booking) error {
	t.plan.Add(t.store.bookings.InsertMut(b))
	return nil
}

func (t *spannerTx) UpdateBooking(b *domain.Booking) error {
	t.plan.Add(t.store.bookings.UpdateMut(b))
	return nil
}

func (t *spannerTx) InsertPurchase(p *domain.PackagePurchase) error {
	t.plan.Add(t.store.purchases.InsertPurchaseMut(p))
	return nil
}

func (t *spannerTx) UpdatePurchase(p *domain.PackagePurchase) error {
	t.plan.Add(t.store.purchases.UpdatePurchaseMut(p))
	return nil
}

func (t *spannerTx) InsertPackage(p *domain.Package) error {
	t.plan.Add(t.store.purchases.InsertPackageMut(p))
	return nil
}

func (t *spannerTx) InsertSchedule(s *domain.Schedule) error {
	t.plan.Add(t.store.schedules.InsertMut(s))
	return nil
}

func (t *spannerTx) DeleteSchedule(scheduleID string) error {
	t.plan.Add(t.store.schedules.DeleteMut(scheduleID))
	return nil
}

func (t *spannerTx) InsertHold(h *domain.SlotHold) error {
	t.plan.Add(t.store.holds.InsertMut(h))
	return nil
}

func (t *spannerTx) AppendOutbox(rec *contracts.OutboxRecord) error {
	t.plan.Add(t.store.outbox.InsertMut(rec))
	return nil
}

// Outbox returns the relay-facing outbox store sharing this client.
func (s *Store) Outbox() *OutboxRepo {
	return s.outbox
}

// Client returns the underlying Spanner client.
func (s *Store) Client() *spanner.Client {
	return s.client
}
