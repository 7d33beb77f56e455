// Package usecasetest builds booking interactors over memstore for tests.
package usecasetest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/outbox"
	"github.com/light-bringer/coachbook-service/internal/app/booking/repo/memstore"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases"
	"github.com/light-bringer/coachbook-service/internal/logger"
	"github.com/light-bringer/coachbook-service/internal/metrics"
	"github.com/light-bringer/coachbook-service/internal/pkg/clock"
)

// Start is the fixture clock's initial time, 2024-06-01 (a Saturday) 08:00 UTC.
var Start = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

// Day is Start's calendar date.
var Day = civil.DateOf(Start)

// Fixture holds a fresh store, a mock clock and the shared interactor deps.
type Fixture struct {
	Store *memstore.Store
	Clock *clock.MockClock
	Deps  usecases.Deps

	Coach domain.Principal
	User  domain.Principal
}

// New creates a Fixture with coach "coach-c" and user "user-u".
func New(t *testing.T) *Fixture {
	t.Helper()
	clk := clock.NewMockClock(Start)
	store := memstore.New(clk.Now)
	return &Fixture{
		Store: store,
		Clock: clk,
		Deps:  usecases.NewDeps(store, clk, logger.Discard(), metrics.Noop{}, time.Second),
		Coach: Principal(t, "coach-c"),
		User:  Principal(t, "user-u"),
	}
}

// Principal builds a principal or fails the test.
func Principal(t *testing.T, id string) domain.Principal {
	t.Helper()
	p, err := domain.NewPrincipal(id)
	require.NoError(t, err)
	return p
}

// SeedPurchase stores a package of sessions valid for validityDays and a
// purchase of it by f.User.
func (f *Fixture) SeedPurchase(t *testing.T, sessions int64, validityDays int) *domain.PackagePurchase {
	t.Helper()
	pkg, err := domain.NewPackage("pkg-"+f.Coach.ID(), f.Coach, "Coaching pack", sessions, validityDays, f.Clock.Now())
	require.NoError(t, err)
	purchase, err := domain.NewPackagePurchase("pur-1", f.User, pkg, f.Clock.Now())
	require.NoError(t, err)

	err = f.Store.RunInTx(context.Background(), func(ctx context.Context, tx contracts.Tx) error {
		if err := tx.InsertPackage(pkg); err != nil {
			return err
		}
		return tx.InsertPurchase(purchase)
	})
	require.NoError(t, err)
	return purchase
}

// SeedPending stores a pending booking of f.User with f.Coach on Day.
// Its BookingRequested event is not written to the outbox.
func (f *Fixture) SeedPending(t *testing.T, id string, start, end int, purchaseID string) *domain.Booking {
	t.Helper()
	slot, err := domain.NewSlot(Day, start, end)
	require.NoError(t, err)
	b, err := domain.NewBooking(id, f.Coach.ID(), f.User, slot, purchaseID, f.Clock.Now())
	require.NoError(t, err)
	f.SeedBooking(t, b)
	return b
}

// SeedBooking stores b as is, bypassing admission.
func (f *Fixture) SeedBooking(t *testing.T, b *domain.Booking) {
	t.Helper()
	err := f.Store.RunInTx(context.Background(), func(ctx context.Context, tx contracts.Tx) error {
		return tx.InsertBooking(b)
	})
	require.NoError(t, err)
}

// Booking reads a booking back from the store.
func (f *Fixture) Booking(t *testing.T, id string) *domain.Booking {
	t.Helper()
	b, err := f.Store.GetBooking(context.Background(), id)
	require.NoError(t, err)
	return b
}

// Purchase reads a purchase back from the store.
func (f *Fixture) Purchase(t *testing.T, id string) *domain.PackagePurchase {
	t.Helper()
	p, err := f.Store.GetPurchase(context.Background(), id)
	require.NoError(t, err)
	return p
}

// Kinds lists committed outbox record kinds in creation order.
func (f *Fixture) Kinds() []string {
	recs := f.Store.OutboxRecords()
	kinds := make([]string, 0, len(recs))
	for _, rec := range recs {
		kinds = append(kinds, rec.EventType)
	}
	return kinds
}

// Envelopes decodes every committed outbox record.
func (f *Fixture) Envelopes(t *testing.T) []*outbox.Envelope {
	t.Helper()
	var out []*outbox.Envelope
	for _, rec := range f.Store.OutboxRecords() {
		env, err := outbox.DecodeEnvelope(rec.Payload)
		require.NoError(t, err)
		out = append(out, env)
	}
	return out
}

// Data decodes an envelope's kind-specific payload into v.
func Data(t *testing.T, env *outbox.Envelope, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}
