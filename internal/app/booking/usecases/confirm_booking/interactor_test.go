package confirm_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/usecasetest"
)

func TestConfirmBooking_WithoutPurchase(t *testing.T) {
	f := usecasetest.New(t)
	f.SeedPending(t, "b-1", 600, 660, "")

	err := NewInteractor(f.Deps).Execute(context.Background(), &Request{Principal: f.Coach, BookingID: "b-1"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, f.Booking(t, "b-1").Status())
	assert.Equal(t, []string{domain.EventBookingConfirmed}, f.Kinds())
}

func TestConfirmBooking_ConsumesLinkedSession(t *testing.T) {
	f := usecasetest.New(t)
	purchase := f.SeedPurchase(t, 5, 30)
	f.SeedPending(t, "b-1", 600, 660, purchase.ID())

	err := NewInteractor(f.Deps).Execute(context.Background(), &Request{Principal: f.Coach, BookingID: "b-1"})
	require.NoError(t, err)

	b := f.Booking(t, "b-1")
	assert.Equal(t, domain.StatusConfirmed, b.Status())
	assert.True(t, b.SessionConsumed())
	assert.Equal(t, int64(1), f.Purchase(t, purchase.ID()).SessionsUsed())
	assert.Equal(t, []string{domain.EventBookingConfirmed, domain.EventSessionConsumed}, f.Kinds())

	consumed := f.Envelopes(t)[1]
	assert.Equal(t, purchase.ID(), consumed.AggregateID)
	assert.Equal(t, "b-1", consumed.BookingID)
}

// TestConfirmBooking_ScenarioB: an exhausted purchase blocks confirmation and
// nothing changes.
func TestConfirmBooking_ScenarioB(t *testing.T) {
	f := usecasetest.New(t)
	purchase := f.SeedPurchase(t, 5, 30)
	uc := NewInteractor(f.Deps)
	ctx := context.Background()

	for n := 0; n < 5; n++ {
		id := "b-" + string(rune('a'+n))
		f.SeedPending(t, id, 600+n*60, 660+n*60, purchase.ID())
		require.NoError(t, uc.Execute(ctx, &Request{Principal: f.Coach, BookingID: id}))
	}
	require.Equal(t, int64(5), f.Purchase(t, purchase.ID()).SessionsUsed())
	recordsBefore := len(f.Kinds())

	f.SeedPending(t, "b-extra", 1000, 1060, purchase.ID())
	err := uc.Execute(ctx, &Request{Principal: f.Coach, BookingID: "b-extra"})
	assert.ErrorIs(t, err, domain.ErrSessionExhausted)

	assert.Equal(t, int64(5), f.Purchase(t, purchase.ID()).SessionsUsed())
	assert.Equal(t, domain.StatusPending, f.Booking(t, "b-extra").Status())
	assert.Len(t, f.Kinds(), recordsBefore)
}

func TestConfirmBooking_ExpiredPurchase(t *testing.T) {
	f := usecasetest.New(t)
	purchase := f.SeedPurchase(t, 5, 7)
	f.SeedPending(t, "b-1", 600, 660, purchase.ID())
	f.Clock.Advance(7 * 24 * time.Hour)

	err := NewInteractor(f.Deps).Execute(context.Background(), &Request{Principal: f.Coach, BookingID: "b-1"})
	assert.ErrorIs(t, err, domain.ErrPurchaseExpired)
	assert.Equal(t, domain.StatusPending, f.Booking(t, "b-1").Status())
	assert.Zero(t, f.Purchase(t, purchase.ID()).SessionsUsed())
}

func TestConfirmBooking_Errors(t *testing.T) {
	f := usecasetest.New(t)
	f.SeedPending(t, "b-1", 600, 660, "")
	uc := NewInteractor(f.Deps)
	ctx := context.Background()

	t.Run("user cannot confirm", func(t *testing.T) {
		err := uc.Execute(ctx, &Request{Principal: f.User, BookingID: "b-1"})
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("unknown booking", func(t *testing.T) {
		err := uc.Execute(ctx, &Request{Principal: f.Coach, BookingID: "missing"})
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})

	t.Run("confirm twice", func(t *testing.T) {
		require.NoError(t, uc.Execute(ctx, &Request{Principal: f.Coach, BookingID: "b-1"}))
		err := uc.Execute(ctx, &Request{Principal: f.Coach, BookingID: "b-1"})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	assert.Equal(t, []string{domain.EventBookingConfirmed}, f.Kinds())
}
