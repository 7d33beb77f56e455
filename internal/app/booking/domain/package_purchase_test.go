package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPurchase(t *testing.T, sessions int64, validityDays int, now time.Time) *PackagePurchase {
	t.Helper()
	pkg, err := NewPackage("pkg-1", mustPrincipal(t, "coach-c"), "Ten pack", sessions, validityDays, now)
	require.NoError(t, err)
	p, err := NewPackagePurchase("pur-1", mustPrincipal(t, "user-u"), pkg, now)
	require.NoError(t, err)
	return p
}

func TestNewPackageValidation(t *testing.T) {
	now := time.Now().UTC()
	coach := mustPrincipal(t, "coach-c")

	tests := []struct {
		name     string
		pkgName  string
		sessions int64
		days     int
		wantErr  error
	}{
		{"empty name", " ", 5, 30, ErrEmptyPackageName},
		{"zero sessions", "Pack", 0, 30, ErrInvalidSessionCount},
		{"negative validity", "Pack", 5, -1, ErrInvalidValidity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPackage("pkg-1", coach, tt.pkgName, tt.sessions, tt.days, now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	pkg, err := NewPackage("pkg-1", coach, "Pack", 5, 30, now)
	require.NoError(t, err)
	assert.Equal(t, 30, pkg.ValidityDays())
}

func TestPurchaseExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := newTestPurchase(t, 5, 30, now)

	assert.Equal(t, now.Add(30*24*time.Hour), p.ExpiresAt())
	assert.Equal(t, "coach-c", p.CoachID())

	t.Run("consumable before expiry", func(t *testing.T) {
		assert.NoError(t, p.CanConsume(1, p.ExpiresAt().Add(-time.Nanosecond)))
	})

	t.Run("rejected exactly at expiry", func(t *testing.T) {
		err := p.Consume(1, "", p.ExpiresAt())
		assert.ErrorIs(t, err, ErrPurchaseExpired)
		assert.Equal(t, int64(0), p.SessionsUsed())
		assert.Empty(t, p.DomainEvents())
	})
}

// TestConsume_ScenarioB: a fully used purchase rejects further consumption.
func TestConsume_ScenarioB(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := ReconstructPackagePurchase("pur-1", "user-u", "pkg-1", "coach-c", 5, 5, now, now.Add(24*time.Hour), now)

	err := p.Consume(1, "", now)
	assert.ErrorIs(t, err, ErrSessionExhausted)
	assert.Equal(t, int64(5), p.SessionsUsed())
	assert.False(t, p.Changes().HasChanges())
}

func TestConsumeAndRefund(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("consume records event", func(t *testing.T) {
		p := newTestPurchase(t, 5, 30, now)
		require.NoError(t, p.Consume(2, "b-1", now))
		assert.Equal(t, int64(2), p.SessionsUsed())
		assert.Equal(t, int64(3), p.Remaining())

		require.Len(t, p.DomainEvents(), 1)
		ev := p.DomainEvents()[0].(*SessionConsumedEvent)
		assert.Equal(t, EventSessionConsumed, ev.EventType())
		assert.Equal(t, "pur-1", ev.AggregateID())
		assert.Equal(t, "b-1", ev.BookingID)
		assert.Equal(t, int64(2), ev.SessionsUsed)
	})

	t.Run("over-consumption rejected atomically", func(t *testing.T) {
		p := newTestPurchase(t, 5, 30, now)
		require.NoError(t, p.Consume(4, "", now))
		assert.ErrorIs(t, p.Consume(2, "", now), ErrSessionExhausted)
		assert.Equal(t, int64(4), p.SessionsUsed())
	})

	t.Run("non-positive counts rejected", func(t *testing.T) {
		p := newTestPurchase(t, 5, 30, now)
		assert.ErrorIs(t, p.Consume(0, "", now), ErrInvalidSessionCount)
		_, err := p.Refund(-1, "", now)
		assert.ErrorIs(t, err, ErrInvalidSessionCount)
	})

	t.Run("refund floors at zero", func(t *testing.T) {
		p := newTestPurchase(t, 5, 30, now)
		require.NoError(t, p.Consume(1, "", now))

		n, err := p.Refund(3, "", now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, int64(0), p.SessionsUsed())

		p.ClearEvents()
		n, err = p.Refund(1, "", now)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, p.DomainEvents(), "no event when nothing was refunded")
	})

	t.Run("refund allowed after expiry", func(t *testing.T) {
		p := newTestPurchase(t, 5, 1, now)
		require.NoError(t, p.Consume(1, "b-1", now))
		n, err := p.Refund(1, "b-1", now.Add(48*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

// TestLedgerBoundsUnderInterleaving drives a random mix of Consume and Refund
// calls and checks the balance never leaves [0, sessionCount].
func TestLedgerBoundsUnderInterleaving(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		p := newTestPurchase(t, 5, 30, now)
		for i := 0; i < 200; i++ {
			n := int64(rng.Intn(3) + 1)
			if rng.Intn(2) == 0 {
				_ = p.Consume(n, "", now)
			} else {
				_, _ = p.Refund(n, "", now)
			}
			require.GreaterOrEqual(t, p.SessionsUsed(), int64(0))
			require.LessOrEqual(t, p.SessionsUsed(), p.SessionCount())
		}
	}
}
