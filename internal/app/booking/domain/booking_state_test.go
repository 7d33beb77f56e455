package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBookingStateMachine verifies all valid and invalid state transitions.
func TestBookingStateMachine(t *testing.T) {
	now := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	coach := mustPrincipal(t, "coach-c")
	user := mustPrincipal(t, "user-u")
	slot := mustSlot(t, june1, "10:00", "11:00")

	// From\To    | Confirmed | Completed | Cancelled
	// -----------|-----------|-----------|----------
	// Pending    | ✓         | ✗         | ✓
	// Confirmed  | N/A       | ✓         | ✓
	// Completed  | ✗         | N/A       | ✗
	// Cancelled  | ✗         | ✗         | N/A

	newPending := func(t *testing.T) *Booking {
		b, err := NewBooking("b-1", coach.ID(), user, slot, "", now)
		require.NoError(t, err)
		return b
	}

	t.Run("Pending → Confirmed: allowed", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Confirm(coach, now))
		assert.Equal(t, StatusConfirmed, b.Status())
		assert.True(t, b.IsActive())
	})

	t.Run("Pending → Cancelled: allowed", func(t *testing.T) {
		b := newPending(t)
		prev, err := b.Cancel(user, now)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, prev)
		assert.Equal(t, StatusCancelled, b.Status())
		assert.False(t, b.IsActive())
	})

	t.Run("Pending → Completed: forbidden", func(t *testing.T) {
		b := newPending(t)
		err := b.Complete(coach, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, StatusPending, b.Status())
	})

	t.Run("Confirmed → Completed: allowed", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Confirm(coach, now))
		require.NoError(t, b.Complete(coach, now))
		assert.Equal(t, StatusCompleted, b.Status())
	})

	t.Run("Confirmed → Cancelled: allowed", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Confirm(coach, now))
		prev, err := b.Cancel(coach, now)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, prev)
	})

	t.Run("Confirmed → Confirmed: forbidden", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Confirm(coach, now))
		assert.ErrorIs(t, b.Confirm(coach, now), ErrInvalidTransition)
	})

	t.Run("Completed → Cancelled: forbidden", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Confirm(coach, now))
		require.NoError(t, b.Complete(coach, now))

		_, err := b.Cancel(coach, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, StatusCompleted, b.Status())
	})

	t.Run("Cancelled → Confirmed: forbidden", func(t *testing.T) {
		b := newPending(t)
		_, err := b.Cancel(user, now)
		require.NoError(t, err)
		assert.ErrorIs(t, b.Confirm(coach, now), ErrInvalidTransition)
		assert.ErrorIs(t, b.Complete(coach, now), ErrInvalidTransition)
		assert.Equal(t, StatusCancelled, b.Status())
	})
}

func TestCanTransitionMatrix(t *testing.T) {
	all := []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
	allowed := map[[2]BookingStatus]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
		{StatusConfirmed, StatusCancelled}: true,
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]BookingStatus{from, to}], CanTransition(from, to), "%s → %s", from, to)
		}
	}
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
}

func TestBookingAuthorization(t *testing.T) {
	now := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	coach := mustPrincipal(t, "coach-c")
	user := mustPrincipal(t, "user-u")
	stranger := mustPrincipal(t, "someone-else")
	slot := mustSlot(t, june1, "10:00", "11:00")

	b, err := NewBooking("b-1", coach.ID(), user, slot, "", now)
	require.NoError(t, err)

	t.Run("user cannot confirm", func(t *testing.T) {
		assert.ErrorIs(t, b.Confirm(user, now), ErrNotAuthorized)
		assert.Equal(t, StatusPending, b.Status())
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		_, err := b.Cancel(stranger, now)
		assert.ErrorIs(t, err, ErrNotAuthorized)
		assert.Equal(t, StatusPending, b.Status())
	})

	t.Run("identity checked before reachability", func(t *testing.T) {
		// Pending → Completed is unreachable, but the user is not the coach.
		assert.ErrorIs(t, b.Complete(user, now), ErrNotAuthorized)
	})

	t.Run("zero principal never matches", func(t *testing.T) {
		assert.ErrorIs(t, b.Confirm(Principal{}, now), ErrNotAuthorized)
	})
}

func TestBookingEvents(t *testing.T) {
	now := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	coach := mustPrincipal(t, "coach-c")
	user := mustPrincipal(t, "user-u")
	slot := mustSlot(t, june1, "10:00", "11:00")

	b, err := NewBooking("b-1", coach.ID(), user, slot, "p-1", now)
	require.NoError(t, err)
	require.Len(t, b.DomainEvents(), 1)

	requested, ok := b.DomainEvents()[0].(*BookingRequestedEvent)
	require.True(t, ok)
	assert.Equal(t, EventBookingRequested, requested.EventType())
	assert.Equal(t, "b-1", requested.AggregateID())
	assert.Equal(t, "p-1", requested.PurchaseID)
	assert.Equal(t, 600, requested.StartMinute)

	b.ClearEvents()
	require.NoError(t, b.Confirm(coach, now))
	_, err = b.Cancel(user, now)
	require.NoError(t, err)

	events := b.DomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventBookingConfirmed, events[0].EventType())

	cancelled := events[1].(*BookingCancelledEvent)
	assert.Equal(t, "confirmed", cancelled.PreviousStatus)
	assert.Equal(t, "user-u", cancelled.CancelledBy)
	assert.True(t, b.Changes().Dirty(FieldStatus))
}

func TestNewBookingValidation(t *testing.T) {
	now := time.Now().UTC()
	user := mustPrincipal(t, "user-u")

	_, err := NewBooking("b-1", "  ", user, mustSlot(t, june1, "10:00", "11:00"), "", now)
	assert.ErrorIs(t, err, ErrEmptyCoach)

	_, err = NewBooking("b-1", "coach-c", Principal{}, mustSlot(t, june1, "10:00", "11:00"), "", now)
	assert.ErrorIs(t, err, ErrEmptyPrincipal)

	_, err = NewBooking("b-1", "coach-c", user, Slot{Date: june1, Range: TimeRange{Start: 600, End: 600}}, "", now)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}
