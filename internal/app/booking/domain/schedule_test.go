package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule(t *testing.T) {
	now := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	coach := mustPrincipal(t, "coach-c")
	user := mustPrincipal(t, "user-u")
	window, err := ParseTimeRange("09:00", "12:00")
	require.NoError(t, err)

	s, err := NewSchedule("s-1", coach, time.Saturday, window, now)
	require.NoError(t, err)

	t.Run("invalid weekday rejected", func(t *testing.T) {
		_, err := NewSchedule("s-2", coach, time.Weekday(7), window, now)
		assert.ErrorIs(t, err, ErrInvalidWeekday)
	})

	t.Run("overlapping windows on same weekday collide", func(t *testing.T) {
		other, err := NewSchedule("s-2", coach, time.Saturday, TimeRange{Start: 11 * 60, End: 13 * 60}, now)
		require.NoError(t, err)
		assert.True(t, s.OverlapsSchedule(other))

		adjacent, err := NewSchedule("s-3", coach, time.Saturday, TimeRange{Start: 12 * 60, End: 13 * 60}, now)
		require.NoError(t, err)
		assert.False(t, s.OverlapsSchedule(adjacent))

		sunday, err := NewSchedule("s-4", coach, time.Sunday, window, now)
		require.NoError(t, err)
		assert.False(t, s.OverlapsSchedule(sunday))
	})

	t.Run("active booking in window blocks removal", func(t *testing.T) {
		// 2024-06-01 is a Saturday.
		b, err := NewBooking("b-1", coach.ID(), user, mustSlot(t, june1, "10:00", "11:00"), "", now)
		require.NoError(t, err)
		assert.ErrorIs(t, s.CheckRemovable([]*Booking{b}), ErrScheduleInUse)

		_, err = b.Cancel(user, now)
		require.NoError(t, err)
		assert.NoError(t, s.CheckRemovable([]*Booking{b}))
	})

	t.Run("booking on another weekday does not block", func(t *testing.T) {
		b, err := NewBooking("b-2", coach.ID(), user, mustSlot(t, june1.AddDays(1), "10:00", "11:00"), "", now)
		require.NoError(t, err)
		assert.NoError(t, s.CheckRemovable([]*Booking{b}))
	})
}
