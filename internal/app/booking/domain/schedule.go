package domain

import (
	"strings"
	"time"
)

// Schedule is a coach's recurring weekly availability window.
type Schedule struct {
	id        string
	coachID   string
	weekday   time.Weekday
	window    TimeRange
	createdAt time.Time
}

// NewSchedule validates and creates a Schedule. Overlap with the coach's
// other windows is checked by the caller with OverlapsSchedule.
func NewSchedule(id string, coach Principal, weekday time.Weekday, window TimeRange, now time.Time) (*Schedule, error) {
	if coach.ID() == "" {
		return nil, ErrEmptyCoach
	}
	if weekday < time.Sunday || weekday > time.Saturday {
		return nil, ErrInvalidWeekday
	}
	if _, err := NewTimeRange(window.Start, window.End); err != nil {
		return nil, err
	}
	return &Schedule{
		id:        id,
		coachID:   strings.TrimSpace(coach.ID()),
		weekday:   weekday,
		window:    window,
		createdAt: now,
	}, nil
}

// ReconstructSchedule rebuilds a Schedule from storage.
func ReconstructSchedule(id, coachID string, weekday time.Weekday, window TimeRange, createdAt time.Time) *Schedule {
	return &Schedule{
		id:        id,
		coachID:   coachID,
		weekday:   weekday,
		window:    window,
		createdAt: createdAt,
	}
}

func (s *Schedule) ID() string            { return s.id }
func (s *Schedule) CoachID() string       { return s.coachID }
func (s *Schedule) Weekday() time.Weekday { return s.weekday }
func (s *Schedule) Window() TimeRange     { return s.window }
func (s *Schedule) CreatedAt() time.Time  { return s.createdAt }

// Overlaps reports whether slot falls on the schedule's weekday and shares
// any minute with its window.
func (s *Schedule) Overlaps(slot Slot) bool {
	return slot.Weekday() == s.weekday && s.window.Overlaps(slot.Range)
}

// OverlapsSchedule reports whether two windows collide on the same weekday.
func (s *Schedule) OverlapsSchedule(o *Schedule) bool {
	return s.weekday == o.weekday && s.window.Overlaps(o.window)
}

// CheckRemovable returns ErrScheduleInUse if any active booking still lies
// within the window.
func (s *Schedule) CheckRemovable(bookings []*Booking) error {
	for _, b := range bookings {
		if b.IsActive() && b.CoachID() == s.coachID && s.Overlaps(b.Slot()) {
			return ErrScheduleInUse
		}
	}
	return nil
}
