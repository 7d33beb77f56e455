package domain

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// MinutesPerDay bounds a TimeRange; an end of 1440 means midnight of the next day.
const MinutesPerDay = 24 * 60

// TimeRange is a half-open interval [Start, End) of minutes from midnight.
type TimeRange struct {
	Start int
	End   int
}

// NewTimeRange validates and builds a TimeRange.
func NewTimeRange(start, end int) (TimeRange, error) {
	if start < 0 || end > MinutesPerDay || start >= end {
		return TimeRange{}, ErrInvalidSlot
	}
	return TimeRange{Start: start, End: end}, nil
}

// ParseTimeRange parses "HH:MM" bounds, e.g. ParseTimeRange("10:00", "11:30").
func ParseTimeRange(start, end string) (TimeRange, error) {
	s, err := parseClock(start)
	if err != nil {
		return TimeRange{}, err
	}
	e, err := parseClock(end)
	if err != nil {
		return TimeRange{}, err
	}
	return NewTimeRange(s, e)
}

func parseClock(v string) (int, error) {
	if v == "24:00" {
		return MinutesPerDay, nil
	}
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, v)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Overlaps reports whether the two ranges share any minute.
// Adjacent ranges (r.End == o.Start) do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// Duration returns the length of the range.
func (r TimeRange) Duration() time.Duration {
	return time.Duration(r.End-r.Start) * time.Minute
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", r.Start/60, r.Start%60, r.End/60, r.End%60)
}

// Slot is a TimeRange on a calendar date.
type Slot struct {
	Date  civil.Date
	Range TimeRange
}

// NewSlot validates and builds a Slot.
func NewSlot(date civil.Date, start, end int) (Slot, error) {
	if !date.IsValid() {
		return Slot{}, ErrInvalidSlot
	}
	r, err := NewTimeRange(start, end)
	if err != nil {
		return Slot{}, err
	}
	return Slot{Date: date, Range: r}, nil
}

// Overlaps reports whether both slots fall on the same date and their ranges overlap.
func (s Slot) Overlaps(o Slot) bool {
	return s.Date == o.Date && s.Range.Overlaps(o.Range)
}

// Weekday returns the day of week of the slot's date.
func (s Slot) Weekday() time.Weekday {
	return s.Date.In(time.UTC).Weekday()
}

func (s Slot) String() string {
	return s.Date.String() + " " + s.Range.String()
}

// CheckAdmission decides whether candidate may be admitted for a coach given the
// coach's commitments on the same date. It returns nil to admit, or an
// *OverlapError (matching ErrOverlapConflict) naming the first blocking commitment.
// Only active bookings and holds still in force at now are considered.
func CheckAdmission(candidate Slot, bookings []*Booking, holds []*SlotHold, now time.Time) error {
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if b.Slot().Overlaps(candidate) {
			return &OverlapError{CommitmentID: b.ID(), Kind: "booking", Slot: b.Slot()}
		}
	}
	for _, h := range holds {
		if !h.IsActiveAt(now) {
			continue
		}
		if h.Slot().Overlaps(candidate) {
			return &OverlapError{CommitmentID: h.ID(), Kind: "hold", Slot: h.Slot()}
		}
	}
	return nil
}
