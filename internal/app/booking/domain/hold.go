package domain

import "time"

// SlotHold blocks a cancelled slot from being re-admitted until it expires.
type SlotHold struct {
	id        string
	coachID   string
	bookingID string
	slot      Slot
	createdAt time.Time
	expiresAt time.Time
}

// NewCancellationHold creates a hold over the slot of a cancelled booking.
func NewCancellationHold(id string, b *Booking, ttl time.Duration, now time.Time) *SlotHold {
	return &SlotHold{
		id:        id,
		coachID:   b.CoachID(),
		bookingID: b.ID(),
		slot:      b.Slot(),
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
}

// ReconstructSlotHold rebuilds a SlotHold from storage.
func ReconstructSlotHold(id, coachID, bookingID string, slot Slot, createdAt, expiresAt time.Time) *SlotHold {
	return &SlotHold{
		id:        id,
		coachID:   coachID,
		bookingID: bookingID,
		slot:      slot,
		createdAt: createdAt,
		expiresAt: expiresAt,
	}
}

func (h *SlotHold) ID() string           { return h.id }
func (h *SlotHold) CoachID() string      { return h.coachID }
func (h *SlotHold) BookingID() string    { return h.bookingID }
func (h *SlotHold) Slot() Slot           { return h.slot }
func (h *SlotHold) CreatedAt() time.Time { return h.createdAt }
func (h *SlotHold) ExpiresAt() time.Time { return h.expiresAt }

// IsActiveAt reports whether the hold still blocks admissions at now.
func (h *SlotHold) IsActiveAt(now time.Time) bool {
	return now.Before(h.expiresAt)
}
