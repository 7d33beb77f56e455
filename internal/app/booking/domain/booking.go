package domain

import (
	"strings"
	"time"
)

// Field names for change tracking
const (
	FieldStatus          = "status"
	FieldSessionConsumed = "session_consumed"
)

// BookingStatus represents the lifecycle status of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// transitions lists every reachable target per status. Completed and
// Cancelled have no entries: both are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether from → to is a legal booking transition.
func CanTransition(from, to BookingStatus) bool {
	for _, target := range transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves the status.
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsActive reports whether a booking in this status occupies its slot.
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Booking is the aggregate root for a single coaching session reservation.
type Booking struct {
	id              string
	coachID         string
	userID          string
	slot            Slot
	status          BookingStatus
	purchaseID      string
	sessionConsumed bool
	createdAt       time.Time
	updatedAt       time.Time

	changes *ChangeTracker
	events  []DomainEvent
}

// NewBooking creates a pending booking. Admission against other commitments
// is the caller's job (see CheckAdmission); this only validates the inputs.
func NewBooking(id, coachID string, user Principal, slot Slot, purchaseID string, now time.Time) (*Booking, error) {
	coachID = strings.TrimSpace(coachID)
	if coachID == "" {
		return nil, ErrEmptyCoach
	}
	if user.ID() == "" {
		return nil, ErrEmptyPrincipal
	}
	if _, err := NewTimeRange(slot.Range.Start, slot.Range.End); err != nil {
		return nil, err
	}

	b := &Booking{
		id:         id,
		coachID:    coachID,
		userID:     user.ID(),
		slot:       slot,
		status:     StatusPending,
		purchaseID: strings.TrimSpace(purchaseID),
		createdAt:  now,
		updatedAt:  now,
		changes:    NewChangeTracker(),
		events:     make([]DomainEvent, 0),
	}

	b.recordEvent(&BookingRequestedEvent{
		EventHeader: b.header(now),
		Date:        slot.Date,
		StartMinute: slot.Range.Start,
		EndMinute:   slot.Range.End,
	})

	return b, nil
}

// ReconstructBooking rebuilds a Booking from storage.
func ReconstructBooking(
	id, coachID, userID string,
	slot Slot,
	status BookingStatus,
	purchaseID string,
	sessionConsumed bool,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		coachID:         coachID,
		userID:          userID,
		slot:            slot,
		status:          status,
		purchaseID:      purchaseID,
		sessionConsumed: sessionConsumed,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		changes:         NewChangeTracker(),
		events:          make([]DomainEvent, 0),
	}
}

// Getters
func (b *Booking) ID() string                  { return b.id }
func (b *Booking) CoachID() string             { return b.coachID }
func (b *Booking) UserID() string              { return b.userID }
func (b *Booking) Slot() Slot                  { return b.slot }
func (b *Booking) Status() BookingStatus       { return b.status }
func (b *Booking) PurchaseID() string          { return b.purchaseID }
func (b *Booking) HasPurchase() bool           { return b.purchaseID != "" }
func (b *Booking) SessionConsumed() bool       { return b.sessionConsumed }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }
func (b *Booking) Changes() *ChangeTracker     { return b.changes }
func (b *Booking) DomainEvents() []DomainEvent { return b.events }

// IsActive reports whether the booking still occupies its slot.
func (b *Booking) IsActive() bool {
	return b.status.IsActive()
}

// Confirm moves a pending booking to confirmed. Coach only.
func (b *Booking) Confirm(actor Principal, now time.Time) error {
	if !actor.Is(b.coachID) {
		return ErrNotAuthorized
	}
	if err := b.transitionTo(StatusConfirmed, now); err != nil {
		return err
	}

	b.recordEvent(&BookingConfirmedEvent{
		EventHeader: b.header(now),
		Date:        b.slot.Date,
		StartMinute: b.slot.Range.Start,
		EndMinute:   b.slot.Range.End,
	})
	return nil
}

// Complete moves a confirmed booking to completed. Coach only.
func (b *Booking) Complete(actor Principal, now time.Time) error {
	if !actor.Is(b.coachID) {
		return ErrNotAuthorized
	}
	if err := b.transitionTo(StatusCompleted, now); err != nil {
		return err
	}

	b.recordEvent(&BookingCompletedEvent{EventHeader: b.header(now)})
	return nil
}

// Cancel cancels a pending or confirmed booking. The coach or the booking's
// user may cancel. Returns the status the booking had before cancelling.
func (b *Booking) Cancel(actor Principal, now time.Time) (BookingStatus, error) {
	if !actor.Is(b.coachID) && !actor.Is(b.userID) {
		return b.status, ErrNotAuthorized
	}
	previous := b.status
	if err := b.transitionTo(StatusCancelled, now); err != nil {
		return previous, err
	}

	b.recordEvent(&BookingCancelledEvent{
		EventHeader:    b.header(now),
		PreviousStatus: string(previous),
		CancelledBy:    actor.ID(),
	})
	return previous, nil
}

// MarkSessionConsumed records that confirming this booking drew a session.
func (b *Booking) MarkSessionConsumed(now time.Time) {
	b.sessionConsumed = true
	b.updatedAt = now
	b.changes.MarkDirty(FieldSessionConsumed)
}

// MarkSessionRefunded records that the drawn session was returned.
func (b *Booking) MarkSessionRefunded(now time.Time) {
	b.sessionConsumed = false
	b.updatedAt = now
	b.changes.MarkDirty(FieldSessionConsumed)
}

func (b *Booking) transitionTo(target BookingStatus, now time.Time) error {
	if !CanTransition(b.status, target) {
		return ErrInvalidTransition
	}
	b.status = target
	b.updatedAt = now
	b.changes.MarkDirty(FieldStatus)
	return nil
}

func (b *Booking) header(now time.Time) EventHeader {
	return EventHeader{
		BookingID:  b.id,
		PurchaseID: b.purchaseID,
		CoachID:    b.coachID,
		UserID:     b.userID,
		OccurredAt: now,
	}
}

func (b *Booking) recordEvent(event DomainEvent) {
	b.events = append(b.events, event)
}

// ClearEvents clears all recorded domain events (called after commit).
func (b *Booking) ClearEvents() {
	b.events = make([]DomainEvent, 0)
}
