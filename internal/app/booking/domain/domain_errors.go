package domain

import (
	"errors"
	"fmt"
)

// Domain errors as sentinel values
var (
	// Admission errors
	ErrOverlapConflict = errors.New("slot overlaps an existing commitment")
	ErrInvalidSlot     = errors.New("slot start must be before end and within one day")

	// State machine errors
	ErrInvalidTransition = errors.New("booking status transition is not allowed")
	ErrNotAuthorized     = errors.New("principal is not allowed to perform this action")
	ErrEmptyPrincipal    = errors.New("principal identifier cannot be empty")

	// Ledger errors
	ErrSessionExhausted    = errors.New("no sessions left on package purchase")
	ErrPurchaseExpired     = errors.New("package purchase has expired")
	ErrInvalidSessionCount = errors.New("session count must be positive")
	ErrPurchaseNotOwned    = errors.New("package purchase does not belong to this booking")
	ErrInvalidValidity     = errors.New("package validity must be positive")
	ErrEmptyPackageName    = errors.New("package name cannot be empty")

	// Schedule errors
	ErrScheduleInUse   = errors.New("schedule window still has active bookings")
	ErrScheduleOverlap = errors.New("schedule window overlaps an existing window")
	ErrInvalidWeekday  = errors.New("weekday must be between Sunday and Saturday")

	// Lookup errors
	ErrBookingNotFound  = errors.New("booking not found")
	ErrPurchaseNotFound = errors.New("package purchase not found")
	ErrPackageNotFound  = errors.New("package not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrEmptyCoach       = errors.New("coach identifier cannot be empty")
)

// OverlapError reports which commitment blocked an admission.
// It matches ErrOverlapConflict with errors.Is.
type OverlapError struct {
	CommitmentID string
	Kind         string // "booking" or "hold"
	Slot         Slot
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: %s %s at %s", ErrOverlapConflict, e.Kind, e.CommitmentID, e.Slot)
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlapConflict
}
