package domain

import (
	"strings"
	"time"
)

// FieldSessionsUsed is the only mutable column of a purchase.
const FieldSessionsUsed = "sessions_used"

// Package is a coach's prepaid bundle of sessions.
type Package struct {
	id           string
	coachID      string
	name         string
	sessionCount int64
	validity     time.Duration
	createdAt    time.Time
}

// NewPackage validates and creates a Package.
func NewPackage(id string, coach Principal, name string, sessionCount int64, validityDays int, now time.Time) (*Package, error) {
	if coach.ID() == "" {
		return nil, ErrEmptyCoach
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyPackageName
	}
	if sessionCount <= 0 {
		return nil, ErrInvalidSessionCount
	}
	if validityDays <= 0 {
		return nil, ErrInvalidValidity
	}
	return &Package{
		id:           id,
		coachID:      coach.ID(),
		name:         name,
		sessionCount: sessionCount,
		validity:     time.Duration(validityDays) * 24 * time.Hour,
		createdAt:    now,
	}, nil
}

// ReconstructPackage rebuilds a Package from storage.
func ReconstructPackage(id, coachID, name string, sessionCount int64, validityDays int, createdAt time.Time) *Package {
	return &Package{
		id:           id,
		coachID:      coachID,
		name:         name,
		sessionCount: sessionCount,
		validity:     time.Duration(validityDays) * 24 * time.Hour,
		createdAt:    createdAt,
	}
}

func (p *Package) ID() string              { return p.id }
func (p *Package) CoachID() string         { return p.coachID }
func (p *Package) Name() string            { return p.name }
func (p *Package) SessionCount() int64     { return p.sessionCount }
func (p *Package) Validity() time.Duration { return p.validity }
func (p *Package) ValidityDays() int       { return int(p.validity / (24 * time.Hour)) }
func (p *Package) CreatedAt() time.Time    { return p.createdAt }

// PackagePurchase is the session ledger of one user's purchase of a package.
// Invariant: 0 <= sessionsUsed <= sessionCount. expiresAt never changes.
type PackagePurchase struct {
	id           string
	userID       string
	packageID    string
	coachID      string
	sessionCount int64
	sessionsUsed int64
	purchasedAt  time.Time
	expiresAt    time.Time
	updatedAt    time.Time

	changes *ChangeTracker
	events  []DomainEvent
}

// NewPackagePurchase creates a purchase expiring one validity period after now.
func NewPackagePurchase(id string, user Principal, pkg *Package, now time.Time) (*PackagePurchase, error) {
	if user.ID() == "" {
		return nil, ErrEmptyPrincipal
	}
	return &PackagePurchase{
		id:           id,
		userID:       user.ID(),
		packageID:    pkg.ID(),
		coachID:      pkg.CoachID(),
		sessionCount: pkg.SessionCount(),
		purchasedAt:  now,
		expiresAt:    now.Add(pkg.Validity()),
		updatedAt:    now,
		changes:      NewChangeTracker(),
		events:       make([]DomainEvent, 0),
	}, nil
}

// ReconstructPackagePurchase rebuilds a purchase from storage.
func ReconstructPackagePurchase(
	id, userID, packageID, coachID string,
	sessionCount, sessionsUsed int64,
	purchasedAt, expiresAt, updatedAt time.Time,
) *PackagePurchase {
	return &PackagePurchase{
		id:           id,
		userID:       userID,
		packageID:    packageID,
		coachID:      coachID,
		sessionCount: sessionCount,
		sessionsUsed: sessionsUsed,
		purchasedAt:  purchasedAt,
		expiresAt:    expiresAt,
		updatedAt:    updatedAt,
		changes:      NewChangeTracker(),
		events:       make([]DomainEvent, 0),
	}
}

// Getters
func (p *PackagePurchase) ID() string                  { return p.id }
func (p *PackagePurchase) UserID() string              { return p.userID }
func (p *PackagePurchase) PackageID() string           { return p.packageID }
func (p *PackagePurchase) CoachID() string             { return p.coachID }
func (p *PackagePurchase) SessionCount() int64         { return p.sessionCount }
func (p *PackagePurchase) SessionsUsed() int64         { return p.sessionsUsed }
func (p *PackagePurchase) Remaining() int64            { return p.sessionCount - p.sessionsUsed }
func (p *PackagePurchase) PurchasedAt() time.Time      { return p.purchasedAt }
func (p *PackagePurchase) ExpiresAt() time.Time        { return p.expiresAt }
func (p *PackagePurchase) UpdatedAt() time.Time        { return p.updatedAt }
func (p *PackagePurchase) Changes() *ChangeTracker     { return p.changes }
func (p *PackagePurchase) DomainEvents() []DomainEvent { return p.events }

// IsExpiredAt reports whether the purchase can no longer be consumed.
func (p *PackagePurchase) IsExpiredAt(now time.Time) bool {
	return !now.Before(p.expiresAt)
}

// CanConsume checks Consume's preconditions without mutating.
func (p *PackagePurchase) CanConsume(count int64, now time.Time) error {
	if count <= 0 {
		return ErrInvalidSessionCount
	}
	if p.IsExpiredAt(now) {
		return ErrPurchaseExpired
	}
	if p.sessionsUsed+count > p.sessionCount {
		return ErrSessionExhausted
	}
	return nil
}

// Consume draws count sessions. On error nothing changes.
// bookingID is the booking that triggered the draw, empty for direct consumption.
func (p *PackagePurchase) Consume(count int64, bookingID string, now time.Time) error {
	if err := p.CanConsume(count, now); err != nil {
		return err
	}

	p.sessionsUsed += count
	p.updatedAt = now
	p.changes.MarkDirty(FieldSessionsUsed)

	p.recordEvent(&SessionConsumedEvent{
		EventHeader:  p.header(bookingID, now),
		Count:        count,
		SessionsUsed: p.sessionsUsed,
		SessionCount: p.sessionCount,
	})
	return nil
}

// Refund returns up to count sessions, never dropping below zero.
// It returns how many sessions were actually returned.
func (p *PackagePurchase) Refund(count int64, bookingID string, now time.Time) (int64, error) {
	if count <= 0 {
		return 0, ErrInvalidSessionCount
	}
	refunded := count
	if refunded > p.sessionsUsed {
		refunded = p.sessionsUsed
	}
	if refunded == 0 {
		return 0, nil
	}

	p.sessionsUsed -= refunded
	p.updatedAt = now
	p.changes.MarkDirty(FieldSessionsUsed)

	p.recordEvent(&SessionRefundedEvent{
		EventHeader:  p.header(bookingID, now),
		Count:        refunded,
		SessionsUsed: p.sessionsUsed,
	})
	return refunded, nil
}

func (p *PackagePurchase) header(bookingID string, now time.Time) EventHeader {
	return EventHeader{
		BookingID:  bookingID,
		PurchaseID: p.id,
		CoachID:    p.coachID,
		UserID:     p.userID,
		OccurredAt: now,
	}
}

func (p *PackagePurchase) recordEvent(event DomainEvent) {
	p.events = append(p.events, event)
}

// ClearEvents clears all recorded domain events (called after commit).
func (p *PackagePurchase) ClearEvents() {
	p.events = make([]DomainEvent, 0)
}
