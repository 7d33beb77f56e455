package get_purchase

import (
	"context"
	"time"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/pkg/clock"
)

// Request contains the purchase ID to retrieve.
type Request struct {
	Principal  domain.Principal
	PurchaseID string
}

// PurchaseDTO is the read view of a package purchase.
type PurchaseDTO struct {
	PurchaseID   string
	UserID       string
	CoachID      string
	PackageID    string
	SessionCount int64
	SessionsUsed int64
	Remaining    int64
	ExpiresAt    time.Time
	Expired      bool
}

// Query handles the get purchase query use case.
type Query struct {
	reader contracts.BookingReader
	clock  clock.Clock
}

// NewQuery creates a new get purchase query.
func NewQuery(reader contracts.BookingReader, clk clock.Clock) *Query {
	return &Query{reader: reader, clock: clk}
}

// Execute retrieves a purchase visible to its buyer or the package's coach.
func (q *Query) Execute(ctx context.Context, req *Request) (*PurchaseDTO, error) {
	p, err := q.reader.GetPurchase(ctx, req.PurchaseID)
	if err != nil {
		return nil, err
	}
	if !req.Principal.Is(p.UserID()) && !req.Principal.Is(p.CoachID()) {
		return nil, domain.ErrNotAuthorized
	}
	return &PurchaseDTO{
		PurchaseID:   p.ID(),
		UserID:       p.UserID(),
		CoachID:      p.CoachID(),
		PackageID:    p.PackageID(),
		SessionCount: p.SessionCount(),
		SessionsUsed: p.SessionsUsed(),
		Remaining:    p.Remaining(),
		ExpiresAt:    p.ExpiresAt(),
		Expired:      p.IsExpiredAt(q.clock.Now()),
	}, nil
}
