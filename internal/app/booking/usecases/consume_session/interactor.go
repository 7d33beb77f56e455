package consume_session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases"
)

// Request records sessions delivered outside a booking.
type Request struct {
	Principal  domain.Principal
	PurchaseID string
	Count      int64
}

// Response reports the purchase balance after consumption.
type Response struct {
	SessionsUsed int64
	Remaining    int64
}

// Interactor lets the package's coach draw sessions directly.
type Interactor struct {
	usecases.Deps
}

// NewInteractor creates a new consume session interactor.
func NewInteractor(deps usecases.Deps) *Interactor {
	return &Interactor{Deps: deps}
}

// Execute draws req.Count sessions from the purchase.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Count <= 0 {
		return nil, domain.ErrInvalidSessionCount
	}

	var (
		resp      *Response
		committed []domain.DomainEvent
	)
	err := i.RunInTx(ctx, func(ctx context.Context, tx contracts.Tx) error {
		purchase, err := tx.GetPurchase(ctx, req.PurchaseID)
		if err != nil {
			return err
		}
		if !req.Principal.Is(purchase.CoachID()) {
			return domain.ErrNotAuthorized
		}
		if err := purchase.Consume(req.Count, "", i.Clock.Now()); err != nil {
			return err
		}
		if err := tx.UpdatePurchase(purchase); err != nil {
			return fmt.Errorf("failed to update purchase: %w", err)
		}
		if err := i.Emit(tx, purchase.DomainEvents()); err != nil {
			return err
		}
		committed = purchase.DomainEvents()
		resp = &Response{SessionsUsed: purchase.SessionsUsed(), Remaining: purchase.Remaining()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	i.RecordCommitted(committed)
	i.Logger.Info("sessions consumed",
		slog.String("purchase_id", req.PurchaseID),
		slog.Int64("count", req.Count),
		slog.Int64("remaining", resp.Remaining),
	)
	return resp, nil
}
