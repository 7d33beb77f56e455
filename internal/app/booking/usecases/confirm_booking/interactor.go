package confirm_booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases"
)

// Request identifies the booking to confirm.
type Request struct {
	Principal domain.Principal
	BookingID string
}

// Interactor handles the confirm booking use case.
type Interactor struct {
	usecases.Deps
}

// NewInteractor creates a new confirm booking interactor.
func NewInteractor(deps usecases.Deps) *Interactor {
	return &Interactor{Deps: deps}
}

// Execute confirms a pending booking. A linked purchase is drawn down by one
// session in the same unit, so the confirmation fails if the package is
// expired or exhausted.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	var committed [][]domain.DomainEvent

	err := i.RunInTx(ctx, func(ctx context.Context, tx contracts.Tx) error {
		committed = nil

		// 1. Load aggregate
		booking, err := tx.GetBooking(ctx, req.BookingID)
		if err != nil {
			return err
		}

		// 2. Call domain method
		now := i.Clock.Now()
		if err := booking.Confirm(req.Principal, now); err != nil {
			return err
		}

		// 3. Ledger adjustment
		var purchaseEvents []domain.DomainEvent
		if booking.HasPurchase() {
			purchase, err := tx.GetPurchase(ctx, booking.PurchaseID())
			if err != nil {
				return err
			}
			if err := purchase.Consume(1, booking.ID(), now); err != nil {
				return err
			}
			booking.MarkSessionConsumed(now)
			if err := tx.UpdatePurchase(purchase); err != nil {
				return fmt.Errorf("failed to update purchase: %w", err)
			}
			purchaseEvents = purchase.DomainEvents()
		}

		// 4. Buffer booking and outbox records
		if err := tx.UpdateBooking(booking); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		if err := i.Emit(tx, booking.DomainEvents(), purchaseEvents); err != nil {
			return err
		}
		committed = [][]domain.DomainEvent{booking.DomainEvents(), purchaseEvents}
		return nil
	})
	if err != nil {
		return err
	}

	i.RecordCommitted(committed...)
	i.Logger.Info("booking confirmed", slog.String("booking_id", req.BookingID))
	return nil
}
