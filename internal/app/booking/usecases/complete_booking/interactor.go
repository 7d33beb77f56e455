package complete_booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases"
)

// Request identifies the booking to complete.
type Request struct {
	Principal domain.Principal
	BookingID string
}

// Interactor handles the complete booking use case.
type Interactor struct {
	usecases.Deps
}

// NewInteractor creates a new complete booking interactor.
func NewInteractor(deps usecases.Deps) *Interactor {
	return &Interactor{Deps: deps}
}

// Execute marks a confirmed booking as completed.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	var committed []domain.DomainEvent

	err := i.RunInTx(ctx, func(ctx context.Context, tx contracts.Tx) error {
		booking, err := tx.GetBooking(ctx, req.BookingID)
		if err != nil {
			return err
		}
		if err := booking.Complete(req.Principal, i.Clock.Now()); err != nil {
			return err
		}
		if err := tx.UpdateBooking(booking); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		if err := i.Emit(tx, booking.DomainEvents()); err != nil {
			return err
		}
		committed = booking.DomainEvents()
		return nil
	})
	if err != nil {
		return err
	}

	i.RecordCommitted(committed)
	i.Logger.Info("booking completed", slog.String("booking_id", req.BookingID))
	return nil
}
