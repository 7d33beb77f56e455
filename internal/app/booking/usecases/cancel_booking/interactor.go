package cancel_booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases"
)

// Request identifies the booking to cancel.
type Request struct {
	Principal domain.Principal
	BookingID string
}

// Response reports the side effects of the cancellation.
type Response struct {
	PreviousStatus   domain.BookingStatus
	SessionsRefunded int64
	HoldID           string // empty when no hold was placed
}

// Interactor handles the cancel booking use case.
type Interactor struct {
	usecases.Deps
	holdTTL time.Duration
}

// NewInteractor creates a new cancel booking interactor. A positive holdTTL
// keeps a cancelled confirmed slot unbookable for that long.
func NewInteractor(deps usecases.Deps, holdTTL time.Duration) *Interactor {
	return &Interactor{Deps: deps, holdTTL: holdTTL}
}

// Execute cancels a pending or confirmed booking. A consumed session is
// refunded in the same unit.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	var (
		resp      *Response
		committed [][]domain.DomainEvent
	)

	err := i.RunInTx(ctx, func(ctx context.Context, tx contracts.Tx) error {
		resp = &Response{}
		committed = nil

		// 1. Load aggregate
		booking, err := tx.GetBooking(ctx, req.BookingID)
		if err != nil {
			return err
		}

		// 2. Call domain method
		now := i.Clock.Now()
		previous, err := booking.Cancel(req.Principal, now)
		if err != nil {
			return err
		}
		resp.PreviousStatus = previous

		// 3. Refund the drawn session
		var purchaseEvents []domain.DomainEvent
		if booking.SessionConsumed() {
			purchase, err := tx.GetPurchase(ctx, booking.PurchaseID())
			if err != nil {
				return err
			}
			refunded, err := purchase.Refund(1, booking.ID(), now)
			if err != nil {
				return err
			}
			booking.MarkSessionRefunded(now)
			if err := tx.UpdatePurchase(purchase); err != nil {
				return fmt.Errorf("failed to update purchase: %w", err)
			}
			resp.SessionsRefunded = refunded
			purchaseEvents = purchase.DomainEvents()
		}

		// 4. Hold the slot of a cancelled confirmed booking
		if previous == domain.StatusConfirmed && i.holdTTL > 0 {
			hold := domain.NewCancellationHold(uuid.NewString(), booking, i.holdTTL, now)
			if err := tx.InsertHold(hold); err != nil {
				return fmt.Errorf("failed to insert slot hold: %w", err)
			}
			resp.HoldID = hold.ID()
		}

		// 5. Buffer booking and outbox records
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
		return nil, err
	}

	i.RecordCommitted(committed...)
	i.Logger.Info("booking cancelled",
		slog.String("booking_id", req.BookingID),
		slog.String("previous_status", string(resp.PreviousStatus)),
		slog.Int64("sessions_refunded", resp.SessionsRefunded),
	)
	return resp, nil
}
