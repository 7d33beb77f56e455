package request_booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases"
	"github.com/light-bringer/coachbook-service/internal/metrics"
)

// Request asks for a coach's slot on a date.
type Request struct {
	Principal   domain.Principal
	CoachID     string
	Date        civil.Date
	StartMinute int
	EndMinute   int
	PurchaseID  string // optional
}

// Response carries the admitted booking.
type Response struct {
	BookingID string
}

// Interactor admits a booking if its slot overlaps no active commitment.
type Interactor struct {
	usecases.Deps
}

// NewInteractor creates a new request booking interactor.
func NewInteractor(deps usecases.Deps) *Interactor {
	return &Interactor{Deps: deps}
}

// Execute runs the conflict check and the insert in one unit of work locked
// on (coach, date). Concurrent overlapping requests serialize on the lock and
// every one after the first committer is rejected with ErrOverlapConflict.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	// The lock key, the conflict query and the stored booking must all use
	// the same coach id.
	norm := *req
	norm.CoachID = strings.TrimSpace(req.CoachID)
	norm.PurchaseID = strings.TrimSpace(req.PurchaseID)
	req = &norm
	if req.CoachID == "" {
		i.Metrics.RecordAdmission(metrics.OutcomeRejected)
		return nil, domain.ErrEmptyCoach
	}

	slot, err := domain.NewSlot(req.Date, req.StartMinute, req.EndMinute)
	if err != nil {
		i.Metrics.RecordAdmission(metrics.OutcomeRejected)
		return nil, err
	}

	bookingID := uuid.NewString()
	var committed []domain.DomainEvent

	err = i.RunInTx(ctx, func(ctx context.Context, tx contracts.Tx) error {
		// 1. Take the (coach, date) lock before reading commitments
		if err := tx.LockCoachDay(ctx, req.CoachID, slot.Date); err != nil {
			return fmt.Errorf("failed to lock coach day: %w", err)
		}

		// 2. Check the candidate against committed state
		now := i.Clock.Now()
		bookings, err := tx.ActiveBookingsOn(ctx, req.CoachID, slot.Date)
		if err != nil {
			return fmt.Errorf("failed to load active bookings: %w", err)
		}
		holds, err := tx.ActiveHoldsOn(ctx, req.CoachID, slot.Date, now)
		if err != nil {
			return fmt.Errorf("failed to load slot holds: %w", err)
		}
		if err := domain.CheckAdmission(slot, bookings, holds, now); err != nil {
			return err
		}

		// 3. A linked purchase must be usable by this principal for this coach
		if req.PurchaseID != "" {
			if err := i.checkPurchase(ctx, tx, req); err != nil {
				return err
			}
		}

		// 4. Buffer the booking and its event
		booking, err := domain.NewBooking(bookingID, req.CoachID, req.Principal, slot, req.PurchaseID, now)
		if err != nil {
			return err
		}
		if err := tx.InsertBooking(booking); err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}
		if err := i.Emit(tx, booking.DomainEvents()); err != nil {
			return err
		}
		committed = booking.DomainEvents()
		return nil
	})
	if err != nil {
		i.recordRejection(req, err)
		return nil, err
	}

	i.Metrics.RecordAdmission(metrics.OutcomeAdmitted)
	i.RecordCommitted(committed)
	i.Logger.Info("booking admitted",
		slog.String("booking_id", bookingID),
		slog.String("coach_id", req.CoachID),
		slog.String("slot", slot.String()),
	)
	return &Response{BookingID: bookingID}, nil
}

func (i *Interactor) checkPurchase(ctx context.Context, tx contracts.Tx, req *Request) error {
	purchase, err := tx.GetPurchase(ctx, req.PurchaseID)
	if err != nil {
		return err
	}
	if !req.Principal.Is(purchase.UserID()) || purchase.CoachID() != req.CoachID {
		return domain.ErrPurchaseNotOwned
	}
	return purchase.CanConsume(1, i.Clock.Now())
}

func (i *Interactor) recordRejection(req *Request, err error) {
	var overlap *domain.OverlapError
	if errors.As(err, &overlap) {
		i.Metrics.RecordAdmission(metrics.OutcomeConflict)
		i.Logger.Info("booking rejected: slot taken",
			slog.String("coach_id", req.CoachID),
			slog.String("conflict_kind", overlap.Kind),
			slog.String("conflict_id", overlap.CommitmentID),
		)
		return
	}
	i.Metrics.RecordAdmission(metrics.OutcomeRejected)
}
