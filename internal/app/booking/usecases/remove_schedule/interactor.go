package remove_schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases"
)

// Request identifies the schedule to remove.
type Request struct {
	Principal  domain.Principal
	ScheduleID string
}

// Interactor handles the remove schedule use case.
type Interactor struct {
	usecases.Deps
}

// NewInteractor creates a new remove schedule interactor.
func NewInteractor(deps usecases.Deps) *Interactor {
	return &Interactor{Deps: deps}
}

// Execute deletes the window if no active booking still falls inside it.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	err := i.RunInTx(ctx, func(ctx context.Context, tx contracts.Tx) error {
		schedule, err := tx.GetSchedule(ctx, req.ScheduleID)
		if err != nil {
			return err
		}
		if !req.Principal.Is(schedule.CoachID()) {
			return domain.ErrNotAuthorized
		}
		bookings, err := tx.ActiveBookingsForCoach(ctx, schedule.CoachID())
		if err != nil {
			return fmt.Errorf("failed to load active bookings: %w", err)
		}
		if err := schedule.CheckRemovable(bookings); err != nil {
			return err
		}
		if err := tx.DeleteSchedule(schedule.ID()); err != nil {
			return fmt.Errorf("failed to delete schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	i.Logger.Info("schedule removed", slog.String("schedule_id", req.ScheduleID))
	return nil
}
