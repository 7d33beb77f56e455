package create_schedule

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

// Request adds a weekly availability window for a coach.
type Request struct {
	Principal   domain.Principal
	CoachID     string
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int
}

// Response carries the new schedule id.
type Response struct {
	ScheduleID string
}

// Interactor handles the create schedule use case.
type Interactor struct {
	usecases.Deps
}

// NewInteractor creates a new create schedule interactor.
func NewInteractor(deps usecases.Deps) *Interactor {
	return &Interactor{Deps: deps}
}

// Execute adds the window unless it overlaps one the coach already has on
// that weekday.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	if !req.Principal.Is(req.CoachID) {
		return nil, domain.ErrNotAuthorized
	}
	window, err := domain.NewTimeRange(req.StartMinute, req.EndMinute)
	if err != nil {
		return nil, err
	}
	schedule, err := domain.NewSchedule(uuid.NewString(), req.Principal, req.Weekday, window, i.Clock.Now())
	if err != nil {
		return nil, err
	}

	err = i.RunInTx(ctx, func(ctx context.Context, tx contracts.Tx) error {
		existing, err := tx.SchedulesForCoach(ctx, req.CoachID)
		if err != nil {
			return fmt.Errorf("failed to load schedules: %w", err)
		}
		for _, s := range existing {
			if s.OverlapsSchedule(schedule) {
				return domain.ErrScheduleOverlap
			}
		}
		if err := tx.InsertSchedule(schedule); err != nil {
			return fmt.Errorf("failed to insert schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	i.Logger.Info("schedule created",
		slog.String("schedule_id", schedule.ID()),
		slog.String("coach_id", req.CoachID),
		slog.String("weekday", req.Weekday.String()),
		slog.String("window", window.String()),
	)
	return &Response{ScheduleID: schedule.ID()}, nil
}
