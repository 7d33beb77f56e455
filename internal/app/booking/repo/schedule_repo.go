package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/models/m_schedule"
	"github.com/light-bringer/coachbook-service/internal/pkg/query"
)

// ScheduleRepo maps weekly availability windows.
type ScheduleRepo struct {
	model *m_schedule.Model
}

// NewScheduleRepo creates a new ScheduleRepo.
func NewScheduleRepo() *ScheduleRepo {
	return &ScheduleRepo{model: m_schedule.NewModel()}
}

// InsertMut creates a mutation for inserting a schedule.
func (r *ScheduleRepo) InsertMut(s *domain.Schedule) *spanner.Mutation {
	return r.model.InsertMut(&m_schedule.Data{
		ScheduleID:  s.ID(),
		CoachID:     s.CoachID(),
		Weekday:     int64(s.Weekday()),
		StartMinute: int64(s.Window().Start),
		EndMinute:   int64(s.Window().End),
		CreatedAt:   s.CreatedAt(),
	})
}

// DeleteMut creates a mutation removing a schedule.
func (r *ScheduleRepo) DeleteMut(scheduleID string) *spanner.Mutation {
	return r.model.DeleteMut(scheduleID)
}

// Get reads one schedule.
func (r *ScheduleRepo) Get(ctx context.Context, rd reader, scheduleID string) (*domain.Schedule, error) {
	row, err := rd.ReadRow(ctx, m_schedule.TableName, spanner.Key{scheduleID}, m_schedule.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to read schedule: %w", err)
	}
	return decodeSchedule(row)
}

// ForCoach lists every window of a coach.
func (r *ScheduleRepo) ForCoach(ctx context.Context, rd reader, coachID string) ([]*domain.Schedule, error) {
	stmt := query.From(m_schedule.TableName).
		Select(m_schedule.Columns...).
		Where(query.Eq(m_schedule.CoachID, coachID)).
		OrderBy(m_schedule.Weekday, query.Asc).
		ThenBy(m_schedule.StartMinute, query.Asc).
		Build()
	return queryAll(ctx, rd, stmt, decodeSchedule)
}

func decodeSchedule(row *spanner.Row) (*domain.Schedule, error) {
	var data m_schedule.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse schedule: %w", err)
	}
	window := domain.TimeRange{Start: int(data.StartMinute), End: int(data.EndMinute)}
	return domain.ReconstructSchedule(data.ScheduleID, data.CoachID, time.Weekday(data.Weekday), window, data.CreatedAt), nil
}
