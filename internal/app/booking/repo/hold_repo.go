package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"cloud.google.com/go/spanner"

	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/models/m_slot_hold"
	"github.com/light-bringer/coachbook-service/internal/pkg/query"
)

// HoldRepo maps cancellation holds.
type HoldRepo struct {
	model *m_slot_hold.Model
}

// NewHoldRepo creates a new HoldRepo.
func NewHoldRepo() *HoldRepo {
	return &HoldRepo{model: m_slot_hold.NewModel()}
}

// InsertMut creates a mutation for inserting a hold.
func (r *HoldRepo) InsertMut(h *domain.SlotHold) *spanner.Mutation {
	slot := h.Slot()
	return r.model.InsertMut(&m_slot_hold.Data{
		HoldID:      h.ID(),
		CoachID:     h.CoachID(),
		BookingID:   h.BookingID(),
		HoldDate:    slot.Date,
		StartMinute: int64(slot.Range.Start),
		EndMinute:   int64(slot.Range.End),
		CreatedAt:   h.CreatedAt(),
		ExpiresAt:   h.ExpiresAt(),
	})
}

// ActiveOn lists holds of a coach on one date that are still in force at now.
func (r *HoldRepo) ActiveOn(ctx context.Context, rd reader, coachID string, date civil.Date, now time.Time) ([]*domain.SlotHold, error) {
	stmt := query.From(m_slot_hold.TableName).
		Select(m_slot_hold.Columns...).
		Where(query.Eq(m_slot_hold.CoachID, coachID)).
		Where(query.Eq(m_slot_hold.HoldDate, date)).
		Where(query.Gt(m_slot_hold.ExpiresAt, now)).
		Build()
	return queryAll(ctx, rd, stmt, func(row *spanner.Row) (*domain.SlotHold, error) {
		var data m_slot_hold.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse slot hold: %w", err)
		}
		slot := domain.Slot{
			Date:  data.HoldDate,
			Range: domain.TimeRange{Start: int(data.StartMinute), End: int(data.EndMinute)},
		}
		return domain.ReconstructSlotHold(data.HoldID, data.CoachID, data.BookingID, slot, data.CreatedAt, data.ExpiresAt), nil
	})
}
