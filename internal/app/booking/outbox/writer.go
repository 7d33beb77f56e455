package outbox

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/pkg/clock"
)

// Writer turns domain events into outbox records inside the caller's unit of
// work. It never opens a transaction of its own.
type Writer struct {
	clock clock.Clock
}

// NewWriter creates a new Writer.
func NewWriter(clk clock.Clock) *Writer {
	return &Writer{clock: clk}
}

// Append serializes event and buffers an unpublished record on tx.
// Record ids are UUIDv7, so they sort by creation within this process.
func (w *Writer) Append(tx contracts.Tx, event domain.DomainEvent) (*contracts.OutboxRecord, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate outbox record id: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", event.EventType(), err)
	}

	header := event.Header()
	payload, err := json.Marshal(Envelope{
		RecordID:    id.String(),
		Kind:        event.EventType(),
		AggregateID: event.AggregateID(),
		BookingID:   header.BookingID,
		PurchaseID:  header.PurchaseID,
		CoachID:     header.CoachID,
		UserID:      header.UserID,
		OccurredAt:  header.OccurredAt,
		Data:        data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outbox envelope: %w", err)
	}

	rec := &contracts.OutboxRecord{
		RecordID:      id.String(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		Payload:       payload,
		Status:        contracts.OutboxUnpublished,
		NextAttemptAt: w.clock.Now(),
	}
	if err := tx.AppendOutbox(rec); err != nil {
		return nil, fmt.Errorf("failed to append outbox record: %w", err)
	}
	return rec, nil
}

// AppendAll appends one record per event, in order.
func (w *Writer) AppendAll(tx contracts.Tx, events []domain.DomainEvent) error {
	for _, event := range events {
		if _, err := w.Append(tx, event); err != nil {
			return err
		}
	}
	return nil
}
