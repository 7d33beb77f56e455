package outbox

import (
	"encoding/json"
	"time"
)

// Envelope is the JSON body of every relayed message. Consumers de-duplicate
// on RecordID.
type Envelope struct {
	RecordID    string          `json:"record_id"`
	Kind        string          `json:"kind"`
	AggregateID string          `json:"aggregate_id"`
	BookingID   string          `json:"booking_id,omitempty"`
	PurchaseID  string          `json:"purchase_id,omitempty"`
	CoachID     string          `json:"coach_id"`
	UserID      string          `json:"user_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Data        json.RawMessage `json:"data"`
}

// DecodeEnvelope parses a relayed message body.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
