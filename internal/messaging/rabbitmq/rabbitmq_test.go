package rabbitmq

import (
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
)

func TestNewPublishing(t *testing.T) {
	created := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	rec := &contracts.OutboxRecord{
		RecordID:    "0190a3c2-0000-7000-8000-000000000001",
		EventType:   "BookingConfirmed",
		AggregateID: "b-1",
		Payload:     []byte(`{"record_id":"0190a3c2-0000-7000-8000-000000000001"}`),
		CreatedAt:   created,
	}

	pub := newPublishing(rec)
	assert.Equal(t, rec.RecordID, pub.MessageId)
	assert.Equal(t, "BookingConfirmed", pub.Type)
	assert.Equal(t, amqp.Persistent, pub.DeliveryMode)
	assert.Equal(t, "application/json", pub.ContentType)
	assert.Equal(t, created, pub.Timestamp)
	assert.Equal(t, "b-1", pub.Headers["aggregate_id"])
	assert.Equal(t, rec.Payload, pub.Body)
}

func TestToMessage(t *testing.T) {
	t.Run("type header wins", func(t *testing.T) {
		msg := toMessage(amqp.Delivery{
			MessageId:   "r-1",
			Type:        "BookingCancelled",
			RoutingKey:  "ignored",
			Body:        []byte("{}"),
			Redelivered: true,
		})
		assert.Equal(t, "r-1", msg.ID)
		assert.Equal(t, "BookingCancelled", msg.Kind)
		assert.True(t, msg.Redelivered)
	})

	t.Run("falls back to routing key", func(t *testing.T) {
		msg := toMessage(amqp.Delivery{MessageId: "r-2", RoutingKey: "SessionConsumed"})
		assert.Equal(t, "SessionConsumed", msg.Kind)
	})
}

func TestNewConsumer_Defaults(t *testing.T) {
	c := NewConsumer(ConsumerConfig{Queue: "q"}, nil, nil)
	assert.Equal(t, []string{"#"}, c.cfg.Bindings)
	assert.Equal(t, 16, c.cfg.Prefetch)
}
