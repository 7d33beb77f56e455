package dedupe

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/coachbook-service/internal/logger"
	"github.com/light-bringer/coachbook-service/internal/messaging"
	"github.com/light-bringer/coachbook-service/internal/pkg/clock"
)

type countingHandler struct {
	calls map[string]int
	fail  bool
}

func (h *countingHandler) Handle(_ context.Context, msg messaging.Message) error {
	h.calls[msg.ID]++
	if h.fail {
		return errors.New("downstream unavailable")
	}
	return nil
}

func TestConsumer_SkipsRedelivery(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	next := &countingHandler{calls: map[string]int{}}
	c := NewConsumer(NewMemoryStore(clk.Now), next, time.Hour, logger.Discard())
	ctx := context.Background()

	msg := messaging.Message{ID: "r-1", Kind: "BookingConfirmed"}
	require.NoError(t, c.Handle(ctx, msg))
	msg.Redelivered = true
	require.NoError(t, c.Handle(ctx, msg))
	require.NoError(t, c.Handle(ctx, messaging.Message{ID: "r-2"}))

	assert.Equal(t, 1, next.calls["r-1"])
	assert.Equal(t, 1, next.calls["r-2"])

	// After the TTL the id is forgotten.
	clk.Advance(time.Hour)
	require.NoError(t, c.Handle(ctx, msg))
	assert.Equal(t, 2, next.calls["r-1"])
}

func TestConsumer_FailureReleasesClaim(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	next := &countingHandler{calls: map[string]int{}, fail: true}
	c := NewConsumer(NewMemoryStore(clk.Now), next, time.Hour, logger.Discard())
	ctx := context.Background()
	msg := messaging.Message{ID: "r-1"}

	assert.Error(t, c.Handle(ctx, msg))
	next.fail = false
	require.NoError(t, c.Handle(ctx, msg))
	assert.Equal(t, 2, next.calls["r-1"])
}

func TestConsumer_RejectsMissingID(t *testing.T) {
	c := NewConsumer(NewMemoryStore(time.Now), &countingHandler{calls: map[string]int{}}, time.Hour, logger.Discard())
	assert.ErrorIs(t, c.Handle(context.Background(), messaging.Message{}), ErrMissingID)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	store := NewRedisStore(client, "coachbook:test:dedupe:")
	id := time.Now().Format(time.RFC3339Nano)
	defer store.Release(ctx, id)

	fresh, err := store.Claim(ctx, id, time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.Claim(ctx, id, time.Minute)
	require.NoError(t, err)
	assert.False(t, fresh)

	require.NoError(t, store.Release(ctx, id))
	fresh, err = store.Claim(ctx, id, time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)
}
