package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/repo/memstore"
	"github.com/light-bringer/coachbook-service/internal/logger"
	"github.com/light-bringer/coachbook-service/internal/pkg/clock"
)

func TestCleanupOutbox(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(start)
	store := memstore.New(clk.Now)
	ctx := context.Background()

	require.NoError(t, store.RunInTx(ctx, func(ctx context.Context, tx contracts.Tx) error {
		for _, id := range []string{"r-old", "r-recent", "r-pending"} {
			if err := tx.AppendOutbox(&contracts.OutboxRecord{RecordID: id, NextAttemptAt: start}); err != nil {
				return err
			}
		}
		return nil
	}))
	_, err := store.Lease(ctx, "w-1", 3, start, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.MarkPublished(ctx, "r-old", "w-1", start))
	require.NoError(t, store.MarkPublished(ctx, "r-recent", "w-1", start.AddDate(0, 0, 25)))

	clk.Advance(31 * 24 * time.Hour)

	n, err := cleanupOutbox(ctx, logger.Discard(), store, clk, Options{RetentionDays: 30, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, store.OutboxRecords(), 3)

	n, err = cleanupOutbox(ctx, logger.Discard(), store, clk, Options{RetentionDays: 30})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var ids []string
	for _, rec := range store.OutboxRecords() {
		ids = append(ids, rec.RecordID)
	}
	assert.ElementsMatch(t, []string{"r-recent", "r-pending"}, ids)
}

func TestCleanupOutbox_NegativeRetention(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	_, err := cleanupOutbox(context.Background(), logger.Discard(), memstore.New(clk.Now), clk, Options{RetentionDays: -1})
	assert.Error(t, err)
}
