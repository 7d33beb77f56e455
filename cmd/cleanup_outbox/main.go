package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/joho/godotenv"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/repo"
	"github.com/light-bringer/coachbook-service/internal/config"
	"github.com/light-bringer/coachbook-service/internal/logger"
	"github.com/light-bringer/coachbook-service/internal/pkg/clock"
)

// Options for the outbox cleanup job.
type Options struct {
	RetentionDays int
	DryRun        bool
}

func main() {
	opts := Options{}
	flag.IntVar(&opts.RetentionDays, "retention", 30, "Retention days for published records")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.Any("error", err))
		os.Exit(1)
	}
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	ctx := context.Background()
	client, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		log.Error("failed to create Spanner client", slog.Any("error", err))
		os.Exit(1)
	}
	defer client.Close()

	if _, err := cleanupOutbox(ctx, log, repo.NewStore(client).Outbox(), clock.NewRealClock(), opts); err != nil {
		log.Error("cleanup failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// cleanupOutbox deletes published records older than the retention window.
// Unpublished and in-flight records are never touched.
func cleanupOutbox(ctx context.Context, log *slog.Logger, store contracts.OutboxStore, clk clock.Clock, opts Options) (int64, error) {
	if opts.RetentionDays < 0 {
		return 0, fmt.Errorf("retention must not be negative, got %d", opts.RetentionDays)
	}
	cutoff := clk.Now().UTC().AddDate(0, 0, -opts.RetentionDays)

	log.Info("starting outbox cleanup",
		slog.String("cutoff", cutoff.Format(time.RFC3339)),
		slog.Int("retention_days", opts.RetentionDays),
		slog.Bool("dry_run", opts.DryRun),
	)

	n, err := store.DeletePublishedBefore(ctx, cutoff, opts.DryRun)
	if err != nil {
		return 0, fmt.Errorf("failed to delete published records: %w", err)
	}

	if opts.DryRun {
		log.Info("dry run: would delete published records", slog.Int64("count", n))
	} else {
		log.Info("deleted published records", slog.Int64("count", n))
	}
	return n, nil
}
