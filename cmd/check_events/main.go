package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/joho/godotenv"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/repo"
	"github.com/light-bringer/coachbook-service/internal/config"
)

// outboxInspector is the read side of the outbox this tool needs.
type outboxInspector interface {
	Recent(ctx context.Context, status string, limit int) ([]*contracts.OutboxRecord, error)
	Pending(ctx context.Context) (int64, error)
}

func main() {
	status := flag.String("status", "", "Only show records in this status (unpublished, publishing, published)")
	limit := flag.Int("limit", 10, "Number of records to show")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		slog.Error("failed to create Spanner client", slog.Any("error", err))
		os.Exit(1)
	}
	defer client.Close()

	if err := report(ctx, os.Stdout, repo.NewStore(client).Outbox(), *status, *limit); err != nil {
		slog.Error("check events failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func report(ctx context.Context, w io.Writer, outbox outboxInspector, status string, limit int) error {
	switch status {
	case "", contracts.OutboxUnpublished, contracts.OutboxPublishing, contracts.OutboxPublished:
	default:
		return fmt.Errorf("unknown status %q", status)
	}

	pending, err := outbox.Pending(ctx)
	if err != nil {
		return err
	}
	recs, err := outbox.Recent(ctx, status, limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Pending (not yet published): %d\n\n", pending)
	if len(recs) == 0 {
		fmt.Fprintln(w, "No records found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORD\tKIND\tAGGREGATE\tSTATUS\tATTEMPTS\tNEXT ATTEMPT\tLEASE OWNER\tLAST ERROR")
	for _, rec := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			rec.RecordID, rec.EventType, rec.AggregateID, rec.Status, rec.AttemptCount,
			rec.NextAttemptAt.UTC().Format(time.RFC3339), rec.LeaseOwner, rec.LastError)
	}
	return tw.Flush()
}
