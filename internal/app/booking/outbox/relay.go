package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/metrics"
	"github.com/light-bringer/coachbook-service/internal/pkg/clock"
)

// Publisher delivers one record to the messaging channel. A nil return means
// the channel acknowledged the message.
type Publisher interface {
	Publish(ctx context.Context, rec *contracts.OutboxRecord) error
}

// RelayConfig tunes one relay worker.
type RelayConfig struct {
	Owner          string        // lease owner; unique per worker
	BatchSize      int           // records leased per sweep
	Interval       time.Duration // pause between sweeps
	LeaseTTL       time.Duration // how long a lease protects an in-flight publish
	PublishTimeout time.Duration // per-attempt publish deadline
	BackoffBase    time.Duration
	BackoffMax     time.Duration
	PublishRate    float64 // messages per second across the worker; 0 disables limiting
}

func (c RelayConfig) withDefaults() RelayConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = 20
	}
	if c.Interval <= 0 {
		c.Interval = time.Second
	}
	if c.LeaseTTL <= 0 {
		c.LeaseTTL = 2 * time.Minute
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = 5 * time.Second
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = time.Second
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = 5 * time.Minute
	}
	return c
}

// SweepResult summarizes one sweep.
type SweepResult struct {
	Reclaimed int
	Leased    int
	Published int
	Failed    int
	LeaseLost int
	Expired   int // leased but not attempted because the lease ran out
}

// Relay drains the outbox to a Publisher: reclaim expired leases, lease a
// batch, publish each record, then mark it published or schedule a retry.
// Delivery is at-least-once; a crash between broker ack and MarkPublished
// leaves the record Publishing until its lease expires and it is sent again
// with the same record id.
type Relay struct {
	store     contracts.OutboxStore
	publisher Publisher
	clock     clock.Clock
	cfg       RelayConfig
	logger    *slog.Logger
	metrics   metrics.Recorder
	tracer    trace.Tracer
	limiter   *rate.Limiter
}

// RelayOption customizes a Relay.
type RelayOption func(*Relay)

// WithLogger sets the relay logger.
func WithLogger(l *slog.Logger) RelayOption {
	return func(r *Relay) { r.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Recorder) RelayOption {
	return func(r *Relay) { r.metrics = m }
}

// WithTracer sets the tracer used for sweep and publish spans.
func WithTracer(t trace.Tracer) RelayOption {
	return func(r *Relay) { r.tracer = t }
}

// NewRelay creates a Relay.
func NewRelay(store contracts.OutboxStore, publisher Publisher, clk clock.Clock, cfg RelayConfig, opts ...RelayOption) *Relay {
	r := &Relay{
		store:     store,
		publisher: publisher,
		clock:     clk,
		cfg:       cfg.withDefaults(),
		logger:    slog.Default(),
		metrics:   metrics.Noop{},
		tracer:    otel.Tracer("github.com/light-bringer/coachbook-service/outbox"),
	}
	if r.cfg.PublishRate > 0 {
		burst := int(r.cfg.PublishRate)
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(r.cfg.PublishRate), burst)
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(slog.String("relay_owner", r.cfg.Owner))
	return r
}

// Run sweeps on every interval until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.logger.Info("outbox relay started",
		slog.Duration("interval", r.cfg.Interval),
		slog.Int("batch_size", r.cfg.BatchSize),
	)

	for {
		if _, err := r.SweepOnce(ctx); err != nil && ctx.Err() == nil {
			r.logger.Error("outbox sweep failed", slog.String("error", err.Error()))
		}

		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
		}
	}
}

// SweepOnce runs a single reclaim/lease/publish cycle.
func (r *Relay) SweepOnce(ctx context.Context) (SweepResult, error) {
	ctx, span := r.tracer.Start(ctx, "outbox.sweep", trace.WithAttributes(
		attribute.String("relay.owner", r.cfg.Owner),
	))
	defer span.End()

	var res SweepResult
	now := r.clock.Now()

	reclaimed, err := r.store.ReclaimExpired(ctx, now)
	if err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		return res, fmt.Errorf("failed to reclaim expired leases: %w", err)
	}
	res.Reclaimed = reclaimed
	if reclaimed > 0 {
		r.metrics.RecordRelayReclaimed(reclaimed)
		r.logger.Warn("reclaimed abandoned outbox leases", slog.Int("count", reclaimed))
	}

	batch, err := r.store.Lease(ctx, r.cfg.Owner, r.cfg.BatchSize, now, r.cfg.LeaseTTL)
	if err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		return res, fmt.Errorf("failed to lease outbox records: %w", err)
	}
	res.Leased = len(batch)

	for _, rec := range batch {
		if err := ctx.Err(); err != nil {
			// Unprocessed leases lapse and are reclaimed by a later sweep.
			break
		}
		r.deliver(ctx, rec, &res)
	}

	if pending, err := r.store.Pending(ctx); err == nil {
		r.metrics.SetOutboxPending(pending)
	}

	span.SetAttributes(
		attribute.Int("outbox.leased", res.Leased),
		attribute.Int("outbox.published", res.Published),
		attribute.Int("outbox.failed", res.Failed),
		attribute.Int("outbox.expired", res.Expired),
	)
	return res, nil
}

func (r *Relay) deliver(ctx context.Context, rec *contracts.OutboxRecord, res *SweepResult) {
	log := r.logger.With(
		slog.String("record_id", rec.RecordID),
		slog.String("event_type", rec.EventType),
	)

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return
		}
	}

	// A lapsed lease may already have been reclaimed by another worker;
	// leave the record to it (or to the next reclaim) instead of sending it
	// concurrently.
	remaining := rec.LeaseExpiresAt.Sub(r.clock.Now())
	if remaining <= 0 {
		res.Expired++
		log.Warn("outbox lease expired before publish")
		return
	}

	started := r.clock.Now()
	pubErr := r.publish(ctx, rec, remaining)
	r.metrics.RecordPublishLatency(r.clock.Now().Sub(started))

	if pubErr != nil {
		attempt := rec.AttemptCount + 1
		next := r.clock.Now().Add(Backoff(attempt, r.cfg.BackoffBase, r.cfg.BackoffMax))
		res.Failed++
		r.metrics.RecordRelayFailed()
		log.Warn("outbox publish failed",
			slog.Int64("attempt", attempt),
			slog.Time("next_attempt_at", next),
			slog.String("error", pubErr.Error()),
		)
		if err := r.store.MarkRetry(ctx, rec.RecordID, r.cfg.Owner, next, pubErr.Error()); err != nil {
			r.markFailed(log, "retry", err, res)
		}
		return
	}

	if err := r.store.MarkPublished(ctx, rec.RecordID, r.cfg.Owner, r.clock.Now()); err != nil {
		// The broker already has the message; the record is re-sent after
		// its lease expires and consumers de-duplicate by record id.
		r.markFailed(log, "published", err, res)
		return
	}
	res.Published++
	r.metrics.RecordRelayPublished()
	log.Debug("outbox record published")
}

// publish bounds the attempt by the publish timeout and by what is left of
// the lease.
func (r *Relay) publish(ctx context.Context, rec *contracts.OutboxRecord, remaining time.Duration) error {
	timeout := r.cfg.PublishTimeout
	if remaining < timeout {
		timeout = remaining
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "outbox.publish", trace.WithAttributes(
		attribute.String("outbox.record_id", rec.RecordID),
		attribute.String("outbox.event_type", rec.EventType),
	))
	defer span.End()

	if err := r.publisher.Publish(ctx, rec); err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}
	return nil
}

func (r *Relay) markFailed(log *slog.Logger, mark string, err error, res *SweepResult) {
	if errors.Is(err, contracts.ErrLeaseLost) {
		res.LeaseLost++
		log.Warn("outbox lease lost before mark", slog.String("mark", mark))
		return
	}
	log.Error("failed to mark outbox record",
		slog.String("mark", mark),
		slog.String("error", err.Error()),
	)
}
