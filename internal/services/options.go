package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/outbox"
	"github.com/light-bringer/coachbook-service/internal/app/booking/queries/get_booking"
	"github.com/light-bringer/coachbook-service/internal/app/booking/queries/get_purchase"
	"github.com/light-bringer/coachbook-service/internal/app/booking/repo"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/cancel_booking"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/complete_booking"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/confirm_booking"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/consume_session"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/create_package"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/create_schedule"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/purchase_package"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/remove_schedule"
	"github.com/light-bringer/coachbook-service/internal/app/booking/usecases/request_booking"
	"github.com/light-bringer/coachbook-service/internal/config"
	"github.com/light-bringer/coachbook-service/internal/metrics"
	"github.com/light-bringer/coachbook-service/internal/pkg/clock"
)

// Booking groups the command and query handlers of the booking core.
type Booking struct {
	RequestBooking  *request_booking.Interactor
	ConfirmBooking  *confirm_booking.Interactor
	CompleteBooking *complete_booking.Interactor
	CancelBooking   *cancel_booking.Interactor
	ConsumeSession  *consume_session.Interactor
	CreatePackage   *create_package.Interactor
	PurchasePackage *purchase_package.Interactor
	CreateSchedule  *create_schedule.Interactor
	RemoveSchedule  *remove_schedule.Interactor

	GetBooking  *get_booking.Query
	GetPurchase *get_purchase.Query
}

// NewBooking wires the booking handlers over any unit of work.
func NewBooking(uow contracts.UnitOfWork, reader contracts.BookingReader, clk clock.Clock, logger *slog.Logger, rec metrics.Recorder, storageTimeout, holdTTL time.Duration) *Booking {
	deps := usecases.NewDeps(uow, clk, logger, rec, storageTimeout)
	return &Booking{
		RequestBooking:  request_booking.NewInteractor(deps),
		ConfirmBooking:  confirm_booking.NewInteractor(deps),
		CompleteBooking: complete_booking.NewInteractor(deps),
		CancelBooking:   cancel_booking.NewInteractor(deps, holdTTL),
		ConsumeSession:  consume_session.NewInteractor(deps),
		CreatePackage:   create_package.NewInteractor(deps),
		PurchasePackage: purchase_package.NewInteractor(deps),
		CreateSchedule:  create_schedule.NewInteractor(deps),
		RemoveSchedule:  remove_schedule.NewInteractor(deps),
		GetBooking:      get_booking.NewQuery(reader),
		GetPurchase:     get_purchase.NewQuery(reader, clk),
	}
}

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	Store         *repo.Store
	Booking       *Booking
	Clock         clock.Clock
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *slog.Logger, rec metrics.Recorder) (*ServiceOptions, error) {
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	clk := clock.NewRealClock()
	store := repo.NewStore(spannerClient)

	return &ServiceOptions{
		SpannerClient: spannerClient,
		Store:         store,
		Booking:       NewBooking(store, store, clk, logger, rec, cfg.StorageTimeout, cfg.CancellationHoldTTL),
		Clock:         clk,
	}, nil
}

// Relays builds one outbox relay per configured worker, each with its own
// lease owner.
func (s *ServiceOptions) Relays(cfg config.Relay, publisher outbox.Publisher, opts ...outbox.RelayOption) []*outbox.Relay {
	return NewRelays(s.Store.Outbox(), publisher, s.Clock, cfg, opts...)
}

// NewRelays builds cfg.Workers relays over store.
func NewRelays(store contracts.OutboxStore, publisher outbox.Publisher, clk clock.Clock, cfg config.Relay, opts ...outbox.RelayOption) []*outbox.Relay {
	relays := make([]*outbox.Relay, 0, cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		relays = append(relays, outbox.NewRelay(store, publisher, clk, outbox.RelayConfig{
			Owner:          config.RelayOwner(i),
			BatchSize:      cfg.BatchSize,
			Interval:       cfg.Interval,
			LeaseTTL:       cfg.LeaseTTL,
			PublishTimeout: cfg.PublishTimeout,
			BackoffBase:    cfg.BackoffBase,
			BackoffMax:     cfg.BackoffMax,
			PublishRate:    cfg.PublishRate,
		}, opts...))
	}
	return relays
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
