// Package usecases holds what every booking interactor shares: the unit of
// work, the outbox writer, the clock and the ambient logger and metrics.
// Each operation lives in its own subpackage.
package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/app/booking/domain"
	"github.com/light-bringer/coachbook-service/internal/app/booking/outbox"
	"github.com/light-bringer/coachbook-service/internal/metrics"
	"github.com/light-bringer/coachbook-service/internal/pkg/clock"
)

// DefaultStorageTimeout bounds a unit of work when none is configured.
const DefaultStorageTimeout = 5 * time.Second

// Deps is embedded by every interactor.
type Deps struct {
	UoW            contracts.UnitOfWork
	Outbox         *outbox.Writer
	Clock          clock.Clock
	Logger         *slog.Logger
	Metrics        metrics.Recorder
	StorageTimeout time.Duration
}

// NewDeps fills optional fields with defaults.
func NewDeps(uow contracts.UnitOfWork, clk clock.Clock, logger *slog.Logger, rec metrics.Recorder, storageTimeout time.Duration) Deps {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = metrics.Noop{}
	}
	if storageTimeout <= 0 {
		storageTimeout = DefaultStorageTimeout
	}
	return Deps{
		UoW:            uow,
		Outbox:         outbox.NewWriter(clk),
		Clock:          clk,
		Logger:         logger,
		Metrics:        rec,
		StorageTimeout: storageTimeout,
	}
}

// RunInTx runs fn in a unit of work bounded by StorageTimeout.
func (d Deps) RunInTx(ctx context.Context, fn func(ctx context.Context, tx contracts.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, d.StorageTimeout)
	defer cancel()
	return d.UoW.RunInTx(ctx, fn)
}

// Emit buffers one outbox record per event on tx.
func (d Deps) Emit(tx contracts.Tx, events ...[]domain.DomainEvent) error {
	for _, batch := range events {
		if err := d.Outbox.AppendAll(tx, batch); err != nil {
			return err
		}
	}
	return nil
}

// RecordCommitted counts committed events by kind. Call it only after the
// unit of work returned nil.
func (d Deps) RecordCommitted(events ...[]domain.DomainEvent) {
	for _, batch := range events {
		for _, e := range batch {
			d.Metrics.RecordTransition(e.EventType())
		}
	}
}
