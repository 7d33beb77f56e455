package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/light-bringer/coachbook-service/internal/app/booking/outbox"
	"github.com/light-bringer/coachbook-service/internal/config"
	"github.com/light-bringer/coachbook-service/internal/logger"
	"github.com/light-bringer/coachbook-service/internal/messaging/rabbitmq"
	"github.com/light-bringer/coachbook-service/internal/metrics"
	platformotel "github.com/light-bringer/coachbook-service/internal/platform/otel"
	"github.com/light-bringer/coachbook-service/internal/platform/timeouts"
	"github.com/light-bringer/coachbook-service/internal/services"
)

const serviceName = "coachbook"

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration (.env is optional)
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	log.Info("starting coachbook service",
		slog.String("spanner_database", cfg.SpannerDatabase),
		slog.Int("grpc_port", cfg.GRPCPort),
		slog.Int("http_port", cfg.HTTPPort),
		slog.Int("relay_workers", cfg.Relay.Workers),
	)

	// 2. Tracing and metrics
	shutdownTracing, err := platformotel.Setup(ctx, serviceName, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown failed", slog.Any("error", err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// 3. Service dependencies (DI container)
	serviceOpts, err := services.NewServiceOptions(ctx, cfg, log, collector)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 4. Outbox relay workers
	var relayWG sync.WaitGroup
	if cfg.Relay.Enabled {
		publisher, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			return fmt.Errorf("failed to create publisher: %w", err)
		}
		defer publisher.Close()

		relays := serviceOpts.Relays(cfg.Relay, publisher,
			outbox.WithLogger(log),
			outbox.WithMetrics(collector),
			outbox.WithTracer(otel.Tracer(serviceName+"/outbox")),
		)
		for _, relay := range relays {
			relayWG.Add(1)
			go func(r *outbox.Relay) {
				defer relayWG.Done()
				r.Run(ctx)
			}(relay)
		}
	}

	// 5. gRPC health server
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("gRPC server listening", slog.Int("port", cfg.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- fmt.Errorf("serve gRPC: %w", err)
		}
	}()

	// 6. HTTP server for metrics and liveness
	httpMux := http.NewServeMux()
	httpMux.Handle("/metrics", metrics.Handler(registry))
	httpMux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpMux,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	go func() {
		log.Info("HTTP server listening", slog.Int("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve HTTP: %w", err)
		}
	}()

	// 7. Graceful shutdown
	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		stop()
	}

	log.Info("shutting down gracefully")
	healthServer.Shutdown()

	sctx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := httpServer.Shutdown(sctx); err != nil {
		log.Warn("HTTP server shutdown error", slog.Any("error", err))
	}
	grpcServer.GracefulStop()
	relayWG.Wait()

	return runErr
}
