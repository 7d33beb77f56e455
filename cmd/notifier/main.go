package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/light-bringer/coachbook-service/internal/config"
	"github.com/light-bringer/coachbook-service/internal/logger"
	"github.com/light-bringer/coachbook-service/internal/messaging/dedupe"
	"github.com/light-bringer/coachbook-service/internal/messaging/rabbitmq"
	"github.com/light-bringer/coachbook-service/internal/notifier"
	"github.com/light-bringer/coachbook-service/internal/platform/timeouts"
)

func main() {
	if err := run(); err != nil {
		slog.Error("notifier failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Dial)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	handler := dedupe.NewConsumer(
		dedupe.NewRedisStore(rdb, "coachbook:notifier:"),
		notifier.NewHandler(log, nil),
		cfg.DedupeTTL,
		log,
	)
	consumer := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		URL:      cfg.AMQPURL,
		Exchange: cfg.AMQPExchange,
		Queue:    cfg.AMQPQueue,
		Tag:      "coachbook-notifier",
	}, handler, log)

	log.Info("notifier consuming",
		slog.String("exchange", cfg.AMQPExchange),
		slog.String("queue", cfg.AMQPQueue),
	)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("notifier stopped")
	return nil
}
