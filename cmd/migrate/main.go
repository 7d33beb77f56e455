package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/joho/godotenv"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/coachbook-service/internal/config"
	"github.com/light-bringer/coachbook-service/internal/logger"
	"github.com/light-bringer/coachbook-service/internal/platform/migrate"
	"github.com/light-bringer/coachbook-service/internal/platform/timeouts"
)

var (
	downSteps = flag.Int("down", 0, "Roll back this many migrations instead of applying")
	bootstrap = flag.Bool("bootstrap", os.Getenv("SPANNER_EMULATOR_HOST") != "", "Create the instance and database if missing (emulator)")
)

// target is a parsed Spanner database path.
type target struct {
	project, instance, database string
}

func (t target) instancePath() string {
	return fmt.Sprintf("projects/%s/instances/%s", t.project, t.instance)
}

func (t target) databasePath() string {
	return fmt.Sprintf("%s/databases/%s", t.instancePath(), t.database)
}

func parseTarget(path string) (target, error) {
	parts := strings.Split(path, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "instances" || parts[4] != "databases" {
		return target{}, fmt.Errorf("invalid SPANNER_DATABASE %q: want projects/P/instances/I/databases/D", path)
	}
	return target{project: parts[1], instance: parts[3], database: parts[5]}, nil
}

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.Any("error", err))
		os.Exit(1)
	}
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Migrate)
	defer cancel()

	if err := run(ctx, log, cfg.SpannerDatabase); err != nil {
		log.Error("migration failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("migrations completed")
}

func run(ctx context.Context, log *slog.Logger, databasePath string) error {
	t, err := parseTarget(databasePath)
	if err != nil {
		return err
	}

	if *bootstrap {
		log.Info("bootstrapping emulator", slog.String("emulator_host", os.Getenv("SPANNER_EMULATOR_HOST")))
		if err := ensureInstance(ctx, log, t); err != nil {
			return fmt.Errorf("failed to ensure instance: %w", err)
		}
		if err := ensureDatabase(ctx, log, t); err != nil {
			return fmt.Errorf("failed to ensure database: %w", err)
		}
	}

	if *downSteps > 0 {
		log.Info("rolling back migrations", slog.Int("steps", *downSteps))
		return migrate.Down(t.databasePath(), *downSteps)
	}
	log.Info("applying migrations", slog.String("database", t.databasePath()))
	return migrate.Up(t.databasePath())
}

func ensureInstance(ctx context.Context, log *slog.Logger, t target) error {
	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: t.instancePath()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to get instance: %w", err)
	}

	log.Info("creating instance", slog.String("instance", t.instance))
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + t.project,
		InstanceId: t.instance,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", t.project),
			DisplayName: "Development Instance",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create instance: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		return fmt.Errorf("failed to wait for instance creation: %w", err)
	}
	return nil
}

func ensureDatabase(ctx context.Context, log *slog.Logger, t target) error {
	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	_, err = adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: t.databasePath()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to check database: %w", err)
	}

	log.Info("creating database", slog.String("database", t.database))
	op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          t.instancePath(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", t.database),
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create database: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}
	return nil
}
