// Package migrate applies the embedded schema migrations to Spanner.
package migrate

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/spanner"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/light-bringer/coachbook-service/migrations"
)

// Source opens the embedded migration files.
func Source() (source.Driver, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}
	return src, nil
}

// DatabaseURL turns a Spanner database path into a golang-migrate URL.
// Clean statements lets one file hold several DDL statements.
func DatabaseURL(database string) string {
	return "spanner://" + database + "?x-clean-statements=true"
}

// NewMigrator creates a migrate instance for the given Spanner database path
// (projects/P/instances/I/databases/D).
func NewMigrator(database string) (*migrate.Migrate, error) {
	src, err := Source()
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, DatabaseURL(database))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}

// Up applies all pending migrations. Being up to date is not an error.
func Up(database string) error {
	m, err := NewMigrator(database)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Down rolls back steps migrations.
func Down(database string, steps int) error {
	m, err := NewMigrator(database)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return nil
}
