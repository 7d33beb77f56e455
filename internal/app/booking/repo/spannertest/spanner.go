// Package spannertest connects repository tests to the Spanner emulator.
package spannertest

import (
	"context"
	"fmt"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/coachbook-service/internal/models/m_booking"
	"github.com/light-bringer/coachbook-service/internal/models/m_coach_day"
	"github.com/light-bringer/coachbook-service/internal/models/m_outbox"
	"github.com/light-bringer/coachbook-service/internal/models/m_package"
	"github.com/light-bringer/coachbook-service/internal/models/m_package_purchase"
	"github.com/light-bringer/coachbook-service/internal/models/m_schedule"
	"github.com/light-bringer/coachbook-service/internal/models/m_slot_hold"
)

// DefaultDatabase is the migrated emulator database used when
// SPANNER_TEST_DATABASE is unset.
const DefaultDatabase = "projects/test-project/instances/test-instance/databases/coachbook-test"

// Tables lists every table the booking core writes.
var Tables = []string{
	m_outbox.TableName,
	m_slot_hold.TableName,
	m_booking.TableName,
	m_coach_day.TableName,
	m_package_purchase.TableName,
	m_package.TableName,
	m_schedule.TableName,
}

// Setup returns a client on a clean test database, or skips the test when no
// emulator is configured. The database is cleaned again on test cleanup.
func Setup(t *testing.T) *spanner.Client {
	t.Helper()

	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set")
	}
	db := os.Getenv("SPANNER_TEST_DATABASE")
	if db == "" {
		db = DefaultDatabase
	}

	client, err := spanner.NewClient(context.Background(), db)
	require.NoError(t, err, "failed to create Spanner client")

	CleanDatabase(t, client)
	t.Cleanup(func() {
		CleanDatabase(t, client)
		client.Close()
	})
	return client
}

// CleanDatabase deletes every row of the booking tables.
func CleanDatabase(t *testing.T, client *spanner.Client) {
	t.Helper()

	mutations := make([]*spanner.Mutation, 0, len(Tables))
	for _, table := range Tables {
		mutations = append(mutations, spanner.Delete(table, spanner.AllKeys()))
	}
	_, err := client.Apply(context.Background(), mutations)
	require.NoError(t, err, "failed to clean database")
}

// AssertRowCount asserts the number of rows in a table.
func AssertRowCount(t *testing.T, client *spanner.Client, table string, expected int) {
	t.Helper()

	iter := client.Single().Query(context.Background(), spanner.Statement{
		SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	})
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to query row count")

	var count int64
	require.NoError(t, row.Columns(&count), "failed to parse count")
	require.Equal(t, int64(expected), count, "unexpected row count in table %s", table)
}
