package query

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_BasicSelect(t *testing.T) {
	stmt := From("bookings").
		Select("booking_id", "coach_id", "status").
		Build()

	assert.Equal(t, "SELECT booking_id, coach_id, status FROM bookings", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SelectAllColumns(t *testing.T) {
	stmt := From("bookings").Build()

	assert.Equal(t, "SELECT * FROM bookings", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_AdmissionQuery(t *testing.T) {
	statuses := []string{"pending", "confirmed"}
	stmt := From("bookings").
		Select("booking_id").
		Where(Eq("coach_id", "coach-1")).
		Where(Eq("booking_date", "2024-06-01")).
		Where(In("status", statuses)).
		Build()

	assert.Equal(t,
		"SELECT booking_id FROM bookings WHERE coach_id = @p0 AND booking_date = @p1 AND status IN UNNEST(@p2)",
		stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "coach-1",
		"p1": "2024-06-01",
		"p2": statuses,
	}, stmt.Params)
}

func TestBuilder_RelayLeaseQuery(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	stmt := From("outbox_records").
		Select("record_id").
		Where(Eq("status", "unpublished")).
		Where(Lte("next_attempt_at", now)).
		OrderBy("created_at", Asc).
		ThenBy("record_id", Asc).
		Limit(50).
		Build()

	assert.Equal(t,
		"SELECT record_id FROM outbox_records WHERE status = @p0 AND next_attempt_at <= @p1 ORDER BY created_at ASC, record_id ASC LIMIT @limit",
		stmt.SQL)
	assert.Equal(t, now, stmt.Params["p1"])
	assert.Equal(t, int64(50), stmt.Params["limit"])
}

func TestBuilder_OrderByReplaces(t *testing.T) {
	stmt := From("bookings").
		OrderBy("created_at", Asc).
		OrderBy("updated_at", Desc).
		Build()

	assert.Equal(t, "SELECT * FROM bookings ORDER BY updated_at DESC", stmt.SQL)
}

func TestBuilder_LimitAndOffset(t *testing.T) {
	stmt := From("bookings").
		Select("booking_id").
		Limit(10).
		Offset(20).
		Build()

	assert.Equal(t, "SELECT booking_id FROM bookings LIMIT @limit OFFSET @offset", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"limit":  int64(10),
		"offset": int64(20),
	}, stmt.Params)
}

func TestBuilder_Count(t *testing.T) {
	base := From("outbox_records").
		Select("record_id").
		Where(Eq("published", false)).
		OrderBy("created_at", Asc).
		Limit(5)

	stmt := base.Count().Build()

	assert.Equal(t, "SELECT COUNT(*) FROM outbox_records WHERE published = @p0", stmt.SQL)
	assert.Equal(t, map[string]interface{}{"p0": false}, stmt.Params)
}

func TestBuilder_Immutability(t *testing.T) {
	base := From("bookings").Select("booking_id")
	filtered := base.Where(Eq("coach_id", "coach-1")).ThenBy("created_at", Asc)

	assert.Equal(t, "SELECT booking_id FROM bookings", base.Build().SQL)
	assert.Equal(t, "SELECT booking_id FROM bookings WHERE coach_id = @p0 ORDER BY created_at ASC", filtered.Build().SQL)
}

func TestConditions(t *testing.T) {
	tests := []struct {
		name      string
		condition Condition
		wantSQL   string
		wantLen   int
	}{
		{"eq", Eq("status", "pending"), "status = @p3", 1},
		{"lt", Lt("lease_expires_at", "t"), "lease_expires_at < @p3", 1},
		{"lte", Lte("next_attempt_at", "t"), "next_attempt_at <= @p3", 1},
		{"gt", Gt("expires_at", "t"), "expires_at > @p3", 1},
		{"in", In("status", []string{"a"}), "status IN UNNEST(@p3)", 1},
		{"is null", IsNull("lease_owner"), "lease_owner IS NULL", 0},
		{"is not null", IsNotNull("published_at"), "published_at IS NOT NULL", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params := tt.condition.SQL(3)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Len(t, params, tt.wantLen)
		})
	}
}

func TestBuilder_NullConditionsDoNotConsumeParams(t *testing.T) {
	stmt := From("outbox_records").
		Where(IsNotNull("lease_owner")).
		Where(Eq("status", "publishing")).
		Where(Lte("lease_expires_at", "t")).
		Build()

	require.True(t, strings.HasSuffix(stmt.SQL, "lease_owner IS NOT NULL AND status = @p0 AND lease_expires_at <= @p1"))
	assert.Len(t, stmt.Params, 2)
}

func TestBuilder_String(t *testing.T) {
	out := From("bookings").Where(Eq("coach_id", "c")).String()
	assert.Contains(t, out, "SQL: SELECT * FROM bookings WHERE coach_id = @p0")
	assert.Contains(t, out, "Params:")
}
