package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
	"github.com/light-bringer/coachbook-service/internal/models/m_outbox"
	"github.com/light-bringer/coachbook-service/internal/pkg/committer"
	"github.com/light-bringer/coachbook-service/internal/pkg/query"
)

// OutboxRepo implements contracts.OutboxStore for Spanner. Every method runs
// its own read-write transaction; the lease owner is re-read inside that
// transaction before any mark is written.
type OutboxRepo struct {
	client    *spanner.Client
	committer *committer.Committer
	model     *m_outbox.Model
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo(client *spanner.Client) *OutboxRepo {
	return &OutboxRepo{
		client:    client,
		committer: committer.NewCommitter(client),
		model:     m_outbox.NewModel(),
	}
}

var _ contracts.OutboxStore = (*OutboxRepo)(nil)

// InsertMut creates a mutation for inserting an unpublished record.
func (r *OutboxRepo) InsertMut(rec *contracts.OutboxRecord) *spanner.Mutation {
	return r.model.InsertMut(&m_outbox.Data{
		RecordID:      rec.RecordID,
		EventType:     rec.EventType,
		AggregateID:   rec.AggregateID,
		Payload:       spanner.NullJSON{Value: json.RawMessage(rec.Payload), Valid: len(rec.Payload) > 0},
		NextAttemptAt: rec.NextAttemptAt,
	})
}

// ReclaimExpired returns expired Publishing leases to Unpublished.
func (r *OutboxRepo) ReclaimExpired(ctx context.Context, now time.Time) (int, error) {
	var reclaimed int
	err := r.committer.RunReadWrite(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction, plan *committer.CommitPlan) error {
		stmt := query.From(m_outbox.TableName).
			Select(m_outbox.RecordID).
			Where(query.Eq(m_outbox.Status, m_outbox.StatusPublishing)).
			Where(query.Lte(m_outbox.LeaseExpiresAt, now)).
			Build()
		ids, err := queryAll(ctx, txn, stmt, decodeString)
		if err != nil {
			return fmt.Errorf("failed to query expired leases: %w", err)
		}
		for _, id := range ids {
			plan.Add(r.model.ReleaseMut(id))
		}
		reclaimed = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reclaimed, nil
}

// Lease claims up to limit due Unpublished records for owner.
// Concurrent leasers read the same candidate rows, so their writes conflict
// and Spanner retries the loser against the updated statuses.
func (r *OutboxRepo) Lease(ctx context.Context, owner string, limit int, now time.Time, ttl time.Duration) ([]*contracts.OutboxRecord, error) {
	var leased []*contracts.OutboxRecord
	err := r.committer.RunReadWrite(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction, plan *committer.CommitPlan) error {
		stmt := query.From(m_outbox.TableName).
			Select(m_outbox.Columns...).
			Where(query.Eq(m_outbox.Status, m_outbox.StatusUnpublished)).
			Where(query.Lte(m_outbox.NextAttemptAt, now)).
			OrderBy(m_outbox.CreatedAt, query.Asc).
			ThenBy(m_outbox.RecordID, query.Asc).
			Limit(int64(limit)).
			Build()
		recs, err := queryAll(ctx, txn, stmt, decodeOutbox)
		if err != nil {
			return fmt.Errorf("failed to query due records: %w", err)
		}

		expiresAt := now.Add(ttl)
		for _, rec := range recs {
			rec.Status = contracts.OutboxPublishing
			rec.LeaseOwner = owner
			rec.LeaseExpiresAt = expiresAt
			plan.Add(r.model.LeaseMut(rec.RecordID, owner, expiresAt))
		}
		leased = recs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return leased, nil
}

// MarkPublished sets the record Published iff owner still holds its lease.
func (r *OutboxRepo) MarkPublished(ctx context.Context, recordID, owner string, now time.Time) error {
	return r.committer.RunReadWrite(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction, plan *committer.CommitPlan) error {
		if _, err := r.checkLease(ctx, txn, recordID, owner); err != nil {
			return err
		}
		plan.Add(r.model.PublishedMut(recordID, now))
		return nil
	})
}

// MarkRetry schedules another attempt iff owner still holds the lease.
func (r *OutboxRepo) MarkRetry(ctx context.Context, recordID, owner string, nextAttemptAt time.Time, lastErr string) error {
	return r.committer.RunReadWrite(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction, plan *committer.CommitPlan) error {
		attempts, err := r.checkLease(ctx, txn, recordID, owner)
		if err != nil {
			return err
		}
		plan.Add(r.model.RetryMut(recordID, attempts+1, nextAttemptAt, lastErr))
		return nil
	})
}

// DeletePublishedBefore removes Published records older than cutoff.
func (r *OutboxRepo) DeletePublishedBefore(ctx context.Context, cutoff time.Time, dryRun bool) (int64, error) {
	where := func(b *query.Builder) *query.Builder {
		return b.Where(query.Eq(m_outbox.Published, true)).
			Where(query.Lt(m_outbox.PublishedAt, cutoff))
	}

	if dryRun {
		stmt := where(query.From(m_outbox.TableName)).Count().Build()
		return r.count(ctx, stmt)
	}

	stmt := spanner.Statement{
		SQL: "DELETE FROM " + m_outbox.TableName +
			" WHERE " + m_outbox.Published + " = @published AND " + m_outbox.PublishedAt + " < @cutoff",
		Params: map[string]interface{}{"published": true, "cutoff": cutoff},
	}
	deleted, err := r.client.PartitionedUpdate(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("failed to delete published records: %w", err)
	}
	return deleted, nil
}

// Pending reports how many records are not yet Published.
func (r *OutboxRepo) Pending(ctx context.Context) (int64, error) {
	stmt := query.From(m_outbox.TableName).
		Where(query.Eq(m_outbox.Published, false)).
		Count().
		Build()
	return r.count(ctx, stmt)
}

func (r *OutboxRepo) count(ctx context.Context, stmt spanner.Statement) (int64, error) {
	counts, err := queryAll(ctx, r.client.Single(), stmt, func(row *spanner.Row) (int64, error) {
		var n int64
		if err := row.Columns(&n); err != nil {
			return 0, fmt.Errorf("failed to parse count: %w", err)
		}
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	if len(counts) == 0 {
		return 0, nil
	}
	return counts[0], nil
}

// checkLease returns the record's attempt count if owner holds its lease.
func (r *OutboxRepo) checkLease(ctx context.Context, txn *spanner.ReadWriteTransaction, recordID, owner string) (int64, error) {
	row, err := txn.ReadRow(ctx, m_outbox.TableName, spanner.Key{recordID},
		[]string{m_outbox.Status, m_outbox.LeaseOwner, m_outbox.AttemptCount})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return 0, contracts.ErrLeaseLost
		}
		return 0, fmt.Errorf("failed to read outbox record: %w", err)
	}

	var (
		status     string
		leaseOwner spanner.NullString
		attempts   int64
	)
	if err := row.Columns(&status, &leaseOwner, &attempts); err != nil {
		return 0, fmt.Errorf("failed to parse outbox record: %w", err)
	}
	if status != m_outbox.StatusPublishing || leaseOwner.StringVal != owner {
		return 0, contracts.ErrLeaseLost
	}
	return attempts, nil
}

func decodeString(row *spanner.Row) (string, error) {
	var s string
	if err := row.Columns(&s); err != nil {
		return "", fmt.Errorf("failed to parse column: %w", err)
	}
	return s, nil
}

func decodeOutbox(row *spanner.Row) (*contracts.OutboxRecord, error) {
	var data m_outbox.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse outbox record: %w", err)
	}

	rec := &contracts.OutboxRecord{
		RecordID:       data.RecordID,
		EventType:      data.EventType,
		AggregateID:    data.AggregateID,
		Status:         data.Status,
		Published:      data.Published,
		AttemptCount:   data.AttemptCount,
		NextAttemptAt:  data.NextAttemptAt,
		LeaseOwner:     data.LeaseOwner.StringVal,
		LeaseExpiresAt: data.LeaseExpiresAt.Time,
		LastError:      data.LastError.StringVal,
		CreatedAt:      data.CreatedAt,
		PublishedAt:    data.PublishedAt.Time,
	}
	if data.Payload.Valid {
		payload, err := data.Payload.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode outbox payload: %w", err)
		}
		rec.Payload = payload
	}
	return rec, nil
}

// Recent returns the newest records, optionally filtered by status.
func (r *OutboxRepo) Recent(ctx context.Context, status string, limit int) ([]*contracts.OutboxRecord, error) {
	b := query.From(m_outbox.TableName).Select(m_outbox.Columns...)
	if status != "" {
		b = b.Where(query.Eq(m_outbox.Status, status))
	}
	stmt := b.OrderBy(m_outbox.CreatedAt, query.Desc).
		ThenBy(m_outbox.RecordID, query.Desc).
		Limit(int64(limit)).
		Build()
	recs, err := queryAll(ctx, r.client.Single(), stmt, decodeOutbox)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent records: %w", err)
	}
	return recs, nil
}
