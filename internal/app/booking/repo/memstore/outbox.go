package memstore

import (
	"context"
	"time"

	"github.com/light-bringer/coachbook-service/internal/app/booking/contracts"
)

// ReclaimExpired returns expired Publishing leases to Unpublished.
func (s *Store) ReclaimExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, rec := range s.outbox {
		if rec.Status == contracts.OutboxPublishing && !rec.LeaseExpiresAt.After(now) {
			rec.Status = contracts.OutboxUnpublished
			rec.LeaseOwner = ""
			rec.LeaseExpiresAt = time.Time{}
			n++
		}
	}
	return n, nil
}

// Lease claims up to limit due Unpublished records, oldest first.
func (s *Store) Lease(_ context.Context, owner string, limit int, now time.Time, ttl time.Duration) ([]*contracts.OutboxRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := s.sortedOutbox(func(rec *contracts.OutboxRecord) bool {
		return rec.Status == contracts.OutboxUnpublished && !rec.NextAttemptAt.After(now)
	})
	if len(due) > limit {
		due = due[:limit]
	}

	out := make([]*contracts.OutboxRecord, 0, len(due))
	for i := range due {
		rec := s.outbox[due[i].RecordID]
		rec.Status = contracts.OutboxPublishing
		rec.LeaseOwner = owner
		rec.LeaseExpiresAt = now.Add(ttl)

		leased := *rec
		leased.Payload = append([]byte(nil), rec.Payload...)
		out = append(out, &leased)
	}
	return out, nil
}

// MarkPublished sets Published iff owner still holds the lease.
func (s *Store) MarkPublished(_ context.Context, recordID, owner string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.leased(recordID, owner)
	if err != nil {
		return err
	}
	rec.Status = contracts.OutboxPublished
	rec.Published = true
	rec.PublishedAt = now
	rec.LeaseOwner = ""
	rec.LeaseExpiresAt = time.Time{}
	rec.LastError = ""
	return nil
}

// MarkRetry returns the record to Unpublished iff owner still holds the lease.
func (s *Store) MarkRetry(_ context.Context, recordID, owner string, nextAttemptAt time.Time, lastErr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.leased(recordID, owner)
	if err != nil {
		return err
	}
	rec.Status = contracts.OutboxUnpublished
	rec.AttemptCount++
	rec.NextAttemptAt = nextAttemptAt
	rec.LeaseOwner = ""
	rec.LeaseExpiresAt = time.Time{}
	rec.LastError = lastErr
	return nil
}

// DeletePublishedBefore removes Published records older than cutoff.
func (s *Store) DeletePublishedBefore(_ context.Context, cutoff time.Time, dryRun bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, rec := range s.outbox {
		if rec.Published && rec.PublishedAt.Before(cutoff) {
			n++
			if !dryRun {
				delete(s.outbox, id)
			}
		}
	}
	return n, nil
}

// Pending reports how many records are not yet Published.
func (s *Store) Pending(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, rec := range s.outbox {
		if !rec.Published {
			n++
		}
	}
	return n, nil
}

func (s *Store) leased(recordID, owner string) (*contracts.OutboxRecord, error) {
	rec, ok := s.outbox[recordID]
	if !ok || rec.Status != contracts.OutboxPublishing || rec.LeaseOwner != owner {
		return nil, contracts.ErrLeaseLost
	}
	return rec, nil
}

// Recent returns the newest records, optionally filtered by status.
func (s *Store) Recent(_ context.Context, status string, limit int) ([]*contracts.OutboxRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := s.sortedOutbox(func(rec *contracts.OutboxRecord) bool {
		return status == "" || rec.Status == status
	})
	out := make([]*contracts.OutboxRecord, 0, limit)
	for i := len(sorted) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, &sorted[i])
	}
	return out, nil
}
