// Package committer implements the Golden Mutation Pattern for Spanner transactions.
//
// Repositories never apply writes. They return *spanner.Mutation values which
// the caller collects into a CommitPlan, together with the outbox records that
// describe the change, and the plan is committed as one unit.
//
//	err := c.RunReadWrite(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction, plan *committer.CommitPlan) error {
//	    booking, err := load(ctx, txn, id)
//	    if err != nil {
//	        return err
//	    }
//	    if err := booking.Confirm(actor, now); err != nil {
//	        return err
//	    }
//	    plan.Add(bookingModel.UpdateMut(booking.ID(), updates))
//	    plan.Add(outboxModel.InsertMut(record))
//	    return nil
//	})
//
// Spanner may abort and re-run the function; each run starts from an empty plan.
package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

// CommitPlan is a typed wrapper around Spanner mutations for the Golden Mutation Pattern.
// It collects mutations from multiple sources for one read-write transaction.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Committer provides transaction execution for CommitPlans.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// RunReadWrite runs fn in a read-write transaction and buffers the plan it
// fills once fn returns nil. Reads inside fn take locks, so a concurrent
// transaction writing the same rows aborts one side and Spanner re-runs fn.
// Returned errors from fn are passed through unwrapped.
func (c *Committer) RunReadWrite(ctx context.Context, fn func(context.Context, *spanner.ReadWriteTransaction, *CommitPlan) error) error {
	var fnErr error
	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		plan := NewPlan()
		if fnErr = fn(ctx, txn, plan); fnErr != nil {
			return fnErr
		}
		if plan.IsEmpty() {
			return nil
		}
		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		if fnErr != nil {
			return fnErr
		}
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
