package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
)

// reader is the read surface shared by *spanner.ReadWriteTransaction and
// *spanner.ReadOnlyTransaction, so repos serve both unit-of-work and single reads.
type reader interface {
	ReadRow(ctx context.Context, table string, key spanner.Key, columns []string) (*spanner.Row, error)
	Query(ctx context.Context, statement spanner.Statement) *spanner.RowIterator
}

// queryAll runs stmt and converts every row with decode.
func queryAll[T any](ctx context.Context, rd reader, stmt spanner.Statement, decode func(*spanner.Row) (T, error)) ([]T, error) {
	iter := rd.Query(ctx, stmt)
	defer iter.Stop()

	var out []T
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate rows: %w", err)
		}
		v, err := decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// activeStatuses are the booking statuses that occupy a slot.
var activeStatuses = []string{"pending", "confirmed"}
