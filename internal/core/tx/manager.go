// Package tx provides transaction management abstractions.
// Domain services depend on Manager; the implementation lives in
// infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	// Implementations may re-run fn when the database reports a
	// serialization failure, so fn must not have side effects outside
	// the transaction.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
