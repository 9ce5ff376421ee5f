// Package lock defines the contract for short-lived mutual exclusion
// across service instances.
package lock

import (
	"context"
)

// Locker serializes work on a named resource.
type Locker interface {
	// Acquire blocks until the lock for key is held or ctx ends.
	// The returned release func must be called exactly once.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Nop is a Locker that never blocks. It is used when no shared lock
// backend is configured; database guards still apply.
type Nop struct{}

// Acquire implements Locker.
func (Nop) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

var _ Locker = Nop{}
