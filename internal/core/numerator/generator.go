package numerator

import (
	"context"
	"time"
)

// Generator generates sequential document numbers.
// Implementations live in the infrastructure layer.
type Generator interface {
	// GetNextNumber returns the next number of the series, e.g. SL-2026-00001.
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	// SetNextNumber moves the series so that the next call returns value.
	SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error
}
