package packaging

import (
	"context"
	"time"

	"blendery/internal/core/id"
	"blendery/internal/domain"
)

// Repository defines operations for packaging batches.
type Repository interface {
	Create(ctx context.Context, b *Batch) error
	GetByID(ctx context.Context, batchID id.ID) (*Batch, error)

	// GetMany loads batches by id. Missing ids are absent from the map.
	GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*Batch, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Batch], error)

	// TakePackages subtracts n packs when at least n are left.
	// Returns false otherwise.
	TakePackages(ctx context.Context, batchID id.ID, n int) (bool, error)
}

// ListFilter for filtering packaging batches.
type ListFilter struct {
	domain.ListFilter

	FormulaName   string
	BatchCode     string
	PackagingDate *time.Time
}
