package batch

import (
	"context"

	"blendery/internal/core/id"
	"blendery/internal/domain"
)

// Repository defines operations for batch records.
type Repository interface {
	Create(ctx context.Context, b *Batch) error
	GetByID(ctx context.Context, batchID id.ID) (*Batch, error)
	Delete(ctx context.Context, batchID id.ID) error
	ExistsByCode(ctx context.Context, batchCode string) (bool, error)
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Batch], error)
}

// ListFilter for filtering batches.
type ListFilter struct {
	domain.ListFilter

	MaterialID *id.ID
}
