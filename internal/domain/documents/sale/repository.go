package sale

import (
	"context"

	"blendery/internal/core/id"
	"blendery/internal/domain"
)

// Repository defines operations for sales.
type Repository interface {
	Create(ctx context.Context, s *Sale) error
	SaveItems(ctx context.Context, saleID id.ID, items []Item) error

	// GetByID returns the sale with its items.
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error)

	// ApplyStatus moves a sale from one status to another if it still has
	// version. Returns false when another request got there first.
	ApplyStatus(ctx context.Context, saleID id.ID, from, to Status, version int) (bool, error)
}

// ListFilter for filtering sales.
type ListFilter struct {
	domain.ListFilter

	CustomerID *id.ID
	Status     *Status
}
