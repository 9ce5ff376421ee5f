package production

import (
	"context"

	"github.com/shopspring/decimal"

	"blendery/internal/core/id"
	"blendery/internal/domain"
)

// Repository defines operations for production runs.
type Repository interface {
	Create(ctx context.Context, r *Run) error
	GetByID(ctx context.Context, runID id.ID) (*Run, error)
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Run], error)

	// ApplyTransition moves a run from t.From to t.To if it still has
	// t.Version. Returns false when another request got there first.
	ApplyTransition(ctx context.Context, runID id.ID, t Transition) (bool, error)

	// DrawQuantity subtracts kg from a complete run's remaining quantity
	// when at least kg is left. Returns false otherwise.
	DrawQuantity(ctx context.Context, runID id.ID, kg decimal.Decimal) (bool, error)
}

// ListFilter for filtering production runs.
type ListFilter struct {
	domain.ListFilter

	Status *Status
}
