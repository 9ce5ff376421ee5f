package readystock

import (
	"context"

	"github.com/shopspring/decimal"

	"blendery/internal/core/id"
)

// Repository persists ready stock rows.
type Repository interface {
	// Credit adds qty to the formula's row, creating it on first use.
	// Must be a single atomic upsert.
	Credit(ctx context.Context, formulaID id.ID, qty decimal.Decimal) (*ReadyStock, error)

	List(ctx context.Context) ([]*ReadyStock, error)

	// GetByFormula returns NotFound when nothing was produced yet.
	GetByFormula(ctx context.Context, formulaID id.ID) (*ReadyStock, error)
}
