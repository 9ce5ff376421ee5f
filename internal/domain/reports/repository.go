package reports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines report data access interface.
type Repository interface {
	StockValuation(ctx context.Context, filter StockValuationFilter) ([]StockValuationItem, error)
	ReadyStockTotal(ctx context.Context) (decimal.Decimal, error)
	StockTurnover(ctx context.Context, filter StockTurnoverFilter) ([]StockTurnoverItem, error)
}
