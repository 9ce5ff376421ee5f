package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/apperror"
	"blendery/internal/core/types"
)

type stubRepo struct {
	valuation []StockValuationItem
	turnover  []StockTurnoverItem
	ready     decimal.Decimal
}

func (r *stubRepo) StockValuation(context.Context, StockValuationFilter) ([]StockValuationItem, error) {
	return r.valuation, nil
}

func (r *stubRepo) ReadyStockTotal(context.Context) (decimal.Decimal, error) {
	return r.ready, nil
}

func (r *stubRepo) StockTurnover(context.Context, StockTurnoverFilter) ([]StockTurnoverItem, error) {
	return r.turnover, nil
}

func TestGetStockValuation_ValuesAtAveragePrice(t *testing.T) {
	repo := &stubRepo{
		valuation: []StockValuationItem{
			{Code: "TUR", CurrentStock: types.MustDecimal("15"), AveragePrice: types.MustDecimal("6.6667")},
			{Code: "CUM", CurrentStock: types.MustDecimal("2"), AveragePrice: types.MustDecimal("10")},
		},
		ready: types.MustDecimal("12.5"),
	}

	report, err := NewService(repo).GetStockValuation(context.Background(), StockValuationFilter{})
	require.NoError(t, err)

	assert.Equal(t, "100", report.Items[0].Value.String())
	assert.Equal(t, "20", report.Items[1].Value.String())
	assert.Equal(t, "120", report.TotalValue.String())
	assert.Equal(t, "12.5", report.ReadyStockTotal.String())
}

func TestGetStockTurnover_ValidatesPeriod(t *testing.T) {
	svc := NewService(&stubRepo{})
	ctx := context.Background()
	now := time.Now()

	_, err := svc.GetStockTurnover(ctx, StockTurnoverFilter{})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = svc.GetStockTurnover(ctx, StockTurnoverFilter{FromDate: now, ToDate: now.Add(-time.Hour)})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = svc.GetStockTurnover(ctx, StockTurnoverFilter{FromDate: now.AddDate(-2, 0, 0), ToDate: now})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestGetStockTurnover_Totals(t *testing.T) {
	repo := &stubRepo{turnover: []StockTurnoverItem{
		{Receipt: types.MustDecimal("10"), Expense: types.MustDecimal("4"), Removed: decimal.Zero},
		{Receipt: types.MustDecimal("5"), Expense: types.MustDecimal("1.5"), Removed: types.MustDecimal("2")},
	}}
	now := time.Now()

	report, err := NewService(repo).GetStockTurnover(context.Background(), StockTurnoverFilter{
		FromDate: now.AddDate(0, -1, 0),
		ToDate:   now,
	})
	require.NoError(t, err)

	assert.Equal(t, "15", report.TotalReceipt.String())
	assert.Equal(t, "5.5", report.TotalExpense.String())
	assert.Equal(t, "2", report.TotalRemoved.String())
}
