package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/types"
)

// MaxTurnoverPeriod bounds the turnover report window.
const MaxTurnoverPeriod = 366 * 24 * time.Hour

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetStockValuation values every material at its average price.
func (s *Service) GetStockValuation(ctx context.Context, filter StockValuationFilter) (*StockValuationReport, error) {
	items, err := s.repo.StockValuation(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get stock valuation: %w", err)
	}

	ready, err := s.repo.ReadyStockTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("get ready stock total: %w", err)
	}

	report := &StockValuationReport{
		AsOf:            time.Now().UTC(),
		Items:           items,
		TotalValue:      decimal.Zero,
		ReadyStockTotal: ready,
	}
	for i := range report.Items {
		it := &report.Items[i]
		it.Value = types.RoundMoney(it.CurrentStock.Mul(it.AveragePrice))
		report.TotalValue = report.TotalValue.Add(it.Value)
	}
	if report.Items == nil {
		report.Items = []StockValuationItem{}
	}

	return report, nil
}

// GetStockTurnover reports receipts, consumption and removals per material.
func (s *Service) GetStockTurnover(ctx context.Context, filter StockTurnoverFilter) (*StockTurnoverReport, error) {
	if filter.FromDate.IsZero() || filter.ToDate.IsZero() {
		return nil, apperror.NewValidation("fromDate and toDate are required")
	}
	if filter.FromDate.After(filter.ToDate) {
		return nil, apperror.NewValidation("fromDate must be before toDate")
	}
	if filter.ToDate.Sub(filter.FromDate) > MaxTurnoverPeriod {
		return nil, apperror.NewValidation("period must not exceed one year")
	}

	items, err := s.repo.StockTurnover(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get stock turnover: %w", err)
	}

	report := &StockTurnoverReport{
		FromDate:     filter.FromDate,
		ToDate:       filter.ToDate,
		Items:        items,
		TotalReceipt: decimal.Zero,
		TotalExpense: decimal.Zero,
		TotalRemoved: decimal.Zero,
	}
	for _, it := range items {
		report.TotalReceipt = report.TotalReceipt.Add(it.Receipt)
		report.TotalExpense = report.TotalExpense.Add(it.Expense)
		report.TotalRemoved = report.TotalRemoved.Add(it.Removed)
	}
	if report.Items == nil {
		report.Items = []StockTurnoverItem{}
	}

	return report, nil
}
