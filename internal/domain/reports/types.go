// Package reports provides read-only stock reports.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"blendery/internal/core/id"
)

// --- Stock Valuation ---

// StockValuationFilter defines filter for the stock valuation report.
type StockValuationFilter struct {
	// Search matches material name or code
	Search string

	// ExcludeZero hides materials with no stock on hand
	ExcludeZero bool
}

// StockValuationItem is one material valued at its average price.
type StockValuationItem struct {
	MaterialID   id.ID           `db:"material_id" json:"materialId"`
	Code         string          `db:"code" json:"code"`
	Name         string          `db:"name" json:"name"`
	Unit         string          `db:"unit" json:"unit"`
	CurrentStock decimal.Decimal `db:"current_stock" json:"currentStock"`
	AveragePrice decimal.Decimal `db:"average_price" json:"averagePrice"`
	Value        decimal.Decimal `db:"-" json:"value"`
}

// StockValuationReport values raw-material stock and ready blends.
type StockValuationReport struct {
	AsOf  time.Time            `json:"asOf"`
	Items []StockValuationItem `json:"items"`

	TotalValue      decimal.Decimal `json:"totalValue"`
	ReadyStockTotal decimal.Decimal `json:"readyStockTotalKg"`
}

// --- Stock Turnover ---

// StockTurnoverFilter defines the period of the turnover report.
type StockTurnoverFilter struct {
	FromDate time.Time
	ToDate   time.Time

	MaterialIDs []id.ID

	// IncludeZero keeps materials without movements in the period
	IncludeZero bool
}

// StockTurnoverItem is one material's movements in the period.
type StockTurnoverItem struct {
	MaterialID     id.ID           `db:"material_id" json:"materialId"`
	Code           string          `db:"code" json:"code"`
	Name           string          `db:"name" json:"name"`
	OpeningBalance decimal.Decimal `db:"opening_balance" json:"openingBalance"`
	Receipt        decimal.Decimal `db:"receipt" json:"receipt"`
	Expense        decimal.Decimal `db:"expense" json:"expense"`
	Removed        decimal.Decimal `db:"removed" json:"removed"`
	ClosingBalance decimal.Decimal `db:"closing_balance" json:"closingBalance"`
}

// StockTurnoverReport is the turnover of raw materials over a period.
type StockTurnoverReport struct {
	FromDate time.Time           `json:"fromDate"`
	ToDate   time.Time           `json:"toDate"`
	Items    []StockTurnoverItem `json:"items"`

	TotalReceipt decimal.Decimal `json:"totalReceipt"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	TotalRemoved decimal.Decimal `json:"totalRemoved"`
}
