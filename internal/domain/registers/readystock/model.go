// Package readystock aggregates finished bulk product per formula,
// waiting to be packaged.
package readystock

import (
	"time"

	"github.com/shopspring/decimal"

	"blendery/internal/core/id"
)

// ReadyStock is the bulk quantity (kg) produced for one formula across
// all completed runs.
type ReadyStock struct {
	ID            id.ID           `db:"id" json:"id"`
	FormulaID     id.ID           `db:"formula_id" json:"formulaId"`
	TotalQuantity decimal.Decimal `db:"total_quantity" json:"totalQuantity"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`

	FormulaName string `db:"formula_name" json:"formulaName,omitempty"`
	FormulaCode string `db:"formula_code" json:"formulaCode,omitempty"`
}
