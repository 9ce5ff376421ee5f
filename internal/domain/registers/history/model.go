// Package history provides the append-only stock movement log of raw materials.
package history

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
)

// Type classifies a stock movement.
type Type string

const (
	TypeIn     Type = "IN"
	TypeOut    Type = "OUT"
	TypeDelete Type = "DELETE"
)

// Reasons written by the stock-affecting operations.
const (
	ReasonBatchAdded          = "Batch Added"
	ReasonBatchDeleted        = "Batch Deleted"
	ReasonProductionCompleted = "Production Batch Completed"
)

// ParseType validates a movement type (case-insensitive).
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TypeIn, TypeOut, TypeDelete:
		return t, nil
	}
	return "", apperror.NewValidation("invalid history type").
		WithDetail("field", "type").
		WithDetail("allowed", []Type{TypeIn, TypeOut, TypeDelete})
}

// Entry is one stock movement. Entries are never updated or deleted,
// except by cascade when their material is removed.
type Entry struct {
	ID         id.ID           `db:"id" json:"id"`
	MaterialID id.ID           `db:"material_id" json:"materialId"`
	Type       Type            `db:"type" json:"type"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
	Reason     string          `db:"reason" json:"reason"`
	BatchCode  *string         `db:"batch_code" json:"batchCode,omitempty"`

	// RelatedBatchID is set for intakes. Deletions keep only BatchCode
	// since the batch row is gone.
	RelatedBatchID *id.ID `db:"related_batch_id" json:"relatedBatchId,omitempty"`

	ProductionRunID *id.ID `db:"production_run_id" json:"productionRunId,omitempty"`

	CurrentStockAfter decimal.Decimal `db:"current_stock_after" json:"currentStockAfterTransaction"`

	CreatedBy string    `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewEntry creates an entry with a generated id and the current time.
func NewEntry(materialID id.ID, t Type, qty decimal.Decimal, reason string, stockAfter decimal.Decimal, createdBy string) *Entry {
	return &Entry{
		ID:                id.New(),
		MaterialID:        materialID,
		Type:              t,
		Quantity:          qty,
		Reason:            reason,
		CurrentStockAfter: stockAfter,
		CreatedBy:         createdBy,
		CreatedAt:         time.Now().UTC(),
	}
}
