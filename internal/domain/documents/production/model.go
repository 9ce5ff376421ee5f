// Package production provides production runs: one execution of a formula
// at a target bulk quantity.
package production

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/entity"
	"blendery/internal/core/id"
)

// Status of a production run.
type Status string

const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
	StatusCancel   Status = "cancel"
)

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s == StatusCancel
}

// ParseTargetStatus accepts the statuses a run can be moved to.
func ParseTargetStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusComplete, StatusCancel:
		return st, nil
	}
	return "", apperror.NewValidation("status must be complete or cancel").
		WithDetail("field", "status").
		WithDetail("value", s)
}

// Run is one production run.
type Run struct {
	entity.BaseDocument

	FormulaID id.ID `db:"formula_id" json:"formulaId"`

	// BatchCode is generated on creation: BATCH-<YYYYMMDD>-<4 hex of id>
	BatchCode string `db:"batch_code" json:"batchCode"`

	// Quantity is the remaining bulk weight in kg. Packaging draws it down.
	Quantity decimal.Decimal `db:"quantity" json:"quantity"`

	CostPerKg decimal.Decimal `db:"cost_per_kg" json:"costPerKg"`
	TotalCost decimal.Decimal `db:"total_cost" json:"totalCost"`
	Status    Status          `db:"status" json:"status"`

	CompletedBy *string `db:"completed_by" json:"completedBy,omitempty"`

	FormulaName string `db:"formula_name" json:"formulaName,omitempty"`
	FormulaCode string `db:"formula_code" json:"formulaCode,omitempty"`
}

// BatchCode renders the human-legible code of a run created at t.
func BatchCode(t time.Time, runID id.ID) string {
	return fmt.Sprintf("BATCH-%s-%s", t.UTC().Format("20060102"), id.Suffix(runID, 4))
}

// NewRun creates a pending run.
func NewRun(formulaID id.ID, quantity decimal.Decimal, createdBy string) *Run {
	r := &Run{
		BaseDocument: entity.NewBaseDocument(createdBy),
		FormulaID:    formulaID,
		Quantity:     quantity,
		CostPerKg:    decimal.Zero,
		TotalCost:    decimal.Zero,
		Status:       StatusPending,
	}
	r.BatchCode = BatchCode(r.CreatedAt, r.ID)
	return r
}

// Validate implements entity.Validatable interface.
func (r *Run) Validate(ctx context.Context) error {
	if id.IsNil(r.FormulaID) {
		return apperror.NewRequired("formulaId")
	}
	if !r.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").WithDetail("field", "quantity")
	}
	return nil
}

// CanTransition checks a status change from the current status.
func (r *Run) CanTransition(to Status) error {
	if r.Status.IsTerminal() {
		return apperror.NewInvalidTransition("production run", string(r.Status), string(to))
	}
	return nil
}

// Transition carries the fields written by a status change.
type Transition struct {
	From        Status
	To          Status
	Version     int
	CostPerKg   decimal.Decimal
	TotalCost   decimal.Decimal
	CompletedBy *string
}

// DetailLine is one composition line scaled to a run.
type DetailLine struct {
	MaterialID    id.ID           `json:"materialId"`
	MaterialName  string          `json:"materialName"`
	MaterialCode  string          `json:"materialCode"`
	Grams         decimal.Decimal `json:"grams"`
	Percentage    decimal.Decimal `json:"percentage"`
	RequiredGrams decimal.Decimal `json:"requiredGrams"`
}

// Details is a run with its scaled composition.
type Details struct {
	Run         *Run         `json:"run"`
	FormulaName string       `json:"formulaName"`
	FormulaCode string       `json:"formulaCode"`
	Composition []DetailLine `json:"composition"`
}
