// Package formula provides blend recipes: which materials, and how many
// grams of each, make up one kilogram of product.
package formula

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/entity"
	"blendery/internal/core/id"
	"blendery/internal/core/types"
)

// DefaultTotalWeight is the reference batch weight in grams.
var DefaultTotalWeight = decimal.NewFromInt(1000)

var hundred = decimal.NewFromInt(100)

// Component is one line of a composition.
type Component struct {
	MaterialID id.ID           `db:"material_id" json:"materialId"`
	Grams      decimal.Decimal `db:"grams" json:"grams"`
	Percentage decimal.Decimal `db:"percentage" json:"percentage"`

	// Filled on read
	MaterialName string `db:"material_name" json:"materialName,omitempty"`
	MaterialCode string `db:"material_code" json:"materialCode,omitempty"`
}

// RequiredKg is the quantity of this material consumed by a run of runKg,
// rounded to the stored scale so the stock check and the decrement agree.
func (c Component) RequiredKg(runKg decimal.Decimal) decimal.Decimal {
	return types.RoundQuantity(types.GramsToKg(c.Grams).Mul(runKg))
}

// CostPerKg is this line's contribution to the cost of one kilogram of product.
func (c Component) CostPerKg(averagePrice decimal.Decimal) decimal.Decimal {
	return averagePrice.Mul(c.Grams).Div(types.GramsPerKg)
}

// RequiredGrams is the share of a run of runKg given by the line percentage.
func (c Component) RequiredGrams(runKg decimal.Decimal) decimal.Decimal {
	return c.Percentage.Div(hundred).Mul(types.KgToGrams(runKg))
}

// Formula is a named recipe.
type Formula struct {
	entity.Catalog

	Description *string `db:"description" json:"description,omitempty"`

	// TotalWeight of the reference batch in grams
	TotalWeight decimal.Decimal `db:"total_weight" json:"totalWeight"`

	Composition []Component `db:"-" json:"composition"`
}

// NewFormula creates a new Formula with the default reference weight.
func NewFormula(code, name string, composition []Component) *Formula {
	return &Formula{
		Catalog:     entity.NewCatalog(code, name),
		TotalWeight: DefaultTotalWeight,
		Composition: composition,
	}
}

// Normalize cleans user-supplied text fields.
func (f *Formula) Normalize() {
	f.Catalog.Normalize()
	if f.TotalWeight.IsZero() {
		f.TotalWeight = DefaultTotalWeight
	}
	if f.Description != nil {
		d := strings.TrimSpace(*f.Description)
		if d == "" {
			f.Description = nil
		} else {
			f.Description = &d
		}
	}
}

// Validate implements entity.Validatable interface.
// Percentages are author-supplied and need not sum to 100.
func (f *Formula) Validate(ctx context.Context) error {
	if err := f.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !f.TotalWeight.IsPositive() {
		return apperror.NewValidation("total weight must be positive").WithDetail("field", "totalWeight")
	}

	if len(f.Composition) == 0 {
		return apperror.NewValidation("composition must contain at least one material").
			WithDetail("field", "composition")
	}

	seen := make(map[id.ID]bool, len(f.Composition))
	for i, c := range f.Composition {
		if id.IsNil(c.MaterialID) {
			return apperror.NewRequired("materialId").WithDetail("line", i+1)
		}
		if seen[c.MaterialID] {
			return apperror.NewValidation("material appears more than once in composition").
				WithDetail("line", i+1).
				WithDetail("materialId", c.MaterialID.String())
		}
		seen[c.MaterialID] = true

		if c.Grams.LessThan(decimal.NewFromInt(1)) {
			return apperror.NewValidation("grams must be at least 1").WithDetail("line", i+1)
		}
		if c.Percentage.IsNegative() || c.Percentage.GreaterThan(hundred) {
			return apperror.NewValidation("percentage must be between 0 and 100").WithDetail("line", i+1)
		}
	}

	return nil
}

// MaterialIDs lists the materials used by the composition, in line order.
func (f *Formula) MaterialIDs() []id.ID {
	ids := make([]id.ID, len(f.Composition))
	for i, c := range f.Composition {
		ids[i] = c.MaterialID
	}
	return ids
}
