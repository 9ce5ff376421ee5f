package dto

import (
	"github.com/shopspring/decimal"

	"blendery/internal/domain/catalogs/formula"
)

// ComponentRequest is one line of a formula composition.
type ComponentRequest struct {
	MaterialID string          `json:"materialId" binding:"required"`
	Grams      decimal.Decimal `json:"grams" binding:"decimal_gt0"`
	Percentage decimal.Decimal `json:"percentage" binding:"decimal_gte0"`
}

// CreateFormulaRequest is the request body of POST /formulas.
type CreateFormulaRequest struct {
	Code        string             `json:"code" binding:"required"`
	Name        string             `json:"name" binding:"required"`
	Description *string            `json:"description"`
	TotalWeight decimal.Decimal    `json:"totalWeight" binding:"decimal_gte0"`
	Composition []ComponentRequest `json:"composition" binding:"required,min=1,dive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateFormulaRequest) ToEntity() (*formula.Formula, error) {
	lines := make([]formula.Component, len(r.Composition))
	for i, c := range r.Composition {
		materialID, err := ParseID("materialId", c.MaterialID)
		if err != nil {
			return nil, err
		}
		lines[i] = formula.Component{
			MaterialID: materialID,
			Grams:      c.Grams,
			Percentage: c.Percentage,
		}
	}

	f := formula.NewFormula(r.Code, r.Name, lines)
	f.Description = r.Description
	if r.TotalWeight.IsPositive() {
		f.TotalWeight = r.TotalWeight
	}
	return f, nil
}
