// Package material provides the raw-material catalog and its rolling
// stock and cost aggregates.
package material

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/entity"
)

// DefaultUnit is used when a material is created without a unit.
const DefaultUnit = "kg"

// Material is a raw-material type. The aggregate fields are owned by this
// catalog and only change through the repository's atomic mutators.
type Material struct {
	entity.Catalog

	Description *string `db:"description" json:"description,omitempty"`

	// Unit of stock quantities
	Unit string `db:"unit" json:"unit"`

	// StockIn is the total quantity ever received
	StockIn decimal.Decimal `db:"stock_in" json:"stockIn"`

	// StockOut is the total quantity consumed by production
	StockOut decimal.Decimal `db:"stock_out" json:"stockOut"`

	CurrentStock decimal.Decimal `db:"current_stock" json:"currentStock"`

	// TotalCost accumulates purchase plus transport cost of every intake
	TotalCost decimal.Decimal `db:"total_cost" json:"totalCost"`

	BatchCount int `db:"batch_count" json:"batchCount"`

	// AveragePrice is TotalCost / StockIn after the latest intake
	AveragePrice decimal.Decimal `db:"average_price" json:"averagePrice"`
}

// NewMaterial creates a new Material with zero aggregates.
func NewMaterial(code, name string) *Material {
	return &Material{
		Catalog:      entity.NewCatalog(code, name),
		Unit:         DefaultUnit,
		StockIn:      decimal.Zero,
		StockOut:     decimal.Zero,
		CurrentStock: decimal.Zero,
		TotalCost:    decimal.Zero,
		AveragePrice: decimal.Zero,
	}
}

// Normalize cleans user-supplied text fields.
func (m *Material) Normalize() {
	m.Catalog.Normalize()
	m.Unit = strings.TrimSpace(m.Unit)
	if m.Unit == "" {
		m.Unit = DefaultUnit
	}
	if m.Description != nil {
		d := strings.TrimSpace(*m.Description)
		if d == "" {
			m.Description = nil
		} else {
			m.Description = &d
		}
	}
}

// Validate implements entity.Validatable interface.
func (m *Material) Validate(ctx context.Context) error {
	if err := m.Catalog.Validate(ctx); err != nil {
		return err
	}
	if m.CurrentStock.IsNegative() || m.StockIn.IsNegative() {
		return apperror.NewValidation("stock cannot be negative")
	}
	return nil
}

// Details holds the client-writable fields of a material.
type Details struct {
	Code        string
	Name        string
	Description *string
	Unit        string
}

// Apply copies descriptive fields onto m; aggregates are untouched.
func (m *Material) Apply(d Details) {
	m.Code = d.Code
	m.Name = d.Name
	m.Description = d.Description
	if d.Unit != "" {
		m.Unit = d.Unit
	}
}
