// Package packaging turns the bulk output of completed production runs
// into countable, priced packs.
package packaging

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/entity"
	"blendery/internal/core/id"
	"blendery/internal/core/types"
)

// DefaultMarkup is the flat per-pack surcharge used when none is configured.
var DefaultMarkup = decimal.NewFromInt(10)

// Batch is a packaging batch drawn from one production run.
type Batch struct {
	entity.BaseEntity

	ProductionRunID  id.ID           `db:"production_run_id" json:"productionRunId"`
	PackageSizeGrams decimal.Decimal `db:"package_size_grams" json:"packageSizeGrams"`

	// NumberOfPackages left for sale
	NumberOfPackages int `db:"number_of_packages" json:"numberOfPackages"`

	TotalWeightKg decimal.Decimal `db:"total_weight_kg" json:"totalWeightKg"`
	PricePerPack  decimal.Decimal `db:"price_per_pack" json:"pricePerPack"`
	PackagingDate time.Time       `db:"packaging_date" json:"packagingDate"`
	ExpiryDate    *time.Time      `db:"expiry_date" json:"expiryDate,omitempty"`
	Notes         *string         `db:"notes" json:"notes,omitempty"`
	PackagedBy    string          `db:"packaged_by" json:"packagedBy"`

	RunBatchCode string `db:"run_batch_code" json:"batchCode,omitempty"`
	FormulaID    id.ID  `db:"formula_id" json:"formulaId"`
	FormulaName  string `db:"formula_name" json:"formulaName,omitempty"`
}

// CreateInput carries the fields of a new packaging batch.
type CreateInput struct {
	ProductionRunID  id.ID
	PackageSizeGrams decimal.Decimal
	NumberOfPackages int
	PackagingDate    time.Time
	ExpiryDate       *time.Time
	Notes            *string
}

// Validate checks the input before any lookup.
func (in CreateInput) Validate() error {
	if id.IsNil(in.ProductionRunID) {
		return apperror.NewRequired("productionRunId")
	}
	if !in.PackageSizeGrams.IsPositive() {
		return apperror.NewValidation("package size must be positive").WithDetail("field", "packageSizeGrams")
	}
	if in.NumberOfPackages <= 0 {
		return apperror.NewValidation("number of packages must be positive").WithDetail("field", "numberOfPackages")
	}
	if in.ExpiryDate != nil && !in.PackagingDate.IsZero() && in.ExpiryDate.Before(in.PackagingDate) {
		return apperror.NewValidation("expiry date is before packaging date").WithDetail("field", "expiryDate")
	}
	return nil
}

// TotalWeightKg is size * count converted to kilograms.
func (in CreateInput) TotalWeightKg() decimal.Decimal {
	return types.GramsToKg(in.PackageSizeGrams.Mul(decimal.NewFromInt(int64(in.NumberOfPackages))))
}

// PricePerPack is the run's cost of one pack plus markup, rounded to cents.
func PricePerPack(costPerKg, packageSizeGrams, markup decimal.Decimal) decimal.Decimal {
	return types.RoundMoney(costPerKg.Div(types.GramsPerKg).Mul(packageSizeGrams).Add(markup))
}

// NewBatch builds a batch for a run, stamped with the acting user.
func NewBatch(in CreateInput, pricePerPack decimal.Decimal, packagedBy string) *Batch {
	date := in.PackagingDate
	if date.IsZero() {
		date = time.Now().UTC()
	}
	var notes *string
	if in.Notes != nil && strings.TrimSpace(*in.Notes) != "" {
		n := strings.TrimSpace(*in.Notes)
		notes = &n
	}
	return &Batch{
		BaseEntity:       entity.NewBaseEntity(),
		ProductionRunID:  in.ProductionRunID,
		PackageSizeGrams: in.PackageSizeGrams,
		NumberOfPackages: in.NumberOfPackages,
		TotalWeightKg:    in.TotalWeightKg(),
		PricePerPack:     pricePerPack,
		PackagingDate:    date,
		ExpiryDate:       in.ExpiryDate,
		Notes:            notes,
		PackagedBy:       packagedBy,
	}
}

// Validate implements entity.Validatable interface.
func (b *Batch) Validate(ctx context.Context) error {
	if b.PackagedBy == "" {
		return apperror.NewRequired("packagedBy")
	}
	if b.NumberOfPackages < 0 {
		return apperror.NewValidation("number of packages cannot be negative")
	}
	return nil
}
