// Package batch provides the raw-material purchase ledger. Every intake
// and removal moves the material's aggregates and writes a history entry.
package batch

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/entity"
	"blendery/internal/core/id"
)

// Batch is one purchased lot of a material.
type Batch struct {
	entity.BaseDocument

	MaterialID id.ID  `db:"material_id" json:"materialId"`
	Category   string `db:"category" json:"category"`
	Unit       string `db:"unit" json:"unit"`

	// BatchCode is the supplier's lot code, unique across all batches
	BatchCode string `db:"batch_code" json:"batchCode"`

	Quantity        decimal.Decimal `db:"quantity" json:"quantity"`
	PurchasePrice   decimal.Decimal `db:"purchase_price" json:"purchasePrice"`
	TransportCharge decimal.Decimal `db:"transport_charge" json:"transportCharge"`
	Supplier        string          `db:"supplier" json:"supplier"`

	// Set at creation; not recomputed afterwards
	StockAdded     decimal.Decimal `db:"stock_added" json:"stockAdded"`
	StockUsed      decimal.Decimal `db:"stock_used" json:"stockUsed"`
	StockRemaining decimal.Decimal `db:"stock_remaining" json:"stockRemaining"`

	PurchaseDate time.Time `db:"purchase_date" json:"purchaseDate"`
	ExpiryDate   time.Time `db:"expiry_date" json:"expiryDate"`

	MaterialName string `db:"material_name" json:"materialName,omitempty"`
	MaterialCode string `db:"material_code" json:"materialCode,omitempty"`
}

// AddInput carries the fields of a new batch.
type AddInput struct {
	MaterialID      id.ID
	Category        string
	Unit            string
	BatchCode       string
	Quantity        decimal.Decimal
	PurchasePrice   decimal.Decimal
	TransportCharge decimal.Decimal
	Supplier        string
	PurchaseDate    time.Time
	ExpiryDate      time.Time
}

// NewBatch builds a batch from input, stamped with the acting user.
func NewBatch(in AddInput, createdBy string) *Batch {
	return &Batch{
		BaseDocument:    entity.NewBaseDocument(createdBy),
		MaterialID:      in.MaterialID,
		Category:        strings.TrimSpace(in.Category),
		Unit:            strings.TrimSpace(in.Unit),
		BatchCode:       strings.TrimSpace(in.BatchCode),
		Quantity:        in.Quantity,
		PurchasePrice:   in.PurchasePrice,
		TransportCharge: in.TransportCharge,
		Supplier:        strings.TrimSpace(in.Supplier),
		StockAdded:      in.Quantity,
		StockUsed:       decimal.Zero,
		StockRemaining:  in.Quantity,
		PurchaseDate:    in.PurchaseDate,
		ExpiryDate:      in.ExpiryDate,
	}
}

// Validate implements entity.Validatable interface.
func (b *Batch) Validate(ctx context.Context) error {
	required := []struct {
		field string
		empty bool
	}{
		{"materialId", id.IsNil(b.MaterialID)},
		{"category", b.Category == ""},
		{"unit", b.Unit == ""},
		{"batchCode", b.BatchCode == ""},
		{"supplier", b.Supplier == ""},
		{"purchaseDate", b.PurchaseDate.IsZero()},
		{"expiryDate", b.ExpiryDate.IsZero()},
	}
	for _, r := range required {
		if r.empty {
			return apperror.NewRequired(r.field)
		}
	}

	if !b.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").WithDetail("field", "quantity")
	}
	if !b.PurchasePrice.IsPositive() {
		return apperror.NewValidation("purchase price must be positive").WithDetail("field", "purchasePrice")
	}
	if b.TransportCharge.IsNegative() {
		return apperror.NewValidation("transport charge cannot be negative").WithDetail("field", "transportCharge")
	}
	if b.ExpiryDate.Before(b.PurchaseDate) {
		return apperror.NewValidation("expiry date is before purchase date").WithDetail("field", "expiryDate")
	}

	return nil
}

// Cost is the amount added to the material's total cost:
// purchase price plus transport charge, per unit, times quantity.
func (b *Batch) Cost() decimal.Decimal {
	return b.PurchasePrice.Mul(b.Quantity).Add(b.TransportCharge.Mul(b.Quantity))
}
