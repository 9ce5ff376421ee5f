// Package sale provides customer orders consuming packaged goods.
package sale

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/entity"
	"blendery/internal/core/id"
	"blendery/internal/core/numerator"
)

// NumberConfig is the series of sale numbers: SL-<YEAR>-00001.
var NumberConfig = numerator.DefaultConfig("SL")

// Status of a sale.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus accepts a status in any letter case. Empty means Pending.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending":
		return StatusPending, nil
	case "completed":
		return StatusCompleted, nil
	case "cancelled":
		return StatusCancelled, nil
	}
	return "", apperror.NewValidation("invalid sale status").
		WithDetail("field", "status").
		WithDetail("allowed", []Status{StatusPending, StatusCompleted, StatusCancelled})
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Item is one sold line. Price comes from the packaging batch.
type Item struct {
	LineNo           int             `db:"line_no" json:"lineNo"`
	FormulaID        id.ID           `db:"formula_id" json:"productId"`
	PackagingBatchID id.ID           `db:"packaging_batch_id" json:"packagingBatchId"`
	Quantity         int             `db:"quantity" json:"quantity"`
	Price            decimal.Decimal `db:"price" json:"price"`
	Discount         decimal.Decimal `db:"discount" json:"discount"`
	Tax              decimal.Decimal `db:"tax" json:"tax"`
	Subtotal         decimal.Decimal `db:"subtotal" json:"subtotal"`
}

// Sale is a customer order.
type Sale struct {
	entity.BaseDocument

	Number     string    `db:"number" json:"number"`
	CustomerID id.ID     `db:"customer_id" json:"customerId"`
	SupplierID *id.ID    `db:"supplier_id" json:"supplierId,omitempty"`
	Date       time.Time `db:"date" json:"date"`

	OrderTax   decimal.Decimal `db:"order_tax" json:"orderTax"`
	Discount   decimal.Decimal `db:"discount" json:"discount"`
	Shipping   decimal.Decimal `db:"shipping" json:"shipping"`
	GrandTotal decimal.Decimal `db:"grand_total" json:"grandTotal"`
	Status     Status          `db:"status" json:"status"`
	Notes      *string         `db:"notes" json:"notes,omitempty"`

	CustomerName string `db:"customer_name" json:"customerName,omitempty"`

	Items []Item `db:"-" json:"items"`
}

// ItemInput is a requested line.
type ItemInput struct {
	PackagingBatchID id.ID
	Quantity         int
	Discount         decimal.Decimal
	Tax              decimal.Decimal
}

// CreateInput carries the fields of a new sale.
type CreateInput struct {
	CustomerID id.ID
	SupplierID *id.ID
	Date       time.Time
	Items      []ItemInput
	OrderTax   decimal.Decimal
	Discount   decimal.Decimal
	Shipping   decimal.Decimal
	Status     string
	Notes      *string
}

// Validate checks the input before any lookup.
func (in CreateInput) Validate() error {
	if id.IsNil(in.CustomerID) {
		return apperror.NewRequired("customerId")
	}
	if len(in.Items) == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "items")
	}
	for i, it := range in.Items {
		if id.IsNil(it.PackagingBatchID) {
			return apperror.NewRequired("packagingBatchId").WithDetail("line", i+1)
		}
		if it.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").WithDetail("line", i+1)
		}
		if it.Discount.IsNegative() || it.Tax.IsNegative() {
			return apperror.NewValidation("discount and tax cannot be negative").WithDetail("line", i+1)
		}
	}
	if in.OrderTax.IsNegative() || in.Discount.IsNegative() || in.Shipping.IsNegative() {
		return apperror.NewValidation("order tax, discount and shipping cannot be negative")
	}
	return nil
}

// NewItem prices a line: price * qty - discount + tax.
func NewItem(lineNo int, formulaID, batchID id.ID, qty int, price, discount, tax decimal.Decimal) Item {
	subtotal := price.Mul(decimal.NewFromInt(int64(qty))).Sub(discount).Add(tax)
	return Item{
		LineNo:           lineNo,
		FormulaID:        formulaID,
		PackagingBatchID: batchID,
		Quantity:         qty,
		Price:            price,
		Discount:         discount,
		Tax:              tax,
		Subtotal:         subtotal,
	}
}

// Recalculate sets GrandTotal = sum(subtotals) + shipping + orderTax - discount.
func (s *Sale) Recalculate() {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Subtotal)
	}
	s.GrandTotal = total.Add(s.Shipping).Add(s.OrderTax).Sub(s.Discount)
}

// Validate implements entity.Validatable interface.
func (s *Sale) Validate(ctx context.Context) error {
	if len(s.Items) == 0 {
		return apperror.NewValidation("at least one item is required")
	}
	if s.GrandTotal.IsNegative() {
		return apperror.NewValidation("grand total cannot be negative").
			WithDetail("grandTotal", s.GrandTotal.String())
	}
	return nil
}

// PackagesByBatch sums requested packs per packaging batch.
func (s *Sale) PackagesByBatch() (order []id.ID, qty map[id.ID]int) {
	qty = make(map[id.ID]int, len(s.Items))
	for _, it := range s.Items {
		if _, ok := qty[it.PackagingBatchID]; !ok {
			order = append(order, it.PackagingBatchID)
		}
		qty[it.PackagingBatchID] += it.Quantity
	}
	return order, qty
}
