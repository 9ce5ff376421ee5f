package dto

import (
	"github.com/shopspring/decimal"

	"blendery/internal/core/id"
	"blendery/internal/domain/documents/sale"
)

// SaleItemRequest is one requested sale line. Any price sent by the
// client is ignored; the packaging batch price applies.
type SaleItemRequest struct {
	PackagingBatchID string          `json:"packagingBatchId" binding:"required"`
	Quantity         int             `json:"quantity" binding:"required,gt=0"`
	Discount         decimal.Decimal `json:"discount" binding:"decimal_gte0"`
	Tax              decimal.Decimal `json:"tax" binding:"decimal_gte0"`
}

// CreateSaleRequest is the request body of POST /sales.
type CreateSaleRequest struct {
	CustomerID string            `json:"customerId" binding:"required"`
	SupplierID *string           `json:"supplierId"`
	Date       string            `json:"date"`
	Items      []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	OrderTax   decimal.Decimal   `json:"orderTax" binding:"decimal_gte0"`
	Discount   decimal.Decimal   `json:"discount" binding:"decimal_gte0"`
	Shipping   decimal.Decimal   `json:"shipping" binding:"decimal_gte0"`
	Status     string            `json:"status"`
	Notes      *string           `json:"notes"`
}

// ToInput converts DTO to the domain input.
func (r *CreateSaleRequest) ToInput() (sale.CreateInput, error) {
	customerID, err := ParseID("customerId", r.CustomerID)
	if err != nil {
		return sale.CreateInput{}, err
	}

	var supplierID *id.ID
	if r.SupplierID != nil && *r.SupplierID != "" {
		v, err := ParseID("supplierId", *r.SupplierID)
		if err != nil {
			return sale.CreateInput{}, err
		}
		supplierID = &v
	}

	date, err := ParseDate("date", r.Date)
	if err != nil {
		return sale.CreateInput{}, err
	}

	items := make([]sale.ItemInput, len(r.Items))
	for i, it := range r.Items {
		batchID, err := ParseID("packagingBatchId", it.PackagingBatchID)
		if err != nil {
			return sale.CreateInput{}, err
		}
		items[i] = sale.ItemInput{
			PackagingBatchID: batchID,
			Quantity:         it.Quantity,
			Discount:         it.Discount,
			Tax:              it.Tax,
		}
	}

	return sale.CreateInput{
		CustomerID: customerID,
		SupplierID: supplierID,
		Date:       date,
		Items:      items,
		OrderTax:   r.OrderTax,
		Discount:   r.Discount,
		Shipping:   r.Shipping,
		Status:     r.Status,
		Notes:      r.Notes,
	}, nil
}

// UpdateSaleStatusRequest is the request body of PATCH /sales/:id/status.
type UpdateSaleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SaleListQuery filters GET /sales.
type SaleListQuery struct {
	PaginationRequest
	CustomerID string `form:"customerId"`
	Status     string `form:"status"`
}

// ToFilter converts the query into a domain filter.
func (q *SaleListQuery) ToFilter() (sale.ListFilter, error) {
	f := sale.ListFilter{ListFilter: q.Filter()}
	if q.CustomerID != "" {
		v, err := ParseID("customerId", q.CustomerID)
		if err != nil {
			return f, err
		}
		f.CustomerID = &v
	}
	if q.Status != "" {
		st, err := sale.ParseStatus(q.Status)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}
	return f, nil
}
