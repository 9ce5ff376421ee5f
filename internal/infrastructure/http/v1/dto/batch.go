package dto

import (
	"github.com/shopspring/decimal"

	"blendery/internal/domain/documents/batch"
)

// AddBatchRequest is the request body of POST /batches.
type AddBatchRequest struct {
	MaterialID      string          `json:"materialId" binding:"required"`
	Category        string          `json:"category" binding:"required"`
	Unit            string          `json:"unit" binding:"required"`
	BatchCode       string          `json:"batchCode" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice" binding:"decimal_gt0"`
	TransportCharge decimal.Decimal `json:"transportCharge" binding:"decimal_gte0"`
	Supplier        string          `json:"supplier" binding:"required"`
	PurchaseDate    string          `json:"purchaseDate" binding:"required"`
	ExpiryDate      string          `json:"expiryDate" binding:"required"`
}

// ToInput converts DTO to the domain input.
func (r *AddBatchRequest) ToInput() (batch.AddInput, error) {
	materialID, err := ParseID("materialId", r.MaterialID)
	if err != nil {
		return batch.AddInput{}, err
	}
	purchased, err := ParseDate("purchaseDate", r.PurchaseDate)
	if err != nil {
		return batch.AddInput{}, err
	}
	expires, err := ParseDate("expiryDate", r.ExpiryDate)
	if err != nil {
		return batch.AddInput{}, err
	}
	return batch.AddInput{
		MaterialID:      materialID,
		Category:        r.Category,
		Unit:            r.Unit,
		BatchCode:       r.BatchCode,
		Quantity:        r.Quantity,
		PurchasePrice:   r.PurchasePrice,
		TransportCharge: r.TransportCharge,
		Supplier:        r.Supplier,
		PurchaseDate:    purchased,
		ExpiryDate:      expires,
	}, nil
}

// BatchListQuery filters GET /batches.
type BatchListQuery struct {
	PaginationRequest
	MaterialID string `form:"materialId"`
}
