package dto

import (
	"github.com/shopspring/decimal"

	"blendery/internal/domain/documents/packaging"
)

// CreatePackagingRequest is the request body of POST /packaging.
type CreatePackagingRequest struct {
	ProductionRunID  string          `json:"productionRunId" binding:"required"`
	PackageSizeGrams decimal.Decimal `json:"packageSize" binding:"decimal_gt0"`
	NumberOfPackages int             `json:"numberOfPackages" binding:"required,gt=0"`
	PackagingDate    string          `json:"packagingDate"`
	ExpiryDate       *string         `json:"expiryDate"`
	Notes            *string         `json:"notes"`
}

// ToInput converts DTO to the domain input.
func (r *CreatePackagingRequest) ToInput() (packaging.CreateInput, error) {
	runID, err := ParseID("productionRunId", r.ProductionRunID)
	if err != nil {
		return packaging.CreateInput{}, err
	}
	packed, err := ParseDate("packagingDate", r.PackagingDate)
	if err != nil {
		return packaging.CreateInput{}, err
	}
	expires, err := ParseOptionalDate("expiryDate", r.ExpiryDate)
	if err != nil {
		return packaging.CreateInput{}, err
	}
	return packaging.CreateInput{
		ProductionRunID:  runID,
		PackageSizeGrams: r.PackageSizeGrams,
		NumberOfPackages: r.NumberOfPackages,
		PackagingDate:    packed,
		ExpiryDate:       expires,
		Notes:            r.Notes,
	}, nil
}

// PackagingListQuery filters GET /packaging.
type PackagingListQuery struct {
	PaginationRequest
	FormulaName   string `form:"formulaName"`
	BatchCode     string `form:"batchCode"`
	PackagingDate string `form:"packagingDate"`
}

// ToFilter converts the query into a domain filter.
func (q *PackagingListQuery) ToFilter() (packaging.ListFilter, error) {
	f := packaging.ListFilter{
		ListFilter:  q.Filter(),
		FormulaName: q.FormulaName,
		BatchCode:   q.BatchCode,
	}
	day, err := ParseOptionalDate("packagingDate", &q.PackagingDate)
	if err != nil {
		return f, err
	}
	f.PackagingDate = day
	return f, nil
}
