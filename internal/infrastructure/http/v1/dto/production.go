package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/domain/documents/production"
)

// CreateRunRequest is the request body of POST /production.
type CreateRunRequest struct {
	FormulaID string          `json:"formulaId" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
}

// UpdateRunStatusRequest is the request body of PATCH /production/:id/status.
// Version is optional; when given, a stale read is rejected.
type UpdateRunStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Version int    `json:"version" binding:"omitempty,min=1"`
}

// RunListQuery filters GET /production.
type RunListQuery struct {
	PaginationRequest
	Status string `form:"status"`
}

// ToFilter converts the query into a domain filter.
func (q *RunListQuery) ToFilter() (production.ListFilter, error) {
	f := production.ListFilter{ListFilter: q.Filter()}
	if q.Status == "" {
		return f, nil
	}
	st := production.Status(strings.ToLower(strings.TrimSpace(q.Status)))
	switch st {
	case production.StatusPending, production.StatusComplete, production.StatusCancel:
		f.Status = &st
		return f, nil
	}
	return f, apperror.NewValidation("invalid status filter").
		WithDetail("field", "status").
		WithDetail("value", q.Status)
}
