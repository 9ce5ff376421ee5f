// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"strings"
	"time"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/domain"
)

// --- Envelope ---

// Response is the success envelope of every endpoint.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// NewResponse wraps data in the success envelope.
func NewResponse(statusCode int, message string, data any) Response {
	return Response{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    true,
	}
}

// --- Pagination ---

// PaginationRequest contains pagination parameters.
type PaginationRequest struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Search string `form:"search"`
}

// Defaults sets default pagination values.
func (p *PaginationRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = 20
	}
}

// Filter converts the request into a domain list filter.
func (p *PaginationRequest) Filter() domain.ListFilter {
	p.Defaults()
	f := domain.Page(p.Page, p.Limit)
	f.Search = p.Search
	return f
}

// ListResponse wraps one page of results.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}

// NewListResponse builds a page from a domain list result.
func NewListResponse[T any](res domain.ListResult[T], page int) ListResponse[T] {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items:      items,
		TotalCount: res.TotalCount,
		Page:       page,
		Limit:      res.Limit,
	}
}

// IDResponse for operations that only return an id.
type IDResponse struct {
	ID string `json:"id"`
}

// --- Dates ---

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date.
// Empty input yields the zero time.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperror.NewValidation("invalid date").
		WithDetail("field", field).
		WithDetail("value", s)
}

// ParseOptionalDate is ParseDate returning nil for empty input.
func ParseOptionalDate(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseID parses a required id field.
func ParseID(field, s string) (id.ID, error) {
	v, err := id.Parse(s)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid id format").WithDetail("field", field)
	}
	return v, nil
}
