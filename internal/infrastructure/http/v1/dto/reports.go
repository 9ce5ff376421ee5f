package dto

import (
	"blendery/internal/core/id"
	"blendery/internal/domain/reports"
)

// StockValuationRequest represents request for the stock valuation report.
type StockValuationRequest struct {
	Search      string `form:"search"`
	ExcludeZero bool   `form:"excludeZero"`
}

// ToFilter converts DTO to the domain filter.
func (r *StockValuationRequest) ToFilter() reports.StockValuationFilter {
	return reports.StockValuationFilter{
		Search:      r.Search,
		ExcludeZero: r.ExcludeZero,
	}
}

// StockTurnoverRequest represents request for the stock turnover report.
type StockTurnoverRequest struct {
	FromDate    string   `form:"fromDate" binding:"required"`
	ToDate      string   `form:"toDate" binding:"required"`
	MaterialIDs []string `form:"materialId"`
	IncludeZero bool     `form:"includeZero"`
}

// ToFilter converts DTO to the domain filter.
func (r *StockTurnoverRequest) ToFilter() (reports.StockTurnoverFilter, error) {
	from, err := ParseDate("fromDate", r.FromDate)
	if err != nil {
		return reports.StockTurnoverFilter{}, err
	}
	to, err := ParseDate("toDate", r.ToDate)
	if err != nil {
		return reports.StockTurnoverFilter{}, err
	}

	ids := make([]id.ID, 0, len(r.MaterialIDs))
	for _, s := range r.MaterialIDs {
		v, err := ParseID("materialId", s)
		if err != nil {
			return reports.StockTurnoverFilter{}, err
		}
		ids = append(ids, v)
	}

	return reports.StockTurnoverFilter{
		FromDate:    from,
		ToDate:      to,
		MaterialIDs: ids,
		IncludeZero: r.IncludeZero,
	}, nil
}
