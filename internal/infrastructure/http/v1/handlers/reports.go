package handlers

import (
	"github.com/gin-gonic/gin"

	"blendery/internal/domain/audit"
	"blendery/internal/domain/reports"
	"blendery/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles read-only reports and the audit journal.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
	audit   audit.Reader
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service, journal audit.Reader) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
		audit:       journal,
	}
}

// StockValuation handles GET /reports/stock-valuation
func (h *ReportsHandler) StockValuation(c *gin.Context) {
	var req dto.StockValuationRequest
	if !h.BindQuery(c, &req) {
		return
	}

	report, err := h.service.GetStockValuation(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Stock valuation retrieved", report)
}

// StockTurnover handles GET /reports/stock-turnover
func (h *ReportsHandler) StockTurnover(c *gin.Context) {
	var req dto.StockTurnoverRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetStockTurnover(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Stock turnover retrieved", report)
}

// AuditTrail handles GET /audit/:entity/:id
func (h *ReportsHandler) AuditTrail(c *gin.Context) {
	entityID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var q struct {
		Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
	}
	if !h.BindQuery(c, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = 100
	}

	entries, err := h.audit.History(c.Request.Context(), c.Param("entity"), entityID, q.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}

	h.OK(c, "Audit trail retrieved", entries)
}

// RegisterRoutes mounts /reports.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stock-valuation", h.StockValuation)
	rg.GET("/stock-turnover", h.StockTurnover)
}
