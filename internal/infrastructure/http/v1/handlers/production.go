package handlers

import (
	"github.com/gin-gonic/gin"

	"blendery/internal/domain/documents/production"
	"blendery/internal/domain/registers/readystock"
	"blendery/internal/infrastructure/http/v1/dto"
)

// ProductionHandler handles /production and /ready-stock.
type ProductionHandler struct {
	*BaseHandler
	service    *production.Service
	readyStock *readystock.Service
}

// NewProductionHandler creates a production handler.
func NewProductionHandler(base *BaseHandler, svc *production.Service, ready *readystock.Service) *ProductionHandler {
	return &ProductionHandler{BaseHandler: base, service: svc, readyStock: ready}
}

// Create handles POST /production.
func (h *ProductionHandler) Create(c *gin.Context) {
	var req dto.CreateRunRequest
	if !h.BindJSON(c, &req) {
		return
	}

	formulaID, err := dto.ParseID("formulaId", req.FormulaID)
	if err != nil {
		h.Error(c, err)
		return
	}

	run, err := h.service.Create(c.Request.Context(), formulaID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, "Production run created", run)
}

// List handles GET /production?status=.
func (h *ProductionHandler) List(c *gin.Context) {
	var q dto.RunListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Production runs retrieved", dto.NewListResponse(res, q.Page))
}

// Get handles GET /production/:id.
func (h *ProductionHandler) Get(c *gin.Context) {
	runID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	run, err := h.service.GetByID(c.Request.Context(), runID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Production run retrieved", run)
}

// Details handles GET /production/:id/details.
func (h *ProductionHandler) Details(c *gin.Context) {
	runID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	d, err := h.service.Details(c.Request.Context(), runID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Production run details retrieved", d)
}

// UpdateStatus handles PATCH /production/:id/status.
func (h *ProductionHandler) UpdateStatus(c *gin.Context) {
	runID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateRunStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	run, err := h.service.UpdateStatus(c.Request.Context(), runID, req.Status, req.Version)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Production run status updated", run)
}

// ReadyStock handles GET /ready-stock.
func (h *ProductionHandler) ReadyStock(c *gin.Context) {
	items, err := h.readyStock.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Ready stock retrieved", items)
}

// ReadyStockByFormula handles GET /ready-stock/:formulaId.
func (h *ProductionHandler) ReadyStockByFormula(c *gin.Context) {
	formulaID, ok := h.PathID(c, "formulaId")
	if !ok {
		return
	}

	rs, err := h.readyStock.GetByFormula(c.Request.Context(), formulaID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Ready stock retrieved", rs)
}

// RegisterRoutes mounts /production.
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/details", h.Details)
	rg.PATCH("/:id/status", h.UpdateStatus)
}

// RegisterReadyStockRoutes mounts /ready-stock.
func (h *ProductionHandler) RegisterReadyStockRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ReadyStock)
	rg.GET("/:formulaId", h.ReadyStockByFormula)
}
