package handlers

import (
	"github.com/gin-gonic/gin"

	"blendery/internal/domain/catalogs/formula"
	"blendery/internal/infrastructure/http/v1/dto"
)

// FormulaHandler handles /formulas. Formulas are immutable once created.
type FormulaHandler struct {
	*BaseHandler
	service *formula.Service
}

// NewFormulaHandler creates a formula handler.
func NewFormulaHandler(base *BaseHandler, svc *formula.Service) *FormulaHandler {
	return &FormulaHandler{BaseHandler: base, service: svc}
}

// Create handles POST /formulas.
func (h *FormulaHandler) Create(c *gin.Context) {
	var req dto.CreateFormulaRequest
	if !h.BindJSON(c, &req) {
		return
	}

	f, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), f); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, "Formula created", f)
}

// List handles GET /formulas.
func (h *FormulaHandler) List(c *gin.Context) {
	var q dto.PaginationRequest
	if !h.BindQuery(c, &q) {
		return
	}

	res, err := h.service.List(c.Request.Context(), q.Filter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Formulas retrieved", dto.NewListResponse(res, q.Page))
}

// Get handles GET /formulas/:id.
func (h *FormulaHandler) Get(c *gin.Context) {
	formulaID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	f, err := h.service.GetByID(c.Request.Context(), formulaID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Formula retrieved", f)
}

// Delete handles DELETE /formulas/:id.
func (h *FormulaHandler) Delete(c *gin.Context) {
	formulaID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), formulaID); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Formula deleted", dto.IDResponse{ID: formulaID.String()})
}

// RegisterRoutes mounts /formulas.
func (h *FormulaHandler) RegisterRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", admin, h.Delete)
}
