package handlers

import (
	"github.com/gin-gonic/gin"

	"blendery/internal/domain/documents/sale"
	"blendery/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles /sales.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a sale handler.
func NewSaleHandler(base *BaseHandler, svc *sale.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: svc}
}

// Create handles POST /sales.
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	s, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, "Sale created", s)
}

// List handles GET /sales.
func (h *SaleHandler) List(c *gin.Context) {
	var q dto.SaleListQuery
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

	h.OK(c, "Sales retrieved", dto.NewListResponse(res, q.Page))
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Sale retrieved", s)
}

// UpdateStatus handles PATCH /sales/:id/status.
func (h *SaleHandler) UpdateStatus(c *gin.Context) {
	saleID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSaleStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s, err := h.service.UpdateStatus(c.Request.Context(), saleID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Sale status updated", s)
}

// RegisterRoutes mounts /sales.
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id/status", h.UpdateStatus)
}
