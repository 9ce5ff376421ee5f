package handlers

import (
	"github.com/gin-gonic/gin"

	"blendery/internal/domain/documents/packaging"
	"blendery/internal/infrastructure/http/v1/dto"
)

// PackagingHandler handles /packaging.
type PackagingHandler struct {
	*BaseHandler
	service *packaging.Service
}

// NewPackagingHandler creates a packaging handler.
func NewPackagingHandler(base *BaseHandler, svc *packaging.Service) *PackagingHandler {
	return &PackagingHandler{BaseHandler: base, service: svc}
}

// Create handles POST /packaging.
func (h *PackagingHandler) Create(c *gin.Context) {
	var req dto.CreatePackagingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, "Packaging batch created", b)
}

// List handles GET /packaging?formulaName=&batchCode=&packagingDate=.
func (h *PackagingHandler) List(c *gin.Context) {
	var q dto.PackagingListQuery
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

	h.OK(c, "Packaging batches retrieved", dto.NewListResponse(res, q.Page))
}

// Get handles GET /packaging/:id.
func (h *PackagingHandler) Get(c *gin.Context) {
	batchID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Packaging batch retrieved", b)
}

// RegisterRoutes mounts /packaging.
func (h *PackagingHandler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
}
