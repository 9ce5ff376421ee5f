package handlers

import (
	"github.com/gin-gonic/gin"

	"blendery/internal/domain/documents/batch"
	"blendery/internal/infrastructure/http/v1/dto"
)

// BatchHandler handles /batches.
type BatchHandler struct {
	*BaseHandler
	service *batch.Service
}

// NewBatchHandler creates a batch handler.
func NewBatchHandler(base *BaseHandler, svc *batch.Service) *BatchHandler {
	return &BatchHandler{BaseHandler: base, service: svc}
}

// Add handles POST /batches.
func (h *BatchHandler) Add(c *gin.Context) {
	var req dto.AddBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	b, err := h.service.AddBatch(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, "Batch added", b)
}

// List handles GET /batches.
func (h *BatchHandler) List(c *gin.Context) {
	var q dto.BatchListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := batch.ListFilter{ListFilter: q.Filter()}
	if q.MaterialID != "" {
		materialID, err := dto.ParseID("materialId", q.MaterialID)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.MaterialID = &materialID
	}

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Batches retrieved", dto.NewListResponse(res, q.Page))
}

// Get handles GET /batches/:id.
func (h *BatchHandler) Get(c *gin.Context) {
	batchID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), batchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Batch retrieved", b)
}

// Delete handles DELETE /batches/:id.
func (h *BatchHandler) Delete(c *gin.Context) {
	batchID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteBatch(c.Request.Context(), batchID); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Batch deleted", dto.IDResponse{ID: batchID.String()})
}

// RegisterRoutes mounts /batches.
func (h *BatchHandler) RegisterRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Add)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", admin, h.Delete)
}
