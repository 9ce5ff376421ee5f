package handlers

import (
	"github.com/gin-gonic/gin"

	"blendery/internal/domain/catalogs/material"
	"blendery/internal/domain/registers/history"
	"blendery/internal/infrastructure/http/v1/dto"
)

// MaterialHandler handles /materials.
type MaterialHandler struct {
	*CatalogHandler[*material.Material, dto.CreateMaterialRequest, dto.UpdateMaterialRequest]
	service *material.Service
	history *history.Service
}

// NewMaterialHandler creates a material handler.
func NewMaterialHandler(base *BaseHandler, svc *material.Service, hist *history.Service) *MaterialHandler {
	return &MaterialHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*material.Material, dto.CreateMaterialRequest, dto.UpdateMaterialRequest]{
			Service: svc.CatalogService,
			Label:   "Material",
			MapCreateDTO: func(req dto.CreateMaterialRequest) (*material.Material, error) {
				return req.ToEntity(), nil
			},
		}),
		service: svc,
		history: hist,
	}
}

// Update handles PUT /materials/:id. Only descriptive fields change.
func (h *MaterialHandler) Update(c *gin.Context) {
	materialID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.service.UpdateDetails(c.Request.Context(), materialID, req.Version, req.ToDetails())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "Material updated", m)
}

// BulkCreate handles POST /materials/bulk.
func (h *MaterialHandler) BulkCreate(c *gin.Context) {
	var req dto.BulkCreateMaterialsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	res, err := h.service.BulkCreate(c.Request.Context(), req.ToEntities())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, "Materials imported", res)
}

// History handles GET /materials/:id/history?type=IN|OUT|DELETE.
func (h *MaterialHandler) History(c *gin.Context) {
	materialID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var q dto.HistoryQuery
	if !h.BindQuery(c, &q) {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.service.GetByID(ctx, materialID); err != nil {
		h.Error(c, err)
		return
	}

	entries, err := h.history.ListByMaterial(ctx, materialID, q.Type)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "History retrieved", entries)
}

// RegisterRoutes mounts /materials.
func (h *MaterialHandler) RegisterRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/bulk", h.BulkCreate)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", admin, h.Delete)
	rg.GET("/:id/history", h.History)
}
