package dto

import (
	"blendery/internal/domain/catalogs/material"
)

// CreateMaterialRequest is the request body for creating a material.
// Stock and cost aggregates are not accepted from clients.
type CreateMaterialRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Unit        string  `json:"unit"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateMaterialRequest) ToEntity() *material.Material {
	m := material.NewMaterial(r.Code, r.Name)
	m.Description = r.Description
	if r.Unit != "" {
		m.Unit = r.Unit
	}
	return m
}

// BulkMaterialItem is one entry of a bulk create. Name and code are
// checked by the service so invalid entries are skipped, not rejected.
type BulkMaterialItem struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Unit        string  `json:"unit"`
}

// BulkCreateMaterialsRequest is the request body of POST /materials/bulk.
type BulkCreateMaterialsRequest struct {
	Materials []BulkMaterialItem `json:"materials" binding:"required"`
}

// ToEntities converts DTO to domain entities.
func (r *BulkCreateMaterialsRequest) ToEntities() []*material.Material {
	out := make([]*material.Material, len(r.Materials))
	for i, it := range r.Materials {
		req := CreateMaterialRequest(it)
		out[i] = req.ToEntity()
	}
	return out
}

// UpdateMaterialRequest changes descriptive fields only.
type UpdateMaterialRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Unit        string  `json:"unit"`
	Version     int     `json:"version" binding:"omitempty,min=1"`
}

// ToDetails converts DTO to the domain update.
func (r *UpdateMaterialRequest) ToDetails() material.Details {
	return material.Details{
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Unit:        r.Unit,
	}
}

// HistoryQuery filters the history log of a material.
type HistoryQuery struct {
	Type string `form:"type"`
}
