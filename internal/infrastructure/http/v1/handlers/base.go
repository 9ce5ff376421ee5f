// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/infrastructure/http/v1/dto"
	"blendery/internal/infrastructure/http/v1/middleware"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// PathID parses a uuid path parameter. On failure the error is
// registered and ok is false.
func (h *BaseHandler) PathID(c *gin.Context, name string) (id.ID, bool) {
	v, err := id.Parse(c.Param(name))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("param", name))
		return id.Nil(), false
	}
	return v, true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func (h *BaseHandler) respond(c *gin.Context, status int, message string, data any) {
	body := dto.NewResponse(status, message, data)
	middleware.CompleteIdempotency(c, status, "application/json", body)
	c.JSON(status, body)
}

// Created sends 201 with data.
func (h *BaseHandler) Created(c *gin.Context, message string, data any) {
	h.respond(c, http.StatusCreated, message, data)
}

// OK sends 200 with data.
func (h *BaseHandler) OK(c *gin.Context, message string, data any) {
	h.respond(c, http.StatusOK, message, data)
}
