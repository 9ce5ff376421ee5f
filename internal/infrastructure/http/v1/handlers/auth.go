package handlers

import (
	"github.com/gin-gonic/gin"

	"blendery/internal/core/apperror"
	appctx "blendery/internal/core/context"
	"blendery/internal/core/id"
	"blendery/internal/domain/auth"
	"blendery/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves login and user management.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login exchanges email and password for an access token.
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}

	// Tokens must not end up in shared caches.
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	h.OK(c, "Login successful", dto.NewLoginResponse(token, user))
}

// Me returns the account behind the bearer token.
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	u := appctx.GetUser(ctx)
	if u == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}
	userID, err := id.Parse(u.UserID)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid token subject"))
		return
	}

	user, err := h.service.GetUserByID(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "User retrieved", dto.FromUser(user))
}

// CreateUser registers a new account. Admin only.
// POST /auth/users
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req.ToAuthRequest())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "User created", dto.FromUser(user))
}

// RegisterRoutes mounts login on public and the rest on protected.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup, admin gin.HandlerFunc) {
	public.POST("/login", h.Login)

	protected.GET("/me", h.Me)
	protected.POST("/users", admin, h.CreateUser)
}
