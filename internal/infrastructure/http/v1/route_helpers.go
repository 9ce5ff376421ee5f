package v1

import (
	"github.com/gin-gonic/gin"
)

// ResourceRoutes is implemented by every resource handler.
// admin is the guard for destructive routes.
type ResourceRoutes interface {
	RegisterRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc)
}

// mountResources registers each handler under its path prefix.
//
// Usage:
//
//	mountResources(protected, admin, map[string]ResourceRoutes{
//		"/materials": materialHandler,
//		"/batches":   batchHandler,
//	})
func mountResources(rg *gin.RouterGroup, admin gin.HandlerFunc, resources map[string]ResourceRoutes) {
	for path, h := range resources {
		h.RegisterRoutes(rg.Group(path), admin)
	}
}
