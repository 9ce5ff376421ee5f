// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"blendery/internal/domain/audit"
	"blendery/internal/domain/auth"
	"blendery/internal/domain/catalogs/customer"
	"blendery/internal/domain/catalogs/formula"
	"blendery/internal/domain/catalogs/material"
	"blendery/internal/domain/catalogs/supplier"
	"blendery/internal/domain/documents/batch"
	"blendery/internal/domain/documents/packaging"
	"blendery/internal/domain/documents/production"
	"blendery/internal/domain/documents/sale"
	"blendery/internal/domain/registers/history"
	"blendery/internal/domain/registers/readystock"
	"blendery/internal/domain/reports"
	"blendery/internal/infrastructure/cache"
	"blendery/internal/infrastructure/http/v1/dto"
	"blendery/internal/infrastructure/http/v1/handlers"
	"blendery/internal/infrastructure/http/v1/middleware"
	"blendery/pkg/logger"
)

// Services holds the domain services exposed over HTTP.
type Services struct {
	Auth       *auth.Service
	Materials  *material.Service
	Formulas   *formula.Service
	Customers  *customer.Service
	Suppliers  *supplier.Service
	Batches    *batch.Service
	Production *production.Service
	Packaging  *packaging.Service
	Sales      *sale.Service
	History    *history.Service
	ReadyStock *readystock.Service
	Reports    *reports.Service
	Audit      audit.Reader
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	AppName string

	// Mode is the gin mode (debug, release, test)
	Mode string

	Logger *logger.Logger

	// TokenValidator checks bearer tokens
	TokenValidator middleware.TokenValidator

	// Idempotency is nil when replay protection is disabled
	Idempotency cache.IdempotencyStore

	// HealthChecks are probed by /health/ready
	HealthChecks map[string]handlers.Pinger

	Services Services
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	if err := dto.RegisterValidators(); err != nil {
		cfg.Logger.Errorw("register validators", "error", err)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.AppName, cfg.HealthChecks)
	healthHandler.RegisterRoutes(router.Group("/health"))

	base := handlers.NewBaseHandler()
	svc := cfg.Services
	admin := middleware.RequireAdmin()

	api := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(base, svc.Auth)

		protectedAuth := api.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.TokenValidator))
		authHandler.RegisterRoutes(api.Group("/auth"), protectedAuth, admin)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.TokenValidator))

		// Must run after Auth: keys are scoped per user.
		if cfg.Idempotency != nil {
			protected.Use(middleware.Idempotency(cfg.Idempotency))
		}

		productionHandler := handlers.NewProductionHandler(base, svc.Production, svc.ReadyStock)
		productionHandler.RegisterReadyStockRoutes(protected.Group("/ready-stock"))

		mountResources(protected, admin, map[string]ResourceRoutes{
			"/materials":  handlers.NewMaterialHandler(base, svc.Materials, svc.History),
			"/formulas":   handlers.NewFormulaHandler(base, svc.Formulas),
			"/customers":  handlers.NewCustomerHandler(base, svc.Customers),
			"/suppliers":  handlers.NewSupplierHandler(base, svc.Suppliers),
			"/batches":    handlers.NewBatchHandler(base, svc.Batches),
			"/production": productionHandler,
			"/packaging":  handlers.NewPackagingHandler(base, svc.Packaging),
			"/sales":      handlers.NewSaleHandler(base, svc.Sales),
		})

		reportsHandler := handlers.NewReportsHandler(base, svc.Reports, svc.Audit)
		reportsHandler.RegisterRoutes(protected.Group("/reports"))
		protected.GET("/audit/:entity/:id", admin, reportsHandler.AuditTrail)
	}

	return router
}
