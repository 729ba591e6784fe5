// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"bleuims/internal/domain/batch"
	"bleuims/internal/domain/material"
	"bleuims/internal/domain/sale"
	"bleuims/internal/infrastructure/http/v1/handlers"
	"bleuims/internal/infrastructure/http/v1/middleware"
	"bleuims/internal/infrastructure/storage/postgres"
	"bleuims/pkg/logger"
)

// Role names recognized by the identity service.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleCashier = "cashier"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// Introspector validates bearer tokens against the identity service
	Introspector middleware.TokenIntrospector

	// MaterialService provides the material ledger
	MaterialService *material.Service

	// BatchService provides the batch recorder
	BatchService *batch.Service

	// SaleService provides sale-driven deduction
	SaleService *sale.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()
	materialHandler := handlers.NewMaterialHandler(baseHandler, cfg.MaterialService)
	batchHandler := handlers.NewBatchHandler(baseHandler, cfg.BatchService)
	saleHandler := handlers.NewSaleHandler(baseHandler, cfg.SaleService)

	// Every inventory endpoint requires a valid token; roles differ per route.
	protected := router.Group("")
	protected.Use(middleware.Auth(cfg.Introspector))

	inventoryRoles := middleware.RequireRole(RoleAdmin, RoleManager, RoleStaff)
	// Dashboard and point-of-sale endpoints are also open to cashiers.
	dashboardRoles := middleware.RequireRole(RoleAdmin, RoleManager, RoleStaff, RoleCashier)

	materials := protected.Group("/materials")
	{
		materials.GET("", inventoryRoles, materialHandler.List)
		materials.POST("", inventoryRoles, materialHandler.Create)
		materials.PUT("/:materialId", inventoryRoles, materialHandler.Update)
		materials.DELETE("/:materialId", inventoryRoles, materialHandler.Delete)

		materials.GET("/count", inventoryRoles, materialHandler.Count)
		materials.GET("/stock-status-counts", dashboardRoles, materialHandler.StockStatusCounts)
		materials.GET("/low-stock-alerts", dashboardRoles, materialHandler.LowStockAlerts)

		materials.POST("/deduct-from-sale", dashboardRoles, saleHandler.DeductFromSale)
	}

	batches := protected.Group("/material-batches")
	{
		batches.GET("", inventoryRoles, batchHandler.ListAll)
		batches.POST("", inventoryRoles, batchHandler.Create)
		batches.GET("/:materialId", inventoryRoles, batchHandler.ListByMaterial)
		batches.PUT("/:batchId", inventoryRoles, batchHandler.Update)
	}

	return router
}
