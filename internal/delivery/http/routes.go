package http

import (
	"github.com/gin-gonic/gin"
	"github.com/shelflens/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		ocr := v1.Group("/ocr")
		{
			ocr.POST("/extract", handler.ExtractText)
		}

		products := v1.Group("/products")
		{
			products.POST("/search", handler.SearchProducts)
			products.POST("/locate", handler.LocateStores)
		}
	}

	return router
}
