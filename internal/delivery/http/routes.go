package http

import (
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/nutripoints/backend/config"
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
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	if cfg.RateLimit.PerIP > 0 {
		router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	}

	// Static landing page
	if cfg.Server.StaticDir != "" {
		router.StaticFile("/", filepath.Join(cfg.Server.StaticDir, "index.html"))
	}

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Application endpoints. The paths are part of the front-end contract.
	router.GET("/search", handler.SearchFoods)
	router.POST("/calculate", handler.CalculatePoints)

	return router
}
