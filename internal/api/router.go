package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fitstack/telebirr-payments/internal/observability/logger"
	"github.com/fitstack/telebirr-payments/internal/observability/metrics"
)

// RouterConfig holds the router settings.
type RouterConfig struct {
	GinMode       string
	ServiceAPIKey string
}

// SetupRouter configures the Gin router with all routes and middleware.
func SetupRouter(handler *Handler, cfg RouterConfig, log *zap.Logger, m *metrics.Collector) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()

	// Request id first so the access log can see it.
	router.Use(RequestIDMiddleware())
	router.Use(logger.GinMiddleware(log))
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())
	router.Use(metrics.GinMiddleware(m))

	// Health check and metrics (no auth required)
	router.GET("/health", handler.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(ServiceAuthMiddleware(cfg.ServiceAPIKey))
	{
		payments := v1.Group("/payments")
		{
			payments.POST("/start", handler.StartPayment)
			payments.POST("/validate", handler.ValidatePayment)
			payments.GET("/app-installed", handler.AppInstalled)
			payments.GET("/configuration", handler.Configuration)
		}

		v1.POST("/plugin/validate", handler.ValidatePlugin)
	}

	return router
}
