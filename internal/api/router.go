package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/marketdash/marketdash/internal/middleware"
)

// NewRouter creates a Gin engine with all dashboard routes configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, RateLimiter).
//   - Adds request timeout handling (30 seconds; every view blocks on
//     at least one upstream data source).
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures the view routes under /api/v1.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered
//     in app.InitializeApp().
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(),
	)

	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/overview", handler.GetOverview)
		v1.GET("/overview/chart", handler.GetOverviewChart)
		v1.GET("/forecast", handler.GetForecast)
		v1.GET("/forecast/chart", handler.GetForecastChart)
		v1.GET("/fundamentals", handler.GetFundamentals)
		v1.GET("/news", handler.GetNews)
	}

	return router
}
