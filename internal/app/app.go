package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketdash/marketdash/config"
	"github.com/marketdash/marketdash/internal/api"
	"github.com/marketdash/marketdash/internal/forecast"
	"github.com/marketdash/marketdash/internal/fundamentals"
	"github.com/marketdash/marketdash/internal/logger"
	"github.com/marketdash/marketdash/internal/marketdata"
	"github.com/marketdash/marketdash/internal/news"
	"github.com/marketdash/marketdash/internal/service"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the upstream clients (prices, statements, headlines).
//   - Initializes the service layer (business logic).
//   - Creates the HTTP handler layer to handle requests.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to release resources.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// One HTTP client shared by every upstream source
	httpClient := &http.Client{Timeout: 15 * time.Second}

	// Upstream clients
	market := marketdata.NewYahooSource(
		marketdata.WithBaseURL(cfg.MarketData.BaseURL),
		marketdata.WithHTTPClient(httpClient),
	)
	funds := fundamentals.NewClient(cfg.Fundamentals.APIKey,
		fundamentals.WithBaseURL(cfg.Fundamentals.BaseURL),
		fundamentals.WithHTTPClient(httpClient),
	)
	headlines := news.NewFeedSource(cfg.News.FeedURL)

	// Initialize service layer (business logic)
	svc := service.NewDashboardService(market, funds, headlines,
		forecast.NewSeasonalTrend(), cfg.Fundamentals.CacheTTL)

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc)

	// Setup Gin router with routes
	router := api.NewRouter(handler)

	// Register health and readiness probes. There is no stateful
	// backend to ping: readiness reduces to liveness.
	healthHandler := api.NewHealthHandler(nil)
	healthHandler.Register(router)

	// Cleanup resources on shutdown
	cleanup := func() {
		httpClient.CloseIdleConnections()
	}

	log := logger.C("app")
	log.Info().
		Str("marketdata_url", cfg.MarketData.BaseURL).
		Dur("fundamentals_cache_ttl", cfg.Fundamentals.CacheTTL).
		Msg("dependencies wired")

	return router, cleanup, nil
}
