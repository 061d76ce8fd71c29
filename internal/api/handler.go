package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marketdash/marketdash/internal/domain/dto"
	"github.com/marketdash/marketdash/internal/forecast"
	"github.com/marketdash/marketdash/internal/fundamentals"
	"github.com/marketdash/marketdash/internal/metrics"
	"github.com/marketdash/marketdash/internal/pipeline"
	"github.com/marketdash/marketdash/internal/service"
)

// Handler provides the HTTP handlers for the four dashboard views.
//
// Responsibilities:
//   - Validate the two user inputs (ticker, horizon in years)
//   - Invoke the view orchestration service
//   - Map sentinel errors onto HTTP statuses, view-locally
type Handler struct {
	svc service.DashboardService
}

// NewHandler constructs a Handler around the dashboard service.
func NewHandler(svc service.DashboardService) *Handler {
	return &Handler{svc: svc}
}

const (
	minYears, maxYears = 1, 10
	defaultYears       = 1
)

// parseTicker validates the required ticker query parameter.
func parseTicker(c *gin.Context) (string, bool) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Query("ticker")))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("ticker is required", nil))
		return "", false
	}
	return ticker, true
}

// parseYears validates the optional years parameter, bounded [1,10]
// like the dashboard's horizon slider.
func parseYears(c *gin.Context) (int, bool) {
	s := c.Query("years")
	if s == "" {
		return defaultYears, true
	}
	years, err := strconv.Atoi(s)
	if err != nil || years < minYears || years > maxYears {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("years must be an integer between 1 and 10", err))
		return 0, false
	}
	return years, true
}

// respondError maps sentinel errors from the pipeline, metrics,
// forecast, and source layers onto HTTP statuses. Every error stays
// local to the view that produced it.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pipeline.ErrEmptyInput), errors.Is(err, fundamentals.ErrUnknownTicker):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("invalid or unknown ticker", err))
	case errors.Is(err, pipeline.ErrEmptyAfterCleaning),
		errors.Is(err, metrics.ErrEmptySeries),
		errors.Is(err, forecast.ErrTooFewObservations):
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse("not enough usable data for this view", err))
	case errors.Is(err, metrics.ErrUndefinedRatio):
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse("risk-adjusted return is undefined for this series", err))
	case errors.Is(err, fundamentals.ErrQuotaExceeded):
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse("fundamentals API limit exceeded", err))
	case errors.Is(err, fundamentals.ErrMissingAPIKey):
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("fundamentals API key not configured", err))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to build view", err))
	}
}

// GetOverview godoc
// @Summary      Stock overview
// @Description  Price history, day-over-day returns, and annualized return statistics for a ticker
// @Tags         overview
// @Produce      json
// @Param        ticker  query     string  true   "Stock ticker" example(AAPL)
// @Param        years   query     int     false  "Lookback in years (1-10)" example(3)
// @Success      200     {object}  dto.OverviewResponse   "Success"
// @Failure      400     {object}  dto.ErrorResponse      "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse      "Unknown ticker"
// @Failure      422     {object}  dto.ErrorResponse      "Not enough data"
// @Router       /api/v1/overview [get]
func (h *Handler) GetOverview(c *gin.Context) {
	ticker, ok := parseTicker(c)
	if !ok {
		return
	}
	years, ok := parseYears(c)
	if !ok {
		return
	}

	out, err := h.svc.Overview(c.Request.Context(), ticker, years)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetOverviewChart godoc
// @Summary      Price history chart
// @Description  PNG time-series chart of open, close, and adjusted close
// @Tags         overview
// @Produce      png
// @Param        ticker  query  string  true   "Stock ticker" example(AAPL)
// @Param        years   query  int     false  "Lookback in years (1-10)" example(3)
// @Success      200  {string}  binary                 "PNG image"
// @Failure      404  {object}  dto.ErrorResponse      "Unknown ticker"
// @Router       /api/v1/overview/chart [get]
func (h *Handler) GetOverviewChart(c *gin.Context) {
	ticker, ok := parseTicker(c)
	if !ok {
		return
	}
	years, ok := parseYears(c)
	if !ok {
		return
	}

	png, err := h.svc.OverviewChart(c.Request.Context(), ticker, years)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetForecast godoc
// @Summary      Price forecast
// @Description  Future-dated prediction with uncertainty bounds and component breakdown; horizon is years x 365 days
// @Tags         forecast
// @Produce      json
// @Param        ticker  query     string  true   "Stock ticker" example(AAPL)
// @Param        years   query     int     false  "Horizon in years (1-10)" example(1)
// @Success      200     {object}  dto.ForecastResponse   "Success"
// @Failure      400     {object}  dto.ErrorResponse      "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse      "Unknown ticker"
// @Failure      422     {object}  dto.ErrorResponse      "Not enough data"
// @Router       /api/v1/forecast [get]
func (h *Handler) GetForecast(c *gin.Context) {
	ticker, ok := parseTicker(c)
	if !ok {
		return
	}
	years, ok := parseYears(c)
	if !ok {
		return
	}

	out, err := h.svc.Forecast(c.Request.Context(), ticker, years)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetForecastChart godoc
// @Summary      Forecast chart
// @Description  PNG chart of observed history with the predicted path and uncertainty band
// @Tags         forecast
// @Produce      png
// @Param        ticker  query  string  true   "Stock ticker" example(AAPL)
// @Param        years   query  int     false  "Horizon in years (1-10)" example(1)
// @Success      200  {string}  binary                 "PNG image"
// @Failure      404  {object}  dto.ErrorResponse      "Unknown ticker"
// @Router       /api/v1/forecast/chart [get]
func (h *Handler) GetForecastChart(c *gin.Context) {
	ticker, ok := parseTicker(c)
	if !ok {
		return
	}
	years, ok := parseYears(c)
	if !ok {
		return
	}

	png, err := h.svc.ForecastChart(c.Request.Context(), ticker, years)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetFundamentals godoc
// @Summary      Annual financial statements
// @Description  Balance sheet, income statement, and cash flow statement, transposed into period columns
// @Tags         fundamentals
// @Produce      json
// @Param        ticker  query     string  true  "Stock ticker" example(AAPL)
// @Success      200     {object}  dto.FundamentalsResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse         "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse         "Unknown ticker"
// @Failure      502     {object}  dto.ErrorResponse         "Upstream quota exceeded"
// @Failure      503     {object}  dto.ErrorResponse         "API key not configured"
// @Router       /api/v1/fundamentals [get]
func (h *Handler) GetFundamentals(c *gin.Context) {
	ticker, ok := parseTicker(c)
	if !ok {
		return
	}

	out, err := h.svc.Fundamentals(c.Request.Context(), ticker)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetNews godoc
// @Summary      Recent headlines
// @Description  Up to ten recent articles with title and summary sentiment scores
// @Tags         news
// @Produce      json
// @Param        ticker  query     string  true  "Stock ticker" example(AAPL)
// @Success      200     {object}  dto.NewsResponse   "Success"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Router       /api/v1/news [get]
func (h *Handler) GetNews(c *gin.Context) {
	ticker, ok := parseTicker(c)
	if !ok {
		return
	}

	out, err := h.svc.News(c.Request.Context(), ticker)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
