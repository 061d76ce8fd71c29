package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/marketdash/marketdash/internal/domain/dto"
	"github.com/marketdash/marketdash/internal/domain/models"
	"github.com/marketdash/marketdash/internal/fundamentals"
	"github.com/marketdash/marketdash/internal/metrics"
	"github.com/marketdash/marketdash/internal/pipeline"
	"github.com/marketdash/marketdash/internal/service"
)

// mockDashService implements service.DashboardService; every view
// returns the configured error, or a minimal valid response.
type mockDashService struct {
	err error
}

func (m *mockDashService) Overview(_ context.Context, ticker string, _ int) (*dto.OverviewResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.OverviewResponse{
		Ticker:     ticker,
		PriceField: string(models.FieldAdjustedClose),
		Metrics:    models.MetricsSummary{AnnualReturnPct: 31.5, StdDevPct: 21.3, RiskAdjustedReturnPct: 148.0},
	}, nil
}

func (m *mockDashService) OverviewChart(_ context.Context, _ string, _ int) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func (m *mockDashService) Forecast(_ context.Context, ticker string, years int) (*dto.ForecastResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ForecastResponse{Ticker: ticker, HorizonDays: years * 365}, nil
}

func (m *mockDashService) ForecastChart(_ context.Context, _ string, _ int) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func (m *mockDashService) Fundamentals(_ context.Context, ticker string) (*dto.FundamentalsResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.FundamentalsResponse{Ticker: ticker}, nil
}

func (m *mockDashService) News(_ context.Context, ticker string) (*dto.NewsResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.NewsResponse{Ticker: ticker}, nil
}

var _ service.DashboardService = (*mockDashService)(nil)

func setupRouterWithMock(s service.DashboardService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s)
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/overview", h.GetOverview)
	v1.GET("/overview/chart", h.GetOverviewChart)
	v1.GET("/forecast", h.GetForecast)
	v1.GET("/forecast/chart", h.GetForecastChart)
	v1.GET("/fundamentals", h.GetFundamentals)
	v1.GET("/news", h.GetNews)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandlers_InputValidation(t *testing.T) {
	r := setupRouterWithMock(&mockDashService{})

	cases := []struct {
		name string
		path string
		want int
	}{
		{name: "overview missing ticker", path: "/api/v1/overview", want: http.StatusBadRequest},
		{name: "overview blank ticker", path: "/api/v1/overview?ticker=%20%20", want: http.StatusBadRequest},
		{name: "overview years too low", path: "/api/v1/overview?ticker=ACME&years=0", want: http.StatusBadRequest},
		{name: "overview years too high", path: "/api/v1/overview?ticker=ACME&years=11", want: http.StatusBadRequest},
		{name: "overview years not a number", path: "/api/v1/overview?ticker=ACME&years=abc", want: http.StatusBadRequest},
		{name: "overview years default", path: "/api/v1/overview?ticker=ACME", want: http.StatusOK},
		{name: "forecast missing ticker", path: "/api/v1/forecast", want: http.StatusBadRequest},
		{name: "fundamentals missing ticker", path: "/api/v1/fundamentals", want: http.StatusBadRequest},
		{name: "news missing ticker", path: "/api/v1/news", want: http.StatusBadRequest},
		{name: "chart missing ticker", path: "/api/v1/overview/chart", want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := get(r, tc.path); w.Code != tc.want {
				t.Fatalf("status %d, want %d (body=%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestHandlers_TickerNormalized(t *testing.T) {
	r := setupRouterWithMock(&mockDashService{})
	w := get(r, "/api/v1/overview?ticker=acme&years=3")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	var out dto.OverviewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Ticker != "ACME" {
		t.Fatalf("ticker = %q, want upper-cased ACME", out.Ticker)
	}
}

func TestHandlers_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "unknown ticker", err: pipeline.ErrEmptyInput, want: http.StatusNotFound},
		{name: "empty after cleaning", err: pipeline.ErrEmptyAfterCleaning, want: http.StatusUnprocessableEntity},
		{name: "undefined ratio", err: metrics.ErrUndefinedRatio, want: http.StatusUnprocessableEntity},
		{name: "unknown ticker fundamentals", err: fundamentals.ErrUnknownTicker, want: http.StatusNotFound},
		{name: "quota exceeded", err: fundamentals.ErrQuotaExceeded, want: http.StatusBadGateway},
		{name: "missing api key", err: fundamentals.ErrMissingAPIKey, want: http.StatusServiceUnavailable},
		{name: "unexpected", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(&mockDashService{err: tc.err})
			for _, path := range []string{
				"/api/v1/overview?ticker=ACME",
				"/api/v1/forecast?ticker=ACME",
				"/api/v1/fundamentals?ticker=ACME",
			} {
				w := get(r, path)
				if w.Code != tc.want {
					t.Fatalf("%s: status %d, want %d", path, w.Code, tc.want)
				}
				var body dto.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("%s: invalid error json: %v", path, err)
				}
				if body.Message == "" {
					t.Fatalf("%s: empty error message", path)
				}
			}
		})
	}
}

func TestHandlers_ChartContentType(t *testing.T) {
	r := setupRouterWithMock(&mockDashService{})
	for _, path := range []string{
		"/api/v1/overview/chart?ticker=ACME&years=2",
		"/api/v1/forecast/chart?ticker=ACME&years=2",
	} {
		w := get(r, path)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "image/png" {
			t.Fatalf("%s: content-type %q, want image/png", path, ct)
		}
	}
}
