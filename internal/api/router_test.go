package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/marketdash/marketdash/internal/domain/dto"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewHandler(&mockDashService{})
	r := NewRouter(h)

	// Hit the overview route through the router created by NewRouter
	req := httptest.NewRequest(http.MethodGet, "/api/v1/overview?ticker=ACME&years=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body=%s)", w.Code, w.Body.String())
	}

	// Ensure RequestID middleware injected header
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	var out dto.OverviewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.Ticker != "ACME" {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestNewRouter_AllViewRoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockDashService{}))

	paths := []string{
		"/api/v1/overview?ticker=ACME",
		"/api/v1/overview/chart?ticker=ACME",
		"/api/v1/forecast?ticker=ACME",
		"/api/v1/forecast/chart?ticker=ACME",
		"/api/v1/fundamentals?ticker=ACME",
		"/api/v1/news?ticker=ACME",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code == http.StatusNotFound {
			t.Fatalf("%s not registered", path)
		}
	}
}
