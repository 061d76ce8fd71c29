package api

import "github.com/gin-gonic/gin"

// HealthHandler provides liveness and readiness endpoints.
//
// Responsibilities:
//   - /healthz: Basic liveness probe (always returns 200 OK).
//   - /readyz: Readiness probe (depends on the market data source
//     being reachable, since every view needs at least one upstream).
type HealthHandler struct {
	probe func() error // Checks upstream reachability; nil means always ready
}

// NewHealthHandler constructs a HealthHandler with the provided probe.
func NewHealthHandler(probe func() error) *HealthHandler {
	return &HealthHandler{probe: probe}
}

// Register mounts the health and readiness endpoints into the router.
//
// Routes:
//   - GET /healthz: Always returns 200 OK.
//   - GET /readyz: Returns 200 OK if the probe succeeds, 503 otherwise.
func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/readyz", func(c *gin.Context) {
		if h.probe != nil && h.probe() != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})
}
