package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/learnmap/pkg/metrics"
)

const readyTimeout = 2 * time.Second

// HealthHandler handles liveness, readiness and metrics requests.
type HealthHandler struct {
	ready   Pinger
	metrics http.Handler
}

// NewHealthHandler creates a new health handler. A nil pinger is always ready.
func NewHealthHandler(ready Pinger) *HealthHandler {
	return &HealthHandler{
		ready:   ready,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

type statusResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

// HandleReady handles GET /readyz. It answers 503 while the storage backend
// cannot be reached.
func (h *HealthHandler) HandleReady(c *gin.Context) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		if err := h.ready.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, statusResponse{Status: "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

// HandleMetrics handles GET /metrics from our custom registry.
func (h *HealthHandler) HandleMetrics(c *gin.Context) {
	h.metrics.ServeHTTP(c.Writer, c.Request)
}
