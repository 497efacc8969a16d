package controllers

import (
	"context"
	"net/http"
)

// HealthChecker reports whether storage can serve reads.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// GeneralController handles the health and metrics endpoints.
type GeneralController struct {
	health  HealthChecker
	metrics http.Handler
}

// NewGeneralController creates a new general controller. A nil metrics
// handler leaves /metrics unregistered.
func NewGeneralController(health HealthChecker, metrics http.Handler) *GeneralController {
	return &GeneralController{health: health, metrics: metrics}
}

// RegisterRoutes registers general routes with the given mux.
//
// This method sets up HTTP endpoints for:
// - Health checks (/v1/healthz)
// - Prometheus metrics (/metrics), when enabled
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/healthz", c.handleHealth)
	if c.metrics != nil {
		mux.Handle("GET /metrics", c.metrics)
	}
}

// handleHealth returns the health status of the service.
//
// Returns 200 OK with {"status": "ok"} if healthy, 503 Service Unavailable otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.health.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, healthResponse{Status: "ok"})
}
