// Package handlers implements HTTP handlers for the marketsearch API.
package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ReadyFunc reports whether the service can take traffic. A nil error
// means ready.
type ReadyFunc func(ctx context.Context) error

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	ready ReadyFunc
}

// NewHealthHandler creates a new HealthHandler. ready may be nil, in which
// case readiness always succeeds.
func NewHealthHandler(ready ReadyFunc) *HealthHandler {
	return &HealthHandler{ready: ready}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz returns 200 if the service can reach its upstream, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if h.ready != nil {
		if err := h.ready(c.Request().Context()); err != nil {
			return c.JSON(
				http.StatusServiceUnavailable,
				map[string]string{"status": "unavailable"},
			)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
