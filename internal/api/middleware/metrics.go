// Package middleware provides Echo middleware for marketsearch.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mvalldaura/marketsearch/internal/metrics"
)

// probeGauges lists operational endpoints and the gauge tracking their
// state. Probe and scrape traffic arrives every few seconds, so these paths
// stay out of the request histogram and counter entirely; paths with a
// gauge report 0/1 instead. /metrics has no gauge of its own.
var probeGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
	"/metrics": nil,
}

// Metrics returns Echo middleware that records request duration and count
// per method, path, and status. Probe endpoints update their gauge instead.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			if gauge, probe := probeGauges[path]; probe {
				err := next(c)
				if gauge != nil {
					status := c.Response().Status
					if status >= 200 && status < 300 {
						gauge.Set(1)
					} else {
						gauge.Set(0)
					}
				}
				return err
			}

			start := time.Now()
			err := next(c)
			elapsed := time.Since(start).Seconds()

			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, status).
				Observe(elapsed)
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, status).
				Inc()

			return err
		}
	}
}
