package middleware

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// healthPaths are probe endpoints whose repeated successes are suppressed
// from the request log. Failures are always logged.
var healthPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header and echo context.
//
// Probe paths (/healthz, /readyz) log the first success and every failure;
// consecutive successes are dropped to keep the log readable.
func RequestLog(logger *log.Logger) echo.MiddlewareFunc {
	var mu sync.Mutex
	lastOK := make(map[string]bool)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			method := c.Request().Method
			path := c.Request().URL.Path
			status := c.Response().Status

			fields := []any{
				"method", method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			}

			if _, probe := healthPaths[path]; probe {
				ok := status >= 200 && status < 300

				mu.Lock()
				suppress := ok && lastOK[path]
				lastOK[path] = ok
				mu.Unlock()

				if suppress {
					return err
				}
				if !ok {
					logger.Warn("request", fields...)
					return err
				}
			}

			logger.Info("request", fields...)

			return err
		}
	}
}
