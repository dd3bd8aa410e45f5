package server

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v5"
)

// maxQueryLogLen is the maximum length for logged query strings before truncation.
const maxQueryLogLen = 200

// slowRequestThreshold is the duration above which requests are logged at WARN level.
const slowRequestThreshold = 100 * time.Millisecond

// RequestLogger returns middleware that logs all requests with timing.
// Slow requests (>100ms) are logged at WARN level.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)

			attrs := []any{
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"duration_ms", duration.Milliseconds(),
			}
			if query := c.Request().URL.RawQuery; query != "" {
				attrs = append(attrs, "query", truncate(query, maxQueryLogLen))
			}

			if err != nil {
				attrs = append(attrs, "error", err.Error())
				logger.Error("request failed", attrs...)
			} else if duration > slowRequestThreshold {
				logger.Warn("slow request", attrs...)
			} else {
				logger.Debug("request completed", attrs...)
			}

			return err
		}
	}
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
