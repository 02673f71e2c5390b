package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs failed HTTP requests; successful ones are covered by metrics.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		requestID := GetRequestID(c)
		status := c.Writer.Status()
		latency := time.Since(start)

		switch {
		case status >= 500:
			logger.Error(
				"http_request_error",
				slog.String("request_id", requestID),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.Int("status", status),
				slog.Duration("latency", latency),
			)
		case status >= 400:
			logger.Warn(
				"http_request_warning",
				slog.String("request_id", requestID),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.Int("status", status),
			)
		}
	}
}
