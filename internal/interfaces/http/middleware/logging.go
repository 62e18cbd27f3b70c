package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wardgate/wardgate/internal/infrastructure/metrics"
	"github.com/wardgate/wardgate/internal/shared/constants"
	"github.com/wardgate/wardgate/internal/shared/logger"
)

// RequestLogger logs every request and records it in the HTTP metrics. Paths are
// reported by route template so ids do not explode label cardinality.
func RequestLogger(log logger.Interface, collectors *metrics.Collectors) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		collectors.ObserveHTTP(c.Request.Method, route, status, latency)

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
			"body_size", c.Writer.Size(),
		}

		if requestID := c.GetHeader(constants.HeaderXRequestID); requestID != "" {
			args = append(args, "request_id", requestID)
		}

		if roleCode := c.GetString(constants.ContextKeyRoleCode); roleCode != "" {
			args = append(args, "role_code", roleCode)
		}

		switch {
		case status >= 500:
			log.Errorw("HTTP request completed with server error", args...)
		case status >= 400:
			log.Warnw("HTTP request completed with client error", args...)
		default:
			log.Debugw("HTTP request completed successfully", args...)
		}
	}
}
