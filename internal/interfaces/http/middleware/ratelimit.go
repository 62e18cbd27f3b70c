package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wardgate/wardgate/internal/shared/constants"
	"github.com/wardgate/wardgate/internal/shared/logger"
	"github.com/wardgate/wardgate/internal/shared/utils"
)

type rateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit answers 429 once a caller exceeds its window. Callers are keyed by token
// subject when authenticated and by client IP otherwise. Limiter failures let the
// request through.
func RateLimit(limiter rateLimiter, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if subject := c.GetString(constants.ContextKeySubject); subject != "" {
			key = "sub:" + subject
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warnw("rate limiter unavailable", "error", err, "key", key)
			c.Next()
			return
		}
		if !allowed {
			log.Warnw("rate limit exceeded", "key", key, "path", c.FullPath())
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
