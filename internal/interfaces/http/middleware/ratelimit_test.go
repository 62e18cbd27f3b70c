package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/wardgate/wardgate/internal/interfaces/http/handlers/testutil"
	"github.com/wardgate/wardgate/internal/shared/constants"
)

type countingLimiter struct {
	limit int
	seen  map[string]int
	err   error
}

func (l *countingLimiter) Allow(_ context.Context, key string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.seen[key]++
	return l.seen[key] <= l.limit, nil
}

func newRateLimitEngine(limiter rateLimiter, subject string) *gin.Engine {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if subject != "" {
			c.Set(constants.ContextKeySubject, subject)
		}
	}, RateLimit(limiter, testutil.NewMockLogger()))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func TestRateLimit(t *testing.T) {
	limiter := &countingLimiter{limit: 2, seen: map[string]int{}}
	engine := newRateLimitEngine(limiter, "u-7")

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 3, limiter.seen["sub:u-7"])
}

func TestRateLimit_AnonymousKeyedByIP(t *testing.T) {
	limiter := &countingLimiter{limit: 10, seen: map[string]int{}}
	engine := newRateLimitEngine(limiter, "")

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	engine.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1, limiter.seen["ip:10.1.2.3"])
}

func TestRateLimit_FailsOpen(t *testing.T) {
	engine := newRateLimitEngine(&countingLimiter{err: errors.New("redis down")}, "u-7")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
