package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors_Record(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollectors(registry)

	c.ObserveCheck(OutcomeGranted, time.Millisecond)
	c.ObserveCheck(OutcomeGranted, time.Millisecond)
	c.ObserveCheck(OutcomeRoleNotFound, time.Millisecond)
	c.CacheHit()
	c.CacheMiss()
	c.CacheMiss()
	c.GrantWrites("bulk_grant", 3)
	c.GrantWrites("bulk_grant", 0)
	c.SeedRole(SeedCreated)
	c.ObserveHTTP(http.MethodGet, "/api/v1/rbac/roles", http.StatusOK, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ChecksTotal.WithLabelValues(OutcomeGranted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ChecksTotal.WithLabelValues(OutcomeRoleNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheHitsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.CacheMissesTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.GrantWritesTotal.WithLabelValues("bulk_grant")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SeedRolesTotal.WithLabelValues(SeedCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/rbac/roles", "200")))
}

func TestCollectors_NilIsNoop(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.ObserveCheck(OutcomeDenied, time.Millisecond)
		c.CacheHit()
		c.CacheMiss()
		c.GrantWrites("grant", 1)
		c.SeedRole(SeedFailed)
		c.ObserveHTTP("GET", "/", 200, time.Millisecond)
	})
}

func TestHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollectors(registry)
	c.ObserveCheck(OutcomeNoGrant, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `wardgate_checks_total{outcome="no_grant"} 1`)
}
