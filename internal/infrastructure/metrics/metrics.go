// Package metrics exposes the prometheus collectors of the authorization engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wardgate"

// Check outcomes.
const (
	OutcomeGranted      = "granted"
	OutcomeDenied       = "denied"
	OutcomeNoGrant      = "no_grant"
	OutcomeRoleInactive = "role_inactive"
	OutcomeRoleNotFound = "role_not_found"
	OutcomeError        = "error"
)

// Seed results.
const (
	SeedCreated = "created"
	SeedSkipped = "skipped"
	SeedFailed  = "failed"
)

// Collectors holds every metric. A nil *Collectors is valid and records nothing.
type Collectors struct {
	ChecksTotal         *prometheus.CounterVec
	CheckDuration       prometheus.Histogram
	CacheHitsTotal      prometheus.Counter
	CacheMissesTotal    prometheus.Counter
	GrantWritesTotal    *prometheus.CounterVec
	SeedRolesTotal      *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewCollectors creates the collectors and registers them, plus the Go runtime and
// process collectors, on registry.
func NewCollectors(registry *prometheus.Registry) *Collectors {
	c := &Collectors{
		ChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checks_total",
				Help:      "Total number of authorization checks by outcome",
			},
			[]string{"outcome"},
		),
		CheckDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "check_duration_seconds",
				Help:      "Authorization check latency in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "check_cache_hits_total",
				Help:      "Total number of check cache hits",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "check_cache_misses_total",
				Help:      "Total number of check cache misses",
			},
		),
		GrantWritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "grant_writes_total",
				Help:      "Total number of grant rows written by operation",
			},
			[]string{"operation"},
		),
		SeedRolesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "seed_roles_total",
				Help:      "Total number of seeded roles by result",
			},
			[]string{"result"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.ChecksTotal,
		c.CheckDuration,
		c.CacheHitsTotal,
		c.CacheMissesTotal,
		c.GrantWritesTotal,
		c.SeedRolesTotal,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
	)

	return c
}

func (c *Collectors) ObserveCheck(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.ChecksTotal.WithLabelValues(outcome).Inc()
	c.CheckDuration.Observe(elapsed.Seconds())
}

func (c *Collectors) CacheHit() {
	if c == nil {
		return
	}
	c.CacheHitsTotal.Inc()
}

func (c *Collectors) CacheMiss() {
	if c == nil {
		return
	}
	c.CacheMissesTotal.Inc()
}

func (c *Collectors) GrantWrites(operation string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.GrantWritesTotal.WithLabelValues(operation).Add(float64(n))
}

func (c *Collectors) SeedRole(result string) {
	if c == nil {
		return
	}
	c.SeedRolesTotal.WithLabelValues(result).Inc()
}

func (c *Collectors) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Handler serves the registry in the prometheus exposition format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
