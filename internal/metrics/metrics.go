// Package metrics implements the observability hooks with Prometheus
// collectors.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/netarc/pkg/observability"
)

const namespace = "netarc"

// Metrics holds the collectors. It implements every hook interface of the
// observability package.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec

	edgesRouted   prometheus.Counter
	iterations    prometheus.Histogram
	curvature     prometheus.Histogram
	exhausted     *prometheus.CounterVec
	edgesSkipped  prometheus.Counter
	cacheRequests *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.RouteHooks    = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Pipeline stages that failed.",
		}, []string{"stage"}),
		edgesRouted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_routed_total",
			Help:      "Edges routed.",
		}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "avoidance_iterations",
			Help:      "Avoidance iterations spent per edge.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 200, 400},
		}),
		curvature: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "edge_curvature",
			Help:      "Final curvature of routed edges.",
			Buckets:   prometheus.LinearBuckets(-15, 2.5, 13),
		}),
		exhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_exhausted_total",
			Help:      "Avoidance passes that gave up.",
		}, []string{"pass"}),
		edgesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_skipped_total",
			Help:      "Edges skipped because of a missing node.",
		}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by key type and result.",
		}, []string{"type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{"type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP responses by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request handling time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests being handled.",
		}),
	}
	reg.MustRegister(
		m.stageDuration, m.stageErrors,
		m.edgesRouted, m.iterations, m.curvature, m.exhausted, m.edgesSkipped,
		m.cacheRequests, m.cacheBytes,
		m.httpRequests, m.httpDuration, m.httpInFlight,
	)
	return m
}

// Install registers m as the global hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetRouteHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// =============================================================================
// Pipeline
// =============================================================================

func (m *Metrics) OnPlaceStart(context.Context, string, int) {}

func (m *Metrics) OnPlaceComplete(_ context.Context, _ string, d time.Duration, err error) {
	m.stage("place", d, err)
}

func (m *Metrics) OnRouteStart(context.Context, int, int) {}

func (m *Metrics) OnRouteComplete(_ context.Context, _ int, d time.Duration, err error) {
	m.stage("route", d, err)
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.stage("render", d, err)
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(name).Inc()
	}
}

// =============================================================================
// Route
// =============================================================================

func (m *Metrics) OnEdgeRouted(_ context.Context, _, _ string, curvature float64, iterations int) {
	m.edgesRouted.Inc()
	m.iterations.Observe(float64(iterations))
	m.curvature.Observe(curvature)
}

func (m *Metrics) OnSearchExhausted(_ context.Context, _, _, pass string) {
	m.exhausted.WithLabelValues(pass).Inc()
}

func (m *Metrics) OnEdgeSkipped(context.Context, string, string, string) {
	m.edgesSkipped.Inc()
}

// =============================================================================
// Cache
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// HTTP
// =============================================================================

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.httpInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
