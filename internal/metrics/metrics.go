// Package metrics defines the Prometheus collectors exported on /metrics.
// Collectors live in their own registry so tests never touch global state.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	RateLimited    prometheus.Counter
	Comparisons    prometheus.Counter
	BuildWarnings  prometheus.Gauge
	BuildWatts     prometheus.Gauge
	CatalogQueries *prometheus.CounterVec
}

// New creates and registers every collector.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rigplanner",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rigplanner",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rigplanner",
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		Comparisons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rigplanner",
			Name:      "comparisons_total",
			Help:      "Comparison tables built.",
		}),
		BuildWarnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rigplanner",
			Name:      "build_warnings",
			Help:      "Compatibility warnings on the current build.",
		}),
		BuildWatts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rigplanner",
			Name:      "build_estimated_watts",
			Help:      "Estimated draw of the current build in watts.",
		}),
		CatalogQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rigplanner",
			Name:      "catalog_queries_total",
			Help:      "Catalog browse queries by slot kind.",
		}, []string{"slot"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.RateLimited,
		m.Comparisons,
		m.BuildWarnings,
		m.BuildWatts,
		m.CatalogQueries,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveBuild records the derived values of the current build.
func (m *Metrics) ObserveBuild(watts float64, warnings int) {
	if m == nil {
		return
	}
	m.BuildWatts.Set(watts)
	m.BuildWarnings.Set(float64(warnings))
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
