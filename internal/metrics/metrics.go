// Package metrics exposes Prometheus metrics for the phobost server on a
// private registry: request counts and latency per route, markdown
// conversion volume, lifecycle state, plus Go runtime and process collectors.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentstation/phobost/pkg/constants"
)

const namespace = constants.ServiceName

// routeUnmatched labels requests for paths outside the route set.
const routeUnmatched = "unmatched"

// knownRoutes bounds the route label cardinality.
var knownRoutes = map[string]bool{
	"/":                       true,
	constants.PathDocs:        true,
	constants.PathDocs + "/":  true,
	constants.PathOpenAPIJSON: true,
	constants.PathOpenAPIYAML: true,
	constants.PathMetrics:     true,
	"/favicon.ico":            true,
	"/v1/health":              true,
	"/v1/md2html":             true,
}

// Metrics holds the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	MarkdownBytes   prometheus.Counter
	HTMLBytes       prometheus.Counter
	Conversions     prometheus.Counter
	ServiceState    prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		MarkdownBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "markdown",
			Name:      "input_bytes_total",
			Help:      "Total markdown bytes received for conversion",
		}),

		HTMLBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "markdown",
			Name:      "output_bytes_total",
			Help:      "Total HTML bytes produced by conversion",
		}),

		Conversions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "markdown",
			Name:      "conversions_total",
			Help:      "Total number of markdown conversions",
		}),

		ServiceState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "state",
			Help:      "Lifecycle state (0=running, 1=shutting down, 2=terminated)",
		}),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.MarkdownBytes,
		m.HTMLBytes,
		m.Conversions,
		m.ServiceState,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, latency time.Duration) {
	route := RouteLabel(path)
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}

// ObserveConversion records one markdown conversion.
func (m *Metrics) ObserveConversion(inputBytes, outputBytes int) {
	m.Conversions.Inc()
	m.MarkdownBytes.Add(float64(inputBytes))
	m.HTMLBytes.Add(float64(outputBytes))
}

// SetState records the lifecycle state as its numeric value.
func (m *Metrics) SetState(state int) {
	m.ServiceState.Set(float64(state))
}

// RouteLabel maps a request path onto a bounded set of route labels.
func RouteLabel(path string) string {
	if knownRoutes[path] {
		return path
	}
	if strings.HasPrefix(path, constants.PathPrefixV1+"/") {
		return constants.PathPrefixV1 + "/*"
	}
	if strings.HasPrefix(path, constants.PathDocs+"/") {
		return constants.PathDocs + "/"
	}
	return routeUnmatched
}
