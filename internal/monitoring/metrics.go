package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics.
//
// Each collector owns a private registry so multiple instances can
// coexist in one process (tests, embedded servers).
type Metrics struct {
	// Protocol metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Tool dispatch metrics
	ToolCalls    *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec

	// Transport metrics
	FramingErrors     prometheus.Counter
	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter

	// HTTP metrics (websocket mode)
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector backed by its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),
		registry:  reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fileio_requests_total",
				Help: "Total number of JSON-RPC requests",
			},
			[]string{"method", "code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fileio_request_duration_seconds",
				Help:    "JSON-RPC request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method"},
		),

		ToolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fileio_tool_calls_total",
				Help: "Total number of tool invocations",
			},
			[]string{"tool", "outcome"},
		),
		ToolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fileio_tool_duration_seconds",
				Help:    "Tool invocation duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"tool"},
		),

		FramingErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fileio_framing_errors_total",
				Help: "Total number of framing errors that closed a connection",
			},
		),
		ConnectionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fileio_connections_active",
				Help: "Number of active client connections",
			},
		),
		ConnectionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fileio_connections_total",
				Help: "Total number of client connections accepted",
			},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fileio_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fileio_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fileio_uptime_seconds",
				Help: "Server uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

// Handler exposes this collector's registry in Prometheus format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// updateUptime continuously updates the uptime metric.
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordRequest records a JSON-RPC request outcome. code is "ok" or the
// numeric protocol error code as a string.
func (m *Metrics) RecordRequest(method, code string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, code).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordToolCall records a tool invocation outcome.
func (m *Metrics) RecordToolCall(tool, outcome string, duration time.Duration) {
	m.ToolCalls.WithLabelValues(tool, outcome).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordFramingError records a connection-fatal framing error.
func (m *Metrics) RecordFramingError() {
	m.FramingErrors.Inc()
}

// ConnectionOpened records a newly accepted connection.
func (m *Metrics) ConnectionOpened() {
	m.ConnectionsTotal.Inc()
	m.ConnectionsActive.Inc()
}

// ConnectionClosed records a torn-down connection.
func (m *Metrics) ConnectionClosed() {
	m.ConnectionsActive.Dec()
}
