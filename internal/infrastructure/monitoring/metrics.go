// Package monitoring exposes Prometheus metrics for the desktop service.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	WindowsOpen     prometheus.Gauge
	WindowsCreated  prometheus.Counter
	ActionsTotal    *prometheus.CounterVec
	ActionsFailed   *prometheus.CounterVec
	BackendCalls    *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
	PollFailures    *prometheus.CounterVec
	Notifications   prometheus.Counter
	WSConnections   prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New creates metrics registered on the given registerer. Pass
// prometheus.DefaultRegisterer in production; a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		WindowsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "agentdesk_windows_open",
			Help: "Number of windows currently open",
		}),
		WindowsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "agentdesk_windows_created_total",
			Help: "Total windows created since start",
		}),
		ActionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentdesk_actions_total",
			Help: "Assistant actions dispatched by kind",
		}, []string{"action"}),
		ActionsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentdesk_actions_failed_total",
			Help: "Assistant actions that failed by kind",
		}, []string{"action"}),
		BackendCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentdesk_backend_calls_total",
			Help: "Backend API calls by endpoint and status",
		}, []string{"endpoint", "status"}),
		BackendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agentdesk_backend_duration_seconds",
			Help:    "Backend API call duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		PollFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentdesk_poll_failures_total",
			Help: "Background poll failures by loop",
		}, []string{"loop"}),
		Notifications: factory.NewCounter(prometheus.CounterOpts{
			Name: "agentdesk_notifications_total",
			Help: "Notifications surfaced to the desktop",
		}),
		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "agentdesk_ws_connections",
			Help: "Active WebSocket connections",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentdesk_http_requests_total",
			Help: "HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agentdesk_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}
