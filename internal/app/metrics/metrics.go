package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the process registry and the instruments the HTTP layer and
// services record into.
type Metrics struct {
	registry *prometheus.Registry

	HTTPInflight    prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	AuraShared      prometheus.Counter
	AuraReceived    prometheus.Counter
	TasksCompleted  prometheus.Counter
	AICalls         *prometheus.CounterVec
	ChatConnections prometheus.Gauge
}

// New builds the registry with go and process collectors pre-registered.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "aura"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		HTTPInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		AuraShared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shared_total",
			Help:      "Total aura points shared.",
		}),
		AuraReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "received_total",
			Help:      "Total aura points received.",
		}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_completed_total",
			Help:      "Wellness tasks completed.",
		}),
		AICalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_calls_total",
			Help:      "Model collaborator calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		ChatConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chat_connections",
			Help:      "Open companion chat connections.",
		}),
	}

	reg.MustRegister(
		m.HTTPInflight,
		m.HTTPRequests,
		m.HTTPDuration,
		m.AuraShared,
		m.AuraReceived,
		m.TasksCompleted,
		m.AICalls,
		m.ChatConnections,
	)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
