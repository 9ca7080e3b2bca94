// Package metrics exposes Prometheus metrics for an editing session: node
// and edge counts, connection verdicts and socket event handling.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/simgraph/internal/connection"
	"github.com/vk/simgraph/internal/graph"
	"github.com/vk/simgraph/internal/node"
)

// Registry holds all metrics for the application.
type Registry struct {
	// Model Metrics
	NodesTotal    *prometheus.GaugeVec
	EdgesTotal    prometheus.Gauge
	VerdictsTotal *prometheus.CounterVec

	// Transport Metrics
	EventsTotal      *prometheus.CounterVec
	EventDuration    *prometheus.HistogramVec
	ClientsConnected prometheus.Gauge

	registry *prometheus.Registry
}

var _ graph.Observer = (*Registry)(nil)

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initModelMetrics()
	r.initTransportMetrics()
	return r
}

func (r *Registry) initModelMetrics() {
	r.NodesTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "simgraph_nodes",
			Help: "Current number of nodes in the model",
		},
		[]string{"kind"},
	)

	r.EdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "simgraph_edges",
			Help: "Current number of edges in the model",
		},
	)

	r.VerdictsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "simgraph_connection_verdicts_total",
			Help: "Total number of connection validations by outcome",
		},
		[]string{"reason"},
	)
}

func (r *Registry) initTransportMetrics() {
	r.EventsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "simgraph_socket_events_total",
			Help: "Total number of socket events handled",
		},
		[]string{"event", "status"},
	)

	r.EventDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "simgraph_socket_event_duration_seconds",
			Help:    "Socket event handling latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event"},
	)

	r.ClientsConnected = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "simgraph_socket_clients",
			Help: "Current number of connected editor clients",
		},
	)
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Registry) NodeCreated(kind node.Kind) {
	r.NodesTotal.WithLabelValues(string(kind)).Inc()
}

func (r *Registry) NodeDeleted(kind node.Kind) {
	r.NodesTotal.WithLabelValues(string(kind)).Dec()
}

func (r *Registry) EdgeVerdict(res connection.Result) {
	reason := "accepted"
	if !res.Valid {
		reason = string(res.Reason)
	}
	r.VerdictsTotal.WithLabelValues(reason).Inc()
}

func (r *Registry) EdgesChanged(total int) {
	r.EdgesTotal.Set(float64(total))
}

// RecordEvent records one handled socket event.
func (r *Registry) RecordEvent(event, status string, duration time.Duration) {
	r.EventsTotal.WithLabelValues(event, status).Inc()
	r.EventDuration.WithLabelValues(event).Observe(duration.Seconds())
}
