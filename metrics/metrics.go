// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for relation changes
const (
	OutcomeOK        = "ok"
	OutcomeDuplicate = "duplicate"
	OutcomeMissing   = "missing"
	OutcomeRejected  = "rejected"
	OutcomeError     = "error"
)

// Metrics groups the application collectors and the registry they live in
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests          *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	RelationChanges       *prometheus.CounterVec
	ShoppingListDownloads prometheus.Counter
}

// New creates the collectors on a private registry, so tests can build as many as they like
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RelationChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relation_changes_total",
				Help: "Favorite, shopping cart and subscription changes by outcome",
			},
			[]string{"relation", "action", "outcome"},
		),
		ShoppingListDownloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "shopping_list_downloads_total",
				Help: "Total number of shopping lists downloaded",
			},
		),
	}

	m.Registry.MustRegister(
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.RelationChanges,
		m.ShoppingListDownloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RelationChanged records an add or remove on a join relation
func (m *Metrics) RelationChanged(relation, action, outcome string) {
	m.RelationChanges.WithLabelValues(relation, action, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
