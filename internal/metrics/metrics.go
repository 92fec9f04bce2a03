// Package metrics exposes Prometheus instrumentation for the content controller.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "echohive"

// Mutation results
const (
	ResultApplied  = "applied"
	ResultRejected = "rejected"
	ResultMissing  = "missing"
	ResultDeclined = "declined"
)

// Metrics holds the controller metrics
type Metrics struct {
	Mutations       *prometheus.CounterVec
	PersistWrites   *prometheus.CounterVec
	PersistFailures *prometheus.CounterVec
	LoadFallbacks   *prometheus.CounterVec
	RotationTicks   prometheus.Counter
	CollectionSize  prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers the controller metrics on reg. A fresh registry is used when reg is nil.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Collection mutations by operation and result",
		}, []string{"op", "result"}),
		PersistWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_writes_total",
			Help:      "Write-through operations to the key-value store",
		}, []string{"key"}),
		PersistFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Failed key-value store operations",
		}, []string{"op"}),
		LoadFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_fallbacks_total",
			Help:      "Startup loads that fell back to defaults",
		}, []string{"reason"}),
		RotationTicks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rotation_ticks_total",
			Help:      "Slideshow advances",
		}),
		CollectionSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_items",
			Help:      "Items in the collection",
		}),
		gatherer: reg,
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Mutation counts one mutation attempt
func (m *Metrics) Mutation(op, result string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op, result).Inc()
}
