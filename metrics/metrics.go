// Package metrics exposes Prometheus collectors for the digsite service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors. One instance is created
// at startup and threaded into the components that record with it.
type Metrics struct {
	BoardsGenerated prometheus.Counter
	MovesTotal      *prometheus.CounterVec
	EventErrors     *prometheus.CounterVec
	ActiveParties   prometheus.Gauge
	ConnectedPeers  prometheus.Gauge
}

// New registers the digsite collectors with the given registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BoardsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "digsite",
			Name:      "boards_generated_total",
			Help:      "Total number of boards generated",
		}),
		MovesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "digsite",
			Name:      "moves_total",
			Help:      "Total number of move events by direction",
		}, []string{"direction"}),
		EventErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "digsite",
			Name:      "event_errors_total",
			Help:      "Total number of failed player events by kind",
		}, []string{"event"}),
		ActiveParties: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "digsite",
			Name:      "active_parties",
			Help:      "Number of live parties",
		}),
		ConnectedPeers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "digsite",
			Name:      "connected_peers",
			Help:      "Number of connected WebSocket clients",
		}),
	}
}

// NewNop returns collectors bound to a throwaway registry, for tests and
// callers that don't scrape.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
