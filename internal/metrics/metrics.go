package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// IncidentsIngested считает результаты приема заявок: created, duplicate, invalid, error.
	IncidentsIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "incident_hub",
		Subsystem: "ingest",
		Name:      "reports_total",
		Help:      "Total number of submitted incident reports, labeled by outcome.",
	}, []string{"result"})

	StatusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "incident_hub",
		Subsystem: "ingest",
		Name:      "status_transitions_total",
		Help:      "Total number of applied incident status transitions, labeled by target status.",
	}, []string{"status"})

	SpatialQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "incident_hub",
		Subsystem: "spatial",
		Name:      "query_duration_seconds",
		Help:      "Time spent answering spatial queries.",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"query"})

	AggregationRebuilds = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "incident_hub",
		Subsystem: "aggregation",
		Name:      "rebuilds_total",
		Help:      "Total number of full rebuilds of derived indexes.",
	})

	// SyncActions считает исходы воспроизведения офлайн-очереди.
	SyncActions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "incident_hub",
		Subsystem: "sync",
		Name:      "actions_total",
		Help:      "Total number of replayed offline actions, labeled by outcome.",
	}, []string{"outcome"})

	WebhookDeliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "incident_hub",
		Subsystem: "webhook",
		Name:      "deliveries_total",
		Help:      "Total number of webhook delivery attempts, labeled by result.",
	}, []string{"result"})

	LiveClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "incident_hub",
		Subsystem: "realtime",
		Name:      "connected_clients",
		Help:      "Current number of websocket clients subscribed to the incident feed.",
	})
)

// Register регистрирует метрики в реестре Prometheus по умолчанию.
// Повторные вызовы безопасны.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			IncidentsIngested,
			StatusTransitions,
			SpatialQueryDuration,
			AggregationRebuilds,
			SyncActions,
			WebhookDeliveries,
			LiveClients,
		)
	})
}
