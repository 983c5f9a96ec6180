package metrics

import "github.com/prometheus/client_golang/prometheus"

// BroadcastMetrics holds Prometheus metrics for the fan-out pipeline.
type BroadcastMetrics struct {
	Broadcasts     *prometheus.CounterVec
	ClientsReached *prometheus.HistogramVec
}

// NewBroadcastMetrics creates and registers broadcast metrics on the given registry.
func NewBroadcastMetrics(reg prometheus.Registerer) *BroadcastMetrics {
	m := &BroadcastMetrics{
		Broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Total number of broadcasts, by event and result.",
		}, []string{"event", "result"}),
		ClientsReached: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "broadcast_clients_reached",
			Help:      "Number of connections a broadcast was handed to.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		}, []string{"event"}),
	}

	reg.MustRegister(m.Broadcasts, m.ClientsReached)
	return m
}

// Observe records the outcome of one broadcast.
func (m *BroadcastMetrics) Observe(event string, reached int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Broadcasts.WithLabelValues(event, "error").Inc()
		return
	}
	m.Broadcasts.WithLabelValues(event, "ok").Inc()
	m.ClientsReached.WithLabelValues(event).Observe(float64(reached))
}
