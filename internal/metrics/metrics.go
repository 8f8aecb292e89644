package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nepalilove",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nepalilove",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	SwipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nepalilove",
			Subsystem: "matching",
			Name:      "swipes_total",
			Help:      "Swipes recorded in the ledger",
		},
		[]string{"action"},
	)

	MatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nepalilove",
			Subsystem: "matching",
			Name:      "matches_total",
			Help:      "Matches created",
		},
	)

	MessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nepalilove",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Messages appended to conversations",
		},
	)

	RealtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nepalilove",
			Subsystem: "realtime",
			Name:      "connections",
			Help:      "Open realtime sockets",
		},
	)

	RealtimeDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nepalilove",
			Subsystem: "realtime",
			Name:      "deliveries_total",
			Help:      "Frames handed to client send buffers",
		},
		[]string{"event"},
	)

	RealtimeDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nepalilove",
			Subsystem: "realtime",
			Name:      "dropped_clients_total",
			Help:      "Clients disconnected because their send buffer was full",
		},
	)
)

func RecordRequest(method, route, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(durationSec)
}

func RecordSwipe(action string) {
	SwipesTotal.WithLabelValues(action).Inc()
}

func RecordMatch() {
	MatchesTotal.Inc()
}

func RecordMessage() {
	MessagesTotal.Inc()
}

func SetRealtimeConnections(count int) {
	RealtimeConnections.Set(float64(count))
}

func RecordDelivery(event string, count int) {
	if count <= 0 {
		return
	}
	RealtimeDeliveries.WithLabelValues(event).Add(float64(count))
}

func RecordDroppedClient() {
	RealtimeDropped.Inc()
}
