package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bridgectl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bridgectl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	wsConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "bridgectl",
			Subsystem: "ws",
			Name:      "connections_active",
			Help:      "Open websocket connections by negotiated codec.",
		},
		[]string{"node", "codec"},
	)
	wireMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bridgectl",
			Subsystem: "wire",
			Name:      "messages_total",
			Help:      "Interpreted and emitted protocol envelopes.",
		},
		[]string{"node", "direction", "codec", "op"},
	)
	protocolErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bridgectl",
			Subsystem: "wire",
			Name:      "protocol_errors_total",
			Help:      "Envelopes dropped for malformed payloads or bad fields.",
		},
		[]string{"node", "codec", "kind"},
	)
	unhandledOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bridgectl",
			Subsystem: "wire",
			Name:      "unhandled_ops_total",
			Help:      "Envelopes carrying an op outside the vocabulary.",
		},
		[]string{"node", "codec"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			wsConnections,
			wireMessages,
			protocolErrors,
			unhandledOps,
		)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordConnectionOpened(node, codec string) {
	RegisterMetrics()
	wsConnections.WithLabelValues(node, codec).Inc()
}

func RecordConnectionClosed(node, codec string) {
	RegisterMetrics()
	wsConnections.WithLabelValues(node, codec).Dec()
}

func RecordWireMessage(node, direction, codec, op string) {
	RegisterMetrics()
	wireMessages.WithLabelValues(node, direction, codec, op).Inc()
}

func RecordProtocolError(node, codec, kind string) {
	RegisterMetrics()
	protocolErrors.WithLabelValues(node, codec, kind).Inc()
}

func RecordUnhandledOp(node, codec string) {
	RegisterMetrics()
	unhandledOps.WithLabelValues(node, codec).Inc()
}
