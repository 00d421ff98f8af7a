// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	rpcRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "splitogram",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Total number of RPCs handled.",
		},
		[]string{"procedure", "code"},
	)

	rpcDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "splitogram",
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "Duration of RPCs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"procedure"},
	)

	settlementTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "splitogram",
			Subsystem: "settlement",
			Name:      "transitions_total",
			Help:      "Settlement status transitions by target status.",
		},
		[]string{"status"},
	)

	oracleCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "splitogram",
			Subsystem: "oracle",
			Name:      "calls_total",
			Help:      "Verification oracle calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	oracleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "splitogram",
			Subsystem: "oracle",
			Name:      "call_duration_seconds",
			Help:      "Duration of verification oracle calls.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 11), // 10ms to ~10s
		},
		[]string{"operation"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "splitogram",
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Notification deliveries by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	Registry.MustRegister(
		rpcRequests,
		rpcDuration,
		settlementTransitions,
		oracleCalls,
		oracleDuration,
		notifications,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRPC records one finished RPC.
func ObserveRPC(procedure, code string, elapsed time.Duration) {
	rpcRequests.WithLabelValues(procedure, code).Inc()
	rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// SettlementTransition counts a settlement moving to status.
func SettlementTransition(status string) {
	settlementTransitions.WithLabelValues(status).Inc()
}

// ObserveOracleCall records one verification oracle call.
func ObserveOracleCall(operation, outcome string, elapsed time.Duration) {
	oracleCalls.WithLabelValues(operation, outcome).Inc()
	oracleDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// NotificationDelivered counts a notification delivery attempt outcome.
func NotificationDelivered(outcome string) {
	notifications.WithLabelValues(outcome).Inc()
}
