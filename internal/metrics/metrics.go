// SPDX-License-Identifier: AGPL-3.0-only
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestsTotal counts inbound HTTP requests.
	RequestsTotal *prometheus.CounterVec

	// ToolCallsTotal counts tool invocations dispatched by the assistant.
	ToolCallsTotal *prometheus.CounterVec

	// CompletionDuration observes completion-service round-trip latency.
	CompletionDuration *prometheus.HistogramVec

	// ProvisionDuration observes the full three-step provisioning chain.
	ProvisionDuration *prometheus.HistogramVec
)

func init() {
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gateway_assistant",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"method", "status"},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gateway_assistant",
			Subsystem: "agent",
			Name:      "tool_calls_total",
			Help:      "Total tool invocations dispatched",
		},
		[]string{"tool", "status"},
	)

	CompletionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gateway_assistant",
			Subsystem: "agent",
			Name:      "completion_duration_seconds",
			Help:      "Completion service round-trip duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)

	ProvisionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gateway_assistant",
			Subsystem: "gateway",
			Name:      "provision_duration_seconds",
			Help:      "Resource provisioning chain duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"status"},
	)

	prometheus.MustRegister(RequestsTotal, ToolCallsTotal, CompletionDuration, ProvisionDuration)
}

// RecordRequest increments the HTTP request counter.
func RecordRequest(method, status string) {
	RequestsTotal.WithLabelValues(method, status).Inc()
}

// RecordToolCall increments the tool invocation counter.
func RecordToolCall(tool, status string) {
	ToolCallsTotal.WithLabelValues(tool, status).Inc()
}
