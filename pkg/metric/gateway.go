package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Gateway = (*gatewayMetrics)(nil)

type gatewayMetrics struct {
	tokenRequests *prometheus.CounterVec
	tokenFailures *prometheus.CounterVec
	tokenDuration *prometheus.HistogramVec
}

func newGatewayMetrics(registry *promRegistry) *gatewayMetrics {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_token_requests_total",
			Help: "Total number of token requests to the payment gateway",
		},
		[]string{"outcome"},
	)

	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_token_failures_total",
			Help: "Total number of failed token requests by reason",
		},
		[]string{"reason"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_token_request_duration_seconds",
			Help:    "Duration of token requests to the payment gateway in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"outcome"},
	)

	registry.registry.MustRegister(requests, failures, duration)

	return &gatewayMetrics{
		tokenRequests: requests,
		tokenFailures: failures,
		tokenDuration: duration,
	}
}

func (m *gatewayMetrics) TokenRequest(outcome string, duration time.Duration) {
	m.tokenRequests.WithLabelValues(outcome).Add(1)
	m.tokenDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *gatewayMetrics) TokenFailure(reason string) {
	m.tokenFailures.WithLabelValues(reason).Add(1)
}
