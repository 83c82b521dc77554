package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ Events = (*eventsMetrics)(nil)

type eventsMetrics struct {
	published     *prometheus.CounterVec
	publishFailed *prometheus.CounterVec
}

func newEventsMetrics(registry *promRegistry) *eventsMetrics {
	published := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of published checkout events",
		},
		[]string{"topic"},
	)

	failed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_publish_failures_total",
			Help: "Total number of failed event publishes by reason",
		},
		[]string{"topic", "reason"},
	)

	registry.registry.MustRegister(published, failed)

	return &eventsMetrics{
		published:     published,
		publishFailed: failed,
	}
}

func (m *eventsMetrics) Published(topic string) {
	m.published.WithLabelValues(topic).Add(1)
}

func (m *eventsMetrics) PublishFailed(topic string, reason string) {
	m.publishFailed.WithLabelValues(topic, reason).Add(1)
}
