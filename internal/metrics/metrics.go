package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the webhook reconciler.
var (
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Webhook deliveries by processing outcome",
		},
		[]string{"outcome"},
	)

	SignatureFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_signature_failures_total",
			Help: "Deliveries rejected for an invalid signature",
		},
	)

	OrderTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Successful order state transitions",
		},
		[]string{"to_status"},
	)

	ConsistencyViolationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consistency_violations_total",
			Help: "Guard checks that blocked a transition, by kind",
		},
		[]string{"kind"},
	)

	UnconfirmedAcksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unconfirmed_acks_total",
			Help: "Deliveries acknowledged despite a storage failure",
		},
	)

	GatewayConfirmDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gateway_confirm_duration_seconds",
			Help:    "Latency of server-to-server confirmation calls",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all reconciler metrics with the default registry.
func Register() {
	prometheus.MustRegister(WebhookEventsTotal)
	prometheus.MustRegister(SignatureFailuresTotal)
	prometheus.MustRegister(OrderTransitionsTotal)
	prometheus.MustRegister(ConsistencyViolationsTotal)
	prometheus.MustRegister(UnconfirmedAcksTotal)
	prometheus.MustRegister(GatewayConfirmDuration)
}
