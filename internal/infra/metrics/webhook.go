package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		webhookRequestsTotal,
		webhookDuration,
	)
}

var (
	webhookRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payme_webhook_requests_total",
			Help: "Webhook RPC calls by method and outcome (ok/error code).",
		},
		[]string{"method", "outcome"},
	)

	webhookDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payme_webhook_duration_seconds",
			Help:    "Webhook RPC handling duration by method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func IncWebhookRequest(method, outcome string) {
	webhookRequestsTotal.WithLabelValues(norm(method), norm(outcome)).Inc()
}

func ObserveWebhookDuration(method string, seconds float64) {
	webhookDuration.WithLabelValues(norm(method)).Observe(seconds)
}
