package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(sideEffectsTotal)
}

var sideEffectsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "payment_side_effects_total",
		Help: "Post-payment side effects by effect and result (ok/error/dropped).",
	},
	[]string{"effect", "result"},
)

func IncSideEffect(effect, result string) {
	sideEffectsTotal.WithLabelValues(norm(effect), norm(result)).Inc()
}
