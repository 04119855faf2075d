package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionGrantsTotal,
		subscriptionsExpiredTotal,
	)
}

var (
	subscriptionGrantsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_grants_total",
			Help: "Entitlement grants by kind (create/extend).",
		},
		[]string{"kind"},
	)

	subscriptionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Subscriptions flipped to expired by the sweeper.",
		},
	)
)

func IncSubscriptionGrant(kind string) {
	subscriptionGrantsTotal.WithLabelValues(norm(kind)).Inc()
}

func AddSubscriptionsExpired(n int64) {
	subscriptionsExpiredTotal.Add(float64(n))
}
