package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Payment webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)

	OrderStoreDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_store_duration_seconds",
			Help:    "Latency of the mark-paid round trip to the order store",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	OrderPaidNotifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_paid_notifications_total",
			Help: "Order paid notifications by result",
		},
		[]string{"result"},
	)
)

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		WebhookEventsTotal,
		OrderStoreDuration,
		OrderPaidNotifications,
	)
}
