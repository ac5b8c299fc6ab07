package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manthokha",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status class.",
		},
		[]string{"method", "route", "status"},
	)

	storeOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manthokha",
			Name:      "store_operations_total",
			Help:      "Catalog store calls by entity, operation and result.",
		},
		[]string{"entity", "op", "result"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manthokha",
			Name:      "notifications_total",
			Help:      "User-facing notifications by variant.",
		},
		[]string{"variant"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, storeOperations, notifications)
	})
}

func IncHTTP(method, route, status string) {
	httpRequests.WithLabelValues(method, route, status).Inc()
}

// ObserveStore counts one store call; a nil err is a success.
func ObserveStore(entity, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeOperations.WithLabelValues(entity, op, result).Inc()
}

func IncNotification(variant string) {
	notifications.WithLabelValues(variant).Inc()
}
