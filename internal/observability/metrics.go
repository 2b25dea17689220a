package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Total number of HTTP requests that ended in a mapped error.",
		},
		[]string{"method", "path", "code"},
	)

	classifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_classifications_total",
			Help: "Total number of classification attempts by outcome.",
		},
		[]string{"outcome"},
	)

	webhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Total number of webhook deliveries by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, httpErrors, classifications, webhookDeliveries)
}

// RecordRequest increments the request counter and observes its duration.
func RecordRequest(path, method string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError counts requests that ended in a mapped domain error.
func RecordError(path, method, code string) {
	httpErrors.WithLabelValues(method, path, code).Inc()
}

// RecordClassification counts classification attempts. Outcome is "success" or "failure".
func RecordClassification(outcome string) {
	classifications.WithLabelValues(outcome).Inc()
}

// RecordWebhookDelivery counts webhook deliveries. Outcome is "success" or "failure".
func RecordWebhookDelivery(outcome string) {
	webhookDeliveries.WithLabelValues(outcome).Inc()
}
