package songle

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songle_api_requests_total",
			Help: "Songle API requests by endpoint and HTTP status",
		},
		[]string{"endpoint", "status"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "songle_api_request_duration_seconds",
			Help:    "Songle API round-trip time",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// RegisterMetrics adds the client collectors to reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(requests, requestDuration)
}

// observeRequest records one finished request. status is the HTTP status
// code, or "error" when no response arrived.
func observeRequest(endpoint, status string, start time.Time) {
	requests.WithLabelValues(endpoint, status).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
