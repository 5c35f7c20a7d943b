package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shareit_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shareit_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	bookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shareit_bookings_created_total",
		Help: "Number of bookings created in WAITING status",
	})

	bookingsRefused = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shareit_bookings_refused_total",
		Help: "Booking creations refused by the lifecycle rules, by reason",
	}, []string{"reason"})

	bookingDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shareit_booking_decisions_total",
		Help: "Owner decisions on waiting bookings",
	}, []string{"status"})

	eventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shareit_event_publish_failures_total",
		Help: "Booking events that could not be published",
	}, []string{"type"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// BookingCreated increments the created bookings counter.
func BookingCreated() {
	bookingsCreated.Inc()
}

// BookingRefused records a creation refused for the given reason
// (e.g. "conflict", "unavailable", "own_item").
func BookingRefused(reason string) {
	bookingsRefused.WithLabelValues(reason).Inc()
}

// BookingDecided records an approval or rejection.
func BookingDecided(status string) {
	bookingDecisions.WithLabelValues(status).Inc()
}

// EventPublishFailed records an event that was dropped.
func EventPublishFailed(eventType string) {
	eventPublishFailures.WithLabelValues(eventType).Inc()
}
