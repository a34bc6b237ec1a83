package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	httpRequestsTotal       *prometheus.CounterVec
	httpLatencySeconds      *prometheus.HistogramVec
	httpErrorsTotal         *prometheus.CounterVec
	transitionsTotal        *prometheus.CounterVec
	transitionsRejected     *prometheus.CounterVec
	notificationsSentTotal  *prometheus.CounterVec
	uploadedFilesTotal      *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lor_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lor_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lor_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		transitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lor_status_transitions_total",
			Help: "Accepted submission status transitions by from/to pair.",
		}, []string{"from", "to"})

		transitionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lor_status_transitions_rejected_total",
			Help: "Submission status transitions rejected by the policy engine.",
		}, []string{"from", "to"})

		notificationsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lor_notifications_sent_total",
			Help: "Lifecycle notifications dispatched, by event type and channel.",
		}, []string{"type", "channel"})

		uploadedFilesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lor_uploaded_files_total",
			Help: "Files accepted into the attachment registry, by type.",
		}, []string{"type"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			transitionsTotal,
			transitionsRejected,
			notificationsSentTotal,
			uploadedFilesTotal,
		)
	})
}

// HTTPRequests exposes the counter for served requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for served requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Transitions exposes the counter for accepted status transitions.
func Transitions() *prometheus.CounterVec {
	RegisterMetrics()
	return transitionsTotal
}

// TransitionsRejected exposes the counter for rejected transitions.
func TransitionsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return transitionsRejected
}

// NotificationsSent exposes the counter for dispatched notifications.
func NotificationsSent() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsSentTotal
}

// UploadedFiles exposes the counter for accepted file uploads.
func UploadedFiles() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadedFilesTotal
}
