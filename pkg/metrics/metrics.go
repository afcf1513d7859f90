package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission results.
const (
	ResultSuccess        = "success"
	ResultConfigError    = "config_error"
	ResultRemoteError    = "remote_error"
	ResultTransportError = "transport_error"
)

var (
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_submissions_total",
			Help: "Total number of report submissions to the kanban board",
		},
		[]string{"category", "result"},
	)

	submissionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "report_submission_duration_seconds",
			Help:    "Duration of card creation calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(submissionsTotal, submissionDuration, httpRequestsTotal)
}

func RecordSubmission(category, result string, seconds float64) {
	submissionsTotal.WithLabelValues(category, result).Inc()
	submissionDuration.Observe(seconds)
}

func RecordHTTPRequest(method, route string, status int) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
