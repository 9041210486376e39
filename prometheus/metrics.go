package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Registration counter
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quoteflow_auth_register_total",
			Help: "Total number of merchant registrations",
		},
	)

	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quoteflow_auth_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quoteflow_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", "db_error" etc.
	)

	// Product operation counter
	ProductOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quoteflow_product_operations_total",
			Help: "Total number of catalog operations",
		},
		[]string{"operation"}, // create, update, delete
	)

	// Quote submission counter
	QuoteSubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quoteflow_quote_submissions_total",
			Help: "Total number of quote request submissions by outcome",
		},
		[]string{"outcome"}, // accepted, rejected, error
	)

	// Quote status change counter
	QuoteStatusChangeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quoteflow_quote_status_changes_total",
			Help: "Total number of quote request status updates",
		},
		[]string{"status"},
	)

	// Event publishing counter
	EventPublishCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quoteflow_events_published_total",
			Help: "Total number of quote events handed to the broker",
		},
		[]string{"type", "result"},
	)
)

// Histogram metrics
var (
	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quoteflow_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quoteflow_info",
			Help: "Information about the quoteflow service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(ProductOperationCounter)
	prometheus.MustRegister(QuoteSubmissionCounter)
	prometheus.MustRegister(QuoteStatusChangeCounter)
	prometheus.MustRegister(EventPublishCounter)

	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(InfoGauge)

	registerHTTPMetrics()

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures a database operation. Call the returned func when it finishes.
func TrackDBOperation(operation string) func() {
	startTime := time.Now()
	return func() {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(startTime).Seconds())
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordProductOperation records a catalog mutation
func RecordProductOperation(operation string) {
	ProductOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordQuoteSubmission records the outcome of a public quote submission
func RecordQuoteSubmission(outcome string) {
	QuoteSubmissionCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// RecordQuoteStatusChange records a merchant status update
func RecordQuoteStatusChange(status string) {
	QuoteStatusChangeCounter.With(prometheus.Labels{"status": status}).Inc()
}

// RecordEventPublish records a publish attempt; result is "ok" or "error"
func RecordEventPublish(eventType, result string) {
	EventPublishCounter.With(prometheus.Labels{"type": eventType, "result": result}).Inc()
}
