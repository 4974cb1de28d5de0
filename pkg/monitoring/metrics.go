package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Reminder alarm metrics
	alarmsScheduledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_alarms_scheduled_total",
			Help: "Total number of reminder alarm registrations",
		},
		[]string{"kind", "status"},
	)

	alarmsCancelledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_alarms_cancelled_total",
			Help: "Total number of reminder alarm cancellations",
		},
	)

	alarmsFiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_alarms_fired_total",
			Help: "Total number of reminder alarms that fired",
		},
		[]string{"kind"},
	)

	// Weekly sweep metrics
	sweepRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checklist_sweep_runs_total",
			Help: "Total number of weekly checklist sweep runs",
		},
	)

	sweepEntriesResetTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checklist_sweep_entries_reset_total",
			Help: "Total number of stale checklist entries reset by sweeps",
		},
	)

	// Database metrics
	dbQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
		},
		[]string{"query_type"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		alarmsScheduledTotal,
		alarmsCancelledTotal,
		alarmsFiredTotal,
		sweepRunsTotal,
		sweepEntriesResetTotal,
		dbQueryDuration,
	)
}

// RecordHTTPRequest records metrics for an HTTP request
func RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAlarmScheduled records a reminder alarm registration attempt
func RecordAlarmScheduled(kind, status string) {
	alarmsScheduledTotal.WithLabelValues(kind, status).Inc()
}

// RecordAlarmCancelled records a reminder alarm cancellation
func RecordAlarmCancelled() {
	alarmsCancelledTotal.Inc()
}

// RecordAlarmFired records a reminder alarm firing
func RecordAlarmFired(kind string) {
	alarmsFiredTotal.WithLabelValues(kind).Inc()
}

// RecordSweep records a completed weekly sweep run
func RecordSweep(entriesReset int) {
	sweepRunsTotal.Inc()
	sweepEntriesResetTotal.Add(float64(entriesReset))
}

// RecordDBQuery records the duration of a database query
func RecordDBQuery(queryType string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(queryType).Observe(duration.Seconds())
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
