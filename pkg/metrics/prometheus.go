// Package metrics provides Prometheus metrics for the Yi Connect service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Event lifecycle
	eventsCreated   prometheus.Counter
	rsvpsRecorded   *prometheus.CounterVec
	checkIns        prometheus.Counter
	feedbackCount   prometheus.Counter
	eventsPublished prometheus.Counter

	// Matching
	matchRuns        prometheus.Counter
	matchPoolSize    prometheus.Histogram
	matchLatency     prometheus.Histogram
	factorClamps     prometheus.Counter
	matchErrors      prometheus.Counter
	assignmentsSaved prometheus.Counter

	// Succession
	evaluationsRecorded prometheus.Counter
	evaluationErrors    prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager

// Custom registry keeps the scrape output free of default Go metrics.
var customRegistry = prometheus.NewRegistry()

func init() {
	globalManager = NewManager(customRegistry)
}

// GetRegistry returns the registry metrics are registered on, for exposing
// through promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a metrics manager registered on the given registerer.
func NewManager(registry prometheus.Registerer) *Manager {
	m := &Manager{
		namespace:        "yi_connect",
		histogramBuckets: prometheus.DefBuckets,
		registry:         registry,
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_created_total",
		Help:      "Total number of events created",
	})

	m.rsvpsRecorded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "rsvps_recorded_total",
			Help:      "Total number of RSVPs recorded by resulting status",
		},
		[]string{"status"},
	)

	m.checkIns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "check_ins_total",
		Help:      "Total number of event check-ins recorded",
	})

	m.feedbackCount = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "feedback_total",
		Help:      "Total number of feedback submissions recorded",
	})

	m.eventsPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_published_total",
		Help:      "Total number of events published to the chapter calendar",
	})

	m.matchRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "match_runs_total",
		Help:      "Total number of volunteer and trainer match runs",
	})

	m.matchPoolSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "match_pool_size",
		Help:      "Histogram of candidate pool sizes per match run",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500},
	})

	m.matchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "match_latency_milliseconds",
		Help:      "Histogram of match run latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.factorClamps = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "match_factor_clamps_total",
		Help:      "Total number of factor scores clamped into range during matching",
	})

	m.matchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "match_errors_total",
		Help:      "Total number of failed match runs",
	})

	m.assignmentsSaved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "assignments_saved_total",
		Help:      "Total number of confirmed volunteer and trainer assignments",
	})

	m.evaluationsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "evaluations_recorded_total",
		Help:      "Total number of candidate evaluations recorded",
	})

	m.evaluationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "evaluation_errors_total",
		Help:      "Total number of rejected candidate evaluations",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordEventCreated increments the events created counter.
func RecordEventCreated() {
	globalManager.eventsCreated.Inc()
}

// RecordRSVP increments the RSVP counter for the resulting status.
func RecordRSVP(status string) {
	globalManager.rsvpsRecorded.WithLabelValues(status).Inc()
}

// RecordCheckIn increments the check-in counter.
func RecordCheckIn() {
	globalManager.checkIns.Inc()
}

// RecordFeedback increments the feedback counter.
func RecordFeedback() {
	globalManager.feedbackCount.Inc()
}

// RecordEventPublished increments the published events counter.
func RecordEventPublished() {
	globalManager.eventsPublished.Inc()
}

// RecordMatchRun records one match run over the given candidate pool size.
func RecordMatchRun(poolSize int, latencyMs float64) {
	globalManager.matchRuns.Inc()
	globalManager.matchPoolSize.Observe(float64(poolSize))
	globalManager.matchLatency.Observe(latencyMs)
}

// RecordFactorClamp increments the clamped factor score counter.
func RecordFactorClamp() {
	globalManager.factorClamps.Inc()
}

// RecordMatchError increments the failed match run counter.
func RecordMatchError() {
	globalManager.matchErrors.Inc()
}

// RecordAssignmentsSaved adds to the confirmed assignments counter.
func RecordAssignmentsSaved(count int) {
	globalManager.assignmentsSaved.Add(float64(count))
}

// RecordEvaluation increments the recorded evaluations counter.
func RecordEvaluation() {
	globalManager.evaluationsRecorded.Inc()
}

// RecordEvaluationError increments the rejected evaluations counter.
func RecordEvaluationError() {
	globalManager.evaluationErrors.Inc()
}

// RecordHTTPRequest records an HTTP request and its duration in milliseconds.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}
