// Package metrics provides Prometheus metrics for the ResiCentral calculator service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the calculator service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Core business metrics
	evaluations           *prometheus.CounterVec
	validationFailures    *prometheus.CounterVec
	evaluationErrors      *prometheus.CounterVec
	evaluationLatency     *prometheus.HistogramVec
	registeredCalculators prometheus.Gauge

	// History store metrics
	historyRecords      prometheus.Counter
	historyErrors       *prometheus.CounterVec
	historyEntries      prometheus.Gauge
	historyUsers        prometheus.Gauge
	historyQueryLatency prometheus.Histogram

	// Asynchronous recorder metrics
	recorderQueueSize     prometheus.Gauge
	recorderQueueCapacity prometheus.Gauge
	recorderEnqueued      prometheus.Counter
	recorderDropped       *prometheus.CounterVec
	recorderWorkers       prometheus.Gauge
	recorderWriteLatency  prometheus.Histogram
	idempotentReplays     prometheus.Counter

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error breakdowns
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "resicentral",
		subsystem:        "calculators",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	// Core business metrics
	m.evaluations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "evaluations_total",
			Help:        "Total number of successful evaluations by calculator and risk category",
			ConstLabels: m.constLabels,
		},
		[]string{"calculator", "risk_category"},
	)

	m.validationFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "validation_failures_total",
			Help:        "Total number of evaluations rejected by input validation",
			ConstLabels: m.constLabels,
		},
		[]string{"calculator"},
	)

	m.evaluationErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "evaluation_errors_total",
			Help:        "Total number of failed evaluations by kind (not_found, validation, internal)",
			ConstLabels: m.constLabels,
		},
		[]string{"calculator", "kind"},
	)

	m.evaluationLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "evaluation_latency_milliseconds",
			Help:        "Histogram of validate, score and interpret latency in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"calculator"},
	)

	m.registeredCalculators = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "registered",
		Help:        "Number of calculators in the registry",
		ConstLabels: m.constLabels,
	})

	// History store metrics
	m.historyRecords = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_records_total",
		Help:        "Total number of calculations written to history",
		ConstLabels: m.constLabels,
	})

	m.historyErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "history_errors_total",
			Help:        "Total number of history store failures by operation",
			ConstLabels: m.constLabels,
		},
		[]string{"operation"},
	)

	m.historyEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_entries",
		Help:        "Number of calculations currently retained in history",
		ConstLabels: m.constLabels,
	})

	m.historyUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_users",
		Help:        "Number of users with retained history",
		ConstLabels: m.constLabels,
	})

	m.historyQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_query_latency_milliseconds",
		Help:        "Histogram of history read latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	// Asynchronous recorder metrics
	m.recorderQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "recorder_queue_size",
		Help:        "Number of calculations waiting to be written to history",
		ConstLabels: m.constLabels,
	})

	m.recorderQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "recorder_queue_capacity",
		Help:        "Maximum number of calculations the recorder queue holds",
		ConstLabels: m.constLabels,
	})

	m.recorderEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "recorder_enqueued_total",
		Help:        "Total number of calculations accepted by the recorder queue",
		ConstLabels: m.constLabels,
	})

	m.recorderDropped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "recorder_dropped_total",
			Help:        "Total number of calculations the recorder queue refused by reason",
			ConstLabels: m.constLabels,
		},
		[]string{"reason"},
	)

	m.recorderWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "recorder_workers",
		Help:        "Number of running history writer workers",
		ConstLabels: m.constLabels,
	})

	m.recorderWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "recorder_write_latency_milliseconds",
		Help:        "Histogram of history write latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.idempotentReplays = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "idempotent_replays_total",
		Help:        "Total number of evaluations not recorded because the idempotency key was seen",
		ConstLabels: m.constLabels,
	})

	// HTTP performance metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error breakdowns
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_component_total",
			Help:        "Total number of errors by component and type",
			ConstLabels: m.constLabels,
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "Total number of errors by endpoint, method and type",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	// System performance metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})
}

// RecordEvaluation increments the successful evaluations counter.
func RecordEvaluation(calculator, risk string) {
	globalManager.evaluations.WithLabelValues(calculator, risk).Inc()
}

// RecordValidationFailure increments the validation failures counter.
func RecordValidationFailure(calculator string) {
	globalManager.validationFailures.WithLabelValues(calculator).Inc()
}

// RecordEvaluationError increments the failed evaluations counter.
func RecordEvaluationError(calculator, kind string) {
	globalManager.evaluationErrors.WithLabelValues(calculator, kind).Inc()
}

// RecordEvaluationLatency records evaluation latency in milliseconds.
func RecordEvaluationLatency(calculator string, latencyMs float64) {
	globalManager.evaluationLatency.WithLabelValues(calculator).Observe(latencyMs)
}

// UpdateRegisteredCalculators sets the registry size.
func UpdateRegisteredCalculators(count int) {
	globalManager.registeredCalculators.Set(float64(count))
}

// History Metrics Functions.

// RecordHistoryAppend increments the history records counter.
func RecordHistoryAppend() {
	globalManager.historyRecords.Inc()
}

// RecordHistoryError increments the history failures counter for operation.
func RecordHistoryError(operation string) {
	globalManager.historyErrors.WithLabelValues(operation).Inc()
}

// UpdateHistoryEntries sets the number of retained calculations.
func UpdateHistoryEntries(count int) {
	globalManager.historyEntries.Set(float64(count))
}

// UpdateHistoryUsers sets the number of users with retained history.
func UpdateHistoryUsers(count int) {
	globalManager.historyUsers.Set(float64(count))
}

// RecordHistoryQueryLatency records history read latency.
func RecordHistoryQueryLatency(latencyMs float64) {
	globalManager.historyQueryLatency.Observe(latencyMs)
}

// Recorder Metrics Functions.

// UpdateRecorderQueueSize sets the number of queued calculations.
func UpdateRecorderQueueSize(size int) {
	globalManager.recorderQueueSize.Set(float64(size))
}

// UpdateRecorderQueueCapacity sets the recorder queue capacity.
func UpdateRecorderQueueCapacity(capacity int) {
	globalManager.recorderQueueCapacity.Set(float64(capacity))
}

// RecordRecorderEnqueue increments the accepted calculations counter.
func RecordRecorderEnqueue() {
	globalManager.recorderEnqueued.Inc()
}

// RecordRecorderDrop increments the refused calculations counter for reason.
func RecordRecorderDrop(reason string) {
	globalManager.recorderDropped.WithLabelValues(reason).Inc()
}

// UpdateRecorderWorkers sets the number of running writer workers.
func UpdateRecorderWorkers(count int) {
	globalManager.recorderWorkers.Set(float64(count))
}

// RecordRecorderWriteLatency records history write latency.
func RecordRecorderWriteLatency(latencyMs float64) {
	globalManager.recorderWriteLatency.Observe(latencyMs)
}

// RecordIdempotentReplay increments the replayed evaluations counter.
func RecordIdempotentReplay() {
	globalManager.idempotentReplays.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
