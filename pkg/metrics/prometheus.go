// Package metrics provides Prometheus metrics for the interview coach service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds every Prometheus collector the service reports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core: what the coach computes
	classifications *prometheus.CounterVec
	analyses        *prometheus.CounterVec
	ratings         *prometheus.HistogramVec
	questionSets    *prometheus.CounterVec
	questionCount   prometheus.Histogram

	// External providers
	providerCalls     *prometheus.CounterVec
	providerLatency   *prometheus.HistogramVec
	providerFallbacks *prometheus.CounterVec

	// Async jobs
	jobsSubmitted prometheus.Counter
	jobsDuplicate prometheus.Counter
	jobsFinished  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Accounts and storage
	authEvents   *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueued          prometheus.Counter
	queueDequeued          prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "interviewcoach",
		subsystem:        "api",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	ratingBuckets := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	m.classifications = m.counterVec("classifications_total", "Job fields classified, by category", "category")
	m.analyses = m.counterVec("analyses_total", "Answers analyzed, by signal source and category", "source", "category")
	m.ratings = m.histogramVec("analysis_rating", "Distribution of analysis ratings by signal source", ratingBuckets, "source")
	m.questionSets = m.counterVec("question_sets_total", "Question sets generated, by origin (ai or template)", "source")
	m.questionCount = m.histogram("question_set_size", "Number of questions returned per request", []float64{1, 2, 3, 5, 8, 10, 15, 20})

	m.providerCalls = m.counterVec("provider_calls_total", "Calls to external AI providers by outcome", "provider", "operation", "outcome")
	m.providerLatency = m.histogramVec("provider_latency_milliseconds", "External provider call latency in milliseconds", m.histogramBuckets, "provider", "operation")
	m.providerFallbacks = m.counterVec("provider_fallbacks_total", "Times a provider result was replaced by the deterministic path", "operation")

	m.jobsSubmitted = m.counter("jobs_submitted_total", "Async analysis jobs accepted")
	m.jobsDuplicate = m.counter("jobs_duplicate_total", "Async submissions answered from an idempotency key")
	m.jobsFinished = m.counterVec("jobs_finished_total", "Async analysis jobs finished, by final status", "status")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets, "endpoint", "method", "status_code")

	m.authEvents = m.counterVec("auth_events_total", "Signup and login attempts by outcome", "event", "outcome")
	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Store operation latency in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100}, "operation")

	m.queueSize = m.gauge("queue_size", "Current number of jobs waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (0-1)")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Enqueue attempts refused")
	m.queueProcessingLatency = m.histogram("queue_processing_latency_milliseconds", "Enqueue latency in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50})

	m.workerCount = m.gauge("worker_count", "Configured analysis workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Workers currently processing a job")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Job processing latency in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Jobs that failed in a worker")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Most recent GC pause in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100})
}

// RecordClassification counts a classified field.
func RecordClassification(category string) {
	globalManager.classifications.WithLabelValues(category).Inc()
}

// RecordAnalysis counts an analysis and observes its rating.
func RecordAnalysis(source, category string, rating float64) {
	globalManager.analyses.WithLabelValues(source, category).Inc()
	globalManager.ratings.WithLabelValues(source).Observe(rating)
}

// RecordQuestionSet counts a generated question set and its size.
func RecordQuestionSet(source string, size int) {
	globalManager.questionSets.WithLabelValues(source).Inc()
	globalManager.questionCount.Observe(float64(size))
}

// RecordProviderCall records one outbound provider call.
func RecordProviderCall(provider, operation, outcome string, latencyMs float64) {
	globalManager.providerCalls.WithLabelValues(provider, operation, outcome).Inc()
	globalManager.providerLatency.WithLabelValues(provider, operation).Observe(latencyMs)
}

// RecordProviderFallback counts a fallback to the deterministic path.
func RecordProviderFallback(operation string) {
	globalManager.providerFallbacks.WithLabelValues(operation).Inc()
}

// RecordJobSubmitted counts an accepted async job.
func RecordJobSubmitted() {
	globalManager.jobsSubmitted.Inc()
}

// RecordJobDuplicate counts a submission answered from its idempotency key.
func RecordJobDuplicate() {
	globalManager.jobsDuplicate.Inc()
}

// RecordJobFinished counts a job reaching a final status.
func RecordJobFinished(status string) {
	globalManager.jobsFinished.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordAuthEvent counts a signup or login attempt.
func RecordAuthEvent(event, outcome string) {
	globalManager.authEvents.WithLabelValues(event, outcome).Inc()
}

// RecordStoreLatency records a store operation latency in milliseconds.
func RecordStoreLatency(operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue counts an enqueued job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts a dequeued job.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a refused enqueue.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records enqueue latency in milliseconds.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records job processing latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed job.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordErrorByComponent counts an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
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
