// Package metrics provides Prometheus metrics for the medalist service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	runtime          bool
	registry         prometheus.Registerer

	// Evaluation
	evaluations       *prometheus.CounterVec
	evaluationLatency prometheus.Histogram
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	cacheEntries      prometheus.Gauge

	// Profiles and catalog
	profilesStored     prometheus.Gauge
	activitiesAppended prometheus.Counter
	awardsUnlocked     prometheus.Counter
	catalogAwards      prometheus.Gauge

	// Bulk queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActive            prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level helpers

// Custom registry to keep default Go metrics out unless requested.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared by /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry), WithRuntimeCollectors(true))
}

// NewManager creates a metrics manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "medalist",
		subsystem:        "awards",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
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
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.evaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluations_total",
		Help:        "Award evaluations by resulting status",
		ConstLabels: m.constLabels,
	}, []string{"status"})
	m.evaluationLatency = m.histogram("evaluation_latency_milliseconds", "Latency of a single award evaluation")
	m.cacheHits = m.counter("cache_hits_total", "Evaluations served from the result cache")
	m.cacheMisses = m.counter("cache_misses_total", "Evaluations computed because the cache had no entry")
	m.cacheEntries = m.gauge("cache_entries", "Entries held by the result cache")

	m.profilesStored = m.gauge("profiles_stored", "Profiles held by the repository")
	m.activitiesAppended = m.counter("activities_appended_total", "Activity records appended to profiles")
	m.awardsUnlocked = m.counter("awards_unlocked_total", "Awards claimed through the unlock operation")
	m.catalogAwards = m.gauge("catalog_awards", "Awards in the loaded catalog")

	m.queueSize = m.gauge("queue_size", "Bulk evaluation jobs waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Capacity of the bulk evaluation queue")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Bulk evaluation jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Bulk evaluation jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Bulk evaluation jobs rejected by the queue")

	m.workerCount = m.gauge("worker_count", "Workers in the bulk evaluation pool")
	m.workerActive = m.gauge("worker_active", "Workers currently evaluating a profile")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Time to evaluate one profile's catalog")
	m.workerErrors = m.counter("worker_errors_total", "Bulk evaluation jobs that failed")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "HTTP requests by endpoint, method and status",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Errors by component and type",
		ConstLabels: m.constLabels,
	}, []string{"component", "error_type"})

	if m.runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// RecordEvaluation counts one evaluation and its latency.
func RecordEvaluation(status string, latencyMs float64) {
	globalManager.evaluations.WithLabelValues(status).Inc()
	globalManager.evaluationLatency.Observe(latencyMs)
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() { globalManager.cacheHits.Inc() }

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() { globalManager.cacheMisses.Inc() }

// UpdateCacheEntries sets the number of cached results.
func UpdateCacheEntries(n int) { globalManager.cacheEntries.Set(float64(n)) }

// UpdateProfilesStored sets the number of stored profiles.
func UpdateProfilesStored(n int) { globalManager.profilesStored.Set(float64(n)) }

// RecordActivityAppended increments the appended activity counter.
func RecordActivityAppended() { globalManager.activitiesAppended.Inc() }

// RecordAwardUnlocked increments the unlocked award counter.
func RecordAwardUnlocked() { globalManager.awardsUnlocked.Inc() }

// UpdateCatalogAwards sets the catalog size.
func UpdateCatalogAwards(n int) { globalManager.catalogAwards.Set(float64(n)) }

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeued.Inc() }

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateWorkerCount sets the pool size.
func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// AddWorkerActive adjusts the number of busy workers.
func AddWorkerActive(delta int) { globalManager.workerActive.Add(float64(delta)) }

// RecordWorkerProcessingLatency records the time spent on one job.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordError counts an error attributed to component.
func RecordError(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the registry behind /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
