// Package metrics provides Prometheus metrics for the geoview map directory.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Engine bootstrap outcome labels.
const (
	EngineOutcomeReady     = "ready"
	EngineOutcomeFailed    = "failed"
	EngineOutcomeDiscarded = "discarded" // resolved after the owning view unmounted
)

// Manager manages all Prometheus metrics for the geoview service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Reconciliation - marker element lifecycle
	reconcilePasses prometheus.Counter
	elementsCreated prometheus.Counter
	elementsUpdated prometheus.Counter
	elementsRemoved prometheus.Counter
	elementsLive    prometheus.Gauge

	// Clustering
	clusterRecomputes       prometheus.Counter
	clusterRecomputeLatency prometheus.Histogram
	clusterNodes            prometheus.Gauge

	// Filtering and selection
	workingSetSize prometheus.Gauge
	datasetSize    prometheus.Gauge
	selections     *prometheus.CounterVec
	staleSelects   prometheus.Counter

	// Engine lifecycle
	engineBootstraps *prometheus.CounterVec
	engineState      prometheus.Gauge
	fallbackShown    prometheus.Counter
	cameraMoves      prometheus.Counter

	// Geolocation
	geolocateRequests prometheus.Counter
	geolocateFailures prometheus.Counter

	// HTTP harness metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "geoview",
		subsystem:        "map",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.reconcilePasses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reconcile_passes_total",
		Help:      "Total number of marker reconciliation passes",
	})

	m.elementsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "elements_created_total",
		Help:      "Total number of marker elements created on the engine",
	})

	m.elementsUpdated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "elements_updated_total",
		Help:      "Total number of marker elements repositioned or restyled in place",
	})

	m.elementsRemoved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "elements_removed_total",
		Help:      "Total number of marker elements removed from the engine",
	})

	m.elementsLive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "elements_live",
		Help:      "Current number of live marker elements (leak indicator: must reach 0 on unmount)",
	})

	m.clusterRecomputes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cluster_recomputes_total",
		Help:      "Total number of cluster index recomputations",
	})

	m.clusterRecomputeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cluster_recompute_duration_ms",
		Help:      "Cluster recomputation duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.clusterNodes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cluster_nodes",
		Help:      "Number of cluster nodes produced by the latest recomputation",
	})

	m.workingSetSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "working_set_size",
		Help:      "Number of markers passing the active filters",
	})

	m.datasetSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_size",
		Help:      "Number of markers in the full dataset snapshot",
	})

	m.selections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "selections_total",
		Help:      "Total marker selections by origin (list or map)",
	}, []string{"origin"})

	m.staleSelects = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stale_selects_total",
		Help:      "Selections ignored because the marker left the working set",
	})

	m.engineBootstraps = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "engine_bootstraps_total",
		Help:      "Engine bootstrap completions by outcome",
	}, []string{"outcome"})

	m.engineState = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "engine_state",
		Help:      "Current engine state (0=uninitialized 1=loading 2=ready 3=failed)",
	})

	m.fallbackShown = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fallback_shown_total",
		Help:      "Times the static fallback replaced the interactive map",
	})

	m.cameraMoves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "camera_moves_total",
		Help:      "Camera transitions issued to the engine (fly-to, ease, fit-bounds)",
	})

	m.geolocateRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "geolocate_requests_total",
		Help:      "Total position requests issued to the geolocation provider",
	})

	m.geolocateFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "geolocate_failures_total",
		Help:      "Position requests that were denied or failed",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests to the harness API",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// Package-level helpers recording on the global manager.

// RecordReconcilePass records one reconciliation pass with its diff counts.
func RecordReconcilePass(created, updated, removed, live int) {
	globalManager.reconcilePasses.Inc()
	globalManager.elementsCreated.Add(float64(created))
	globalManager.elementsUpdated.Add(float64(updated))
	globalManager.elementsRemoved.Add(float64(removed))
	globalManager.elementsLive.Set(float64(live))
}

// RecordClusterRecompute records one recomputation and its output size.
func RecordClusterRecompute(durationMs float64, nodes int) {
	globalManager.clusterRecomputes.Inc()
	globalManager.clusterRecomputeLatency.Observe(durationMs)
	globalManager.clusterNodes.Set(float64(nodes))
}

// UpdateWorkingSetSize updates the filtered marker count gauge.
func UpdateWorkingSetSize(size int) {
	globalManager.workingSetSize.Set(float64(size))
}

// UpdateDatasetSize updates the full dataset size gauge.
func UpdateDatasetSize(size int) {
	globalManager.datasetSize.Set(float64(size))
}

// RecordSelection records a marker selection by origin ("list" or "map").
func RecordSelection(origin string) {
	globalManager.selections.WithLabelValues(origin).Inc()
}

// RecordStaleSelect records a selection dropped for referencing a filtered-out marker.
func RecordStaleSelect() {
	globalManager.staleSelects.Inc()
}

// RecordEngineBootstrap records a bootstrap completion by outcome.
func RecordEngineBootstrap(outcome string) {
	globalManager.engineBootstraps.WithLabelValues(outcome).Inc()
}

// UpdateEngineState updates the engine state gauge.
func UpdateEngineState(state int) {
	globalManager.engineState.Set(float64(state))
}

// RecordFallbackShown records the fallback view replacing the map.
func RecordFallbackShown() {
	globalManager.fallbackShown.Inc()
}

// RecordCameraMove records a camera transition issued to the engine.
func RecordCameraMove() {
	globalManager.cameraMoves.Inc()
}

// RecordGeolocateRequest records an issued position request.
func RecordGeolocateRequest() {
	globalManager.geolocateRequests.Inc()
}

// RecordGeolocateFailure records a denied or failed position request.
func RecordGeolocateFailure() {
	globalManager.geolocateFailures.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
