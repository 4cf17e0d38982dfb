// Package metrics provides Prometheus metrics for the vigil pain monitor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the vigil service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline throughput - one iteration per captured frame
	framesProcessed prometheus.Counter
	framesSkipped   prometheus.Counter
	frameLatency    prometheus.Histogram

	// Signal state - latest per-frame scores
	faceCount     prometheus.Gauge
	movementScore prometheus.Gauge
	painScore     prometheus.Gauge
	smoothedScore prometheus.Gauge

	// Alerting
	alertsSent       prometheus.Counter
	alertsSuppressed prometheus.Counter
	alertFailures    prometheus.Counter
	notifyLatency    prometheus.Histogram

	// HTTP surface
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
		namespace:        "vigil",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.framesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_processed_total",
		Help:      "Total number of frames run through the scoring pipeline",
	})

	m.framesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_skipped_total",
		Help:      "Total number of frames skipped due to extraction failures",
	})

	m.frameLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frame_latency_milliseconds",
		Help:      "Histogram of per-frame pipeline latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.faceCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "face_count",
		Help:      "Number of faces detected in the most recent frame",
	})

	m.movementScore = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "movement_score",
		Help:      "Movement intensity of the most recent frame (0-1)",
	})

	m.painScore = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pain_score",
		Help:      "Fused pain score of the most recent frame (0-1)",
	})

	m.smoothedScore = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "smoothed_score",
		Help:      "Smoothed pain score over the rolling window (0-1)",
	})

	m.alertsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_sent_total",
		Help:      "Total number of alert notifications dispatched",
	})

	m.alertsSuppressed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_suppressed_total",
		Help:      "Total number of above-threshold frames suppressed by cooldown",
	})

	m.alertFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alert_failures_total",
		Help:      "Total number of failed notification dispatches",
	})

	m.notifyLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_latency_milliseconds",
		Help:      "Notification dispatch latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// GetRegistry returns the custom Prometheus registry used by the global
// manager, for serving /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

// RecordFrameProcessed increments the processed-frame counter.
func RecordFrameProcessed() { globalManager.framesProcessed.Inc() }

// RecordFrameSkipped increments the skipped-frame counter.
func RecordFrameSkipped() { globalManager.framesSkipped.Inc() }

// RecordFrameLatency observes one pipeline iteration's latency.
func RecordFrameLatency(ms float64) { globalManager.frameLatency.Observe(ms) }

// UpdateFaceCount sets the face count of the latest frame.
func UpdateFaceCount(n int) { globalManager.faceCount.Set(float64(n)) }

// UpdateMovementScore sets the latest movement intensity.
func UpdateMovementScore(v float64) { globalManager.movementScore.Set(v) }

// UpdatePainScore sets the latest fused pain score.
func UpdatePainScore(v float64) { globalManager.painScore.Set(v) }

// UpdateSmoothedScore sets the latest smoothed pain score.
func UpdateSmoothedScore(v float64) { globalManager.smoothedScore.Set(v) }

// RecordAlertSent increments the dispatched-alert counter.
func RecordAlertSent() { globalManager.alertsSent.Inc() }

// RecordAlertSuppressed increments the cooldown-suppression counter.
func RecordAlertSuppressed() { globalManager.alertsSuppressed.Inc() }

// RecordAlertFailure increments the failed-dispatch counter.
func RecordAlertFailure() { globalManager.alertFailures.Inc() }

// RecordNotifyLatency observes one notification dispatch latency.
func RecordNotifyLatency(ms float64) { globalManager.notifyLatency.Observe(ms) }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}
