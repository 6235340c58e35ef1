package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the map engine
type Registry struct {
	// Map Metrics
	MapLoadsTotal       *prometheus.CounterVec
	MapNodes            prometheus.Gauge
	MapEdges            prometheus.Gauge
	MapDroppedTotal     *prometheus.CounterVec
	MapStatusNormalized prometheus.Counter

	// Filter Metrics
	FilterEvaluationsTotal prometheus.Counter
	FilterDuration         prometheus.Histogram
	FilterVisibleNodes     prometheus.Gauge
	FilterVisibleEdges     prometheus.Gauge

	// Highlight Metrics
	HighlightsTotal         *prometheus.CounterVec
	HighlightSize           prometheus.Histogram
	HighlightTruncatedTotal prometheus.Counter

	// Wizard Metrics
	WizardRunsTotal  prometheus.Counter
	WizardPathLength prometheus.Histogram

	// Layout Metrics
	LayoutReadsTotal           *prometheus.CounterVec
	LayoutWritesTotal          *prometheus.CounterVec
	LayoutWriteDuration        *prometheus.HistogramVec
	LayoutWritesCoalescedTotal prometheus.Counter
	LayoutOverrides            prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	started  time.Time
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		started:  time.Now(),
	}

	r.initMapMetrics()
	r.initFilterMetrics()
	r.initLayoutMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
