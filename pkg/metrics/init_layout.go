package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLayoutMetrics() {
	r.LayoutReadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "msmap_layout_reads_total",
			Help: "Layout store reads by backend and outcome",
		},
		[]string{"backend", "status"}, // hit, miss, error, corrupt
	)

	r.LayoutWritesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "msmap_layout_writes_total",
			Help: "Layout store writes by backend and outcome",
		},
		[]string{"backend", "status"}, // success, error
	)

	r.LayoutWriteDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "msmap_layout_write_duration_seconds",
			Help:    "Layout store write duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"backend"},
	)

	r.LayoutWritesCoalescedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "msmap_layout_writes_coalesced_total",
			Help: "Layout changes folded into an already pending write",
		},
	)

	r.LayoutOverrides = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "msmap_layout_overrides",
			Help: "Position overrides currently held by the layout store",
		},
	)
}
