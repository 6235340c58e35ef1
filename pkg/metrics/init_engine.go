package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initMapMetrics() {
	r.MapLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "msmap_map_loads_total",
			Help: "Total number of map loads",
		},
		[]string{"kind"}, // initial, reload
	)

	r.MapNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "msmap_map_nodes",
			Help: "Number of nodes in the loaded map",
		},
	)

	r.MapEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "msmap_map_edges",
			Help: "Number of usable edges in the loaded map",
		},
	)

	r.MapDroppedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "msmap_map_dropped_total",
			Help: "Nodes and edges dropped at load as data-quality issues",
		},
		[]string{"entity"}, // node, edge
	)

	r.MapStatusNormalized = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "msmap_map_status_normalized_total",
			Help: "Nodes whose status was absent or unrecognised and became draft",
		},
	)
}

func (r *Registry) initFilterMetrics() {
	r.FilterEvaluationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "msmap_filter_evaluations_total",
			Help: "Total number of filter evaluations",
		},
	)

	r.FilterDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "msmap_filter_duration_seconds",
			Help:    "Filter evaluation duration in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
	)

	r.FilterVisibleNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "msmap_filter_visible_nodes",
			Help: "Visible nodes after the last filter evaluation",
		},
	)

	r.FilterVisibleEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "msmap_filter_visible_edges",
			Help: "Visible edges after the last filter evaluation",
		},
	)

	r.HighlightsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "msmap_highlights_total",
			Help: "Total number of highlight computations",
		},
		[]string{"direction"},
	)

	r.HighlightSize = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "msmap_highlight_nodes",
			Help:    "Nodes in a computed highlight",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 200},
		},
	)

	r.HighlightTruncatedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "msmap_highlight_truncated_total",
			Help: "Highlights cut short by the depth or size bound",
		},
	)

	r.WizardRunsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "msmap_wizard_runs_total",
			Help: "Total number of minimal path computations",
		},
	)

	r.WizardPathLength = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "msmap_wizard_path_length",
			Help:    "Nodes in a computed minimal path",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50},
		},
	)
}
