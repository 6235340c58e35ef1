package metrics

import (
	"runtime"
	"time"
)

// RecordLoad records a map load and the resulting graph size
func (r *Registry) RecordLoad(kind string, nodes, edges, droppedNodes, droppedEdges, normalized int) {
	if r == nil {
		return
	}
	r.MapLoadsTotal.WithLabelValues(kind).Inc()
	r.MapNodes.Set(float64(nodes))
	r.MapEdges.Set(float64(edges))
	if droppedNodes > 0 {
		r.MapDroppedTotal.WithLabelValues("node").Add(float64(droppedNodes))
	}
	if droppedEdges > 0 {
		r.MapDroppedTotal.WithLabelValues("edge").Add(float64(droppedEdges))
	}
	if normalized > 0 {
		r.MapStatusNormalized.Add(float64(normalized))
	}
}

// RecordFilter records a filter evaluation
func (r *Registry) RecordFilter(duration time.Duration, visibleNodes, visibleEdges int) {
	if r == nil {
		return
	}
	r.FilterEvaluationsTotal.Inc()
	r.FilterDuration.Observe(duration.Seconds())
	r.FilterVisibleNodes.Set(float64(visibleNodes))
	r.FilterVisibleEdges.Set(float64(visibleEdges))
}

// RecordHighlight records a highlight computation
func (r *Registry) RecordHighlight(direction string, nodes int, truncated bool) {
	if r == nil {
		return
	}
	r.HighlightsTotal.WithLabelValues(direction).Inc()
	r.HighlightSize.Observe(float64(nodes))
	if truncated {
		r.HighlightTruncatedTotal.Inc()
	}
}

// RecordWizard records a minimal path computation
func (r *Registry) RecordWizard(pathLength int) {
	if r == nil {
		return
	}
	r.WizardRunsTotal.Inc()
	r.WizardPathLength.Observe(float64(pathLength))
}

// RecordLayoutRead records a layout store read
func (r *Registry) RecordLayoutRead(backend, status string) {
	if r == nil {
		return
	}
	r.LayoutReadsTotal.WithLabelValues(backend, status).Inc()
}

// RecordLayoutWrite records a layout store write with its duration
func (r *Registry) RecordLayoutWrite(backend, status string, duration time.Duration) {
	if r == nil {
		return
	}
	r.LayoutWritesTotal.WithLabelValues(backend, status).Inc()
	r.LayoutWriteDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// RecordLayoutCoalesced records a change folded into a pending write
func (r *Registry) RecordLayoutCoalesced() {
	if r == nil {
		return
	}
	r.LayoutWritesCoalescedTotal.Inc()
}

// SetLayoutOverrides sets the number of held position overrides
func (r *Registry) SetLayoutOverrides(n int) {
	if r == nil {
		return
	}
	r.LayoutOverrides.Set(float64(n))
}

// UpdateSystemMetrics samples uptime, goroutines and memory
func (r *Registry) UpdateSystemMetrics() {
	if r == nil {
		return
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.UptimeSeconds.Set(time.Since(r.started).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
	r.MemorySysBytes.Set(float64(mem.Sys))
}
