package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.MapLoadsTotal == nil {
		t.Error("MapLoadsTotal not initialized")
	}
	if r.FilterDuration == nil {
		t.Error("FilterDuration not initialized")
	}
	if r.LayoutWritesTotal == nil {
		t.Error("LayoutWritesTotal not initialized")
	}
	if r.UptimeSeconds == nil {
		t.Error("UptimeSeconds not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordLoad(t *testing.T) {
	r := NewRegistry()

	r.RecordLoad("initial", 10, 7, 2, 3, 1)
	r.RecordLoad("reload", 12, 9, 0, 1, 0)

	initial, _ := r.MapLoadsTotal.GetMetricWithLabelValues("initial")
	if v := counterValue(t, initial); v != 1 {
		t.Errorf("initial loads = %v, want 1", v)
	}
	if v := gaugeValue(t, r.MapNodes); v != 12 {
		t.Errorf("MapNodes = %v, want 12 (last load)", v)
	}
	droppedEdges, _ := r.MapDroppedTotal.GetMetricWithLabelValues("edge")
	if v := counterValue(t, droppedEdges); v != 4 {
		t.Errorf("dropped edges = %v, want 4", v)
	}
	droppedNodes, _ := r.MapDroppedTotal.GetMetricWithLabelValues("node")
	if v := counterValue(t, droppedNodes); v != 2 {
		t.Errorf("dropped nodes = %v, want 2", v)
	}
	if v := counterValue(t, r.MapStatusNormalized); v != 1 {
		t.Errorf("normalized = %v, want 1", v)
	}
}

func TestRecordFilterAndHighlight(t *testing.T) {
	r := NewRegistry()

	r.RecordFilter(50*time.Microsecond, 4, 3)
	r.RecordFilter(80*time.Microsecond, 2, 1)
	r.RecordHighlight("both", 6, false)
	r.RecordHighlight("both", 200, true)

	if v := counterValue(t, r.FilterEvaluationsTotal); v != 2 {
		t.Errorf("evaluations = %v, want 2", v)
	}
	if v := gaugeValue(t, r.FilterVisibleEdges); v != 1 {
		t.Errorf("visible edges = %v, want 1", v)
	}
	both, _ := r.HighlightsTotal.GetMetricWithLabelValues("both")
	if v := counterValue(t, both); v != 2 {
		t.Errorf("highlights = %v, want 2", v)
	}
	if v := counterValue(t, r.HighlightTruncatedTotal); v != 1 {
		t.Errorf("truncated = %v, want 1", v)
	}

	var metric dto.Metric
	if err := r.FilterDuration.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("Sample count = %v, want 2", metric.Histogram.GetSampleCount())
	}
}

func TestRecordLayout(t *testing.T) {
	r := NewRegistry()

	r.RecordLayoutRead("redis", "hit")
	r.RecordLayoutWrite("redis", "success", 2*time.Millisecond)
	r.RecordLayoutWrite("redis", "error", time.Millisecond)
	r.RecordLayoutWrite("redis", "error", time.Millisecond)
	r.RecordLayoutCoalesced()
	r.SetLayoutOverrides(5)

	tests := []struct {
		name     string
		counter  prometheus.Counter
		expected float64
	}{
		{"reads hit", r.LayoutReadsTotal.WithLabelValues("redis", "hit"), 1},
		{"writes success", r.LayoutWritesTotal.WithLabelValues("redis", "success"), 1},
		{"writes error", r.LayoutWritesTotal.WithLabelValues("redis", "error"), 2},
		{"coalesced", r.LayoutWritesCoalescedTotal, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v := counterValue(t, tt.counter); v != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, v, tt.expected)
			}
		})
	}

	if v := gaugeValue(t, r.LayoutOverrides); v != 5 {
		t.Errorf("overrides = %v, want 5", v)
	}
}

func TestNilRegistryIsSafe(t *testing.T) {
	var r *Registry
	r.RecordLoad("initial", 1, 1, 0, 0, 0)
	r.RecordFilter(time.Millisecond, 1, 1)
	r.RecordHighlight("up", 1, false)
	r.RecordWizard(3)
	r.RecordLayoutRead("memory", "miss")
	r.RecordLayoutWrite("memory", "success", time.Millisecond)
	r.RecordLayoutCoalesced()
	r.SetLayoutOverrides(1)
	r.UpdateSystemMetrics()
}

func TestUpdateSystemMetrics(t *testing.T) {
	r := NewRegistry()
	r.UpdateSystemMetrics()

	if v := gaugeValue(t, r.GoRoutines); v < 1 {
		t.Errorf("GoRoutines = %v, want >= 1", v)
	}
	if v := gaugeValue(t, r.MemorySysBytes); v <= 0 {
		t.Errorf("MemorySysBytes = %v, want > 0", v)
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.RecordLayoutWrite("file", "success", time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if v := counterValue(t, r.LayoutWritesTotal.WithLabelValues("file", "success")); v != 1000 {
		t.Errorf("Counter = %v, want 1000", v)
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()
	r.RecordLoad("initial", 1, 1, 1, 1, 1)
	r.RecordHighlight("both", 1, false)
	r.RecordLayoutRead("memory", "hit")
	r.RecordLayoutWrite("memory", "success", time.Millisecond)

	metrics, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if len(metrics) == 0 {
		t.Fatal("No metrics registered")
	}

	names := make(map[string]bool)
	for _, m := range metrics {
		name := m.GetName()
		names[name] = true
		if !strings.HasPrefix(name, "msmap_") {
			t.Errorf("Metric %s does not have msmap_ prefix", name)
		}
	}
	for _, expected := range []string{"msmap_map_nodes", "msmap_layout_reads_total", "msmap_uptime_seconds"} {
		if !names[expected] {
			t.Errorf("Expected metric %s not found", expected)
		}
	}
}
