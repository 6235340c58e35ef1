package highlight

import (
	"fmt"
	"testing"

	"github.com/dd0wney/cluso-msmap/pkg/graph"
	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

func buildGraph(t *testing.T, nodeIDs []string, edges [][3]string) *graph.Model {
	t.Helper()
	nodes := make([]mapmodel.Node, len(nodeIDs))
	for i, id := range nodeIDs {
		nodes[i] = mapmodel.Node{ID: id, Type: mapmodel.TypeProcedure, Title: id}
	}
	es := make([]mapmodel.Edge, len(edges))
	for i, e := range edges {
		es[i] = mapmodel.Edge{ID: e[0], Source: e[1], Target: e[2], Relationship: mapmodel.RelOutputToInput}
	}
	m := graph.New(graph.WithLogger(logging.NewNopLogger()))
	m.Load(nodes, es)
	return m
}

func TestHighlight_UnknownNode(t *testing.T) {
	g := buildGraph(t, []string{"A"}, nil)

	if res := Highlight(g, "missing", DefaultOptions()); !res.Empty() || len(res.EdgeIDs) != 0 {
		t.Errorf("unknown node should give empty result, got %+v", res)
	}
	if res := Highlight(g, "", DefaultOptions()); !res.Empty() {
		t.Errorf("empty id should give empty result, got %+v", res)
	}
}

func TestHighlight_Directions(t *testing.T) {
	// A -> B -> C, D -> B
	g := buildGraph(t, []string{"A", "B", "C", "D"}, [][3]string{
		{"ab", "A", "B"}, {"bc", "B", "C"}, {"db", "D", "B"},
	})

	tests := []struct {
		dir   Direction
		nodes []string
		edges []string
	}{
		{Downstream, []string{"B", "C"}, []string{"bc"}},
		{Upstream, []string{"B", "A", "D"}, []string{"ab", "db"}},
		{Both, []string{"B", "C", "A", "D"}, []string{"bc", "ab", "db"}},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Direction = tt.dir
			res := Highlight(g, "B", opts)

			if fmt.Sprint(res.NodeIDs) != fmt.Sprint(tt.nodes) {
				t.Errorf("nodes = %v, want %v", res.NodeIDs, tt.nodes)
			}
			if fmt.Sprint(res.EdgeIDs) != fmt.Sprint(tt.edges) {
				t.Errorf("edges = %v, want %v", res.EdgeIDs, tt.edges)
			}
			if res.Anchor != "B" || res.Depth["B"] != 0 {
				t.Errorf("anchor = %q depth %d", res.Anchor, res.Depth["B"])
			}
		})
	}
}

func TestHighlight_SkipsNonCriticalEdges(t *testing.T) {
	nodes := []mapmodel.Node{
		{ID: "A", Type: mapmodel.TypePolicy, Title: "A"},
		{ID: "B", Type: mapmodel.TypeProcedure, Title: "B"},
		{ID: "C", Type: mapmodel.TypeForm, Title: "C"},
	}
	edges := []mapmodel.Edge{
		{ID: "ab", Source: "A", Target: "B"},
		{ID: "bc", Source: "B", Target: "C", Critical: mapmodel.Bool(false)},
	}
	g := graph.New(graph.WithLogger(logging.NewNopLogger()))
	g.Load(nodes, edges)

	res := Highlight(g, "A", DefaultOptions())
	if res.HasNode("C") || res.HasEdge("bc") {
		t.Errorf("non-critical edge was followed: %+v", res)
	}
	if !res.HasNode("B") || !res.HasEdge("ab") {
		t.Errorf("critical edge not followed: %+v", res)
	}
}

func TestHighlight_CycleTerminates(t *testing.T) {
	// A -> B -> C -> A, plus C -> C self reference
	g := buildGraph(t, []string{"A", "B", "C"}, [][3]string{
		{"ab", "A", "B"}, {"bc", "B", "C"}, {"ca", "C", "A"}, {"cc", "C", "C"},
	})

	for _, dir := range []Direction{Upstream, Downstream, Both} {
		opts := DefaultOptions()
		opts.Direction = dir
		res := Highlight(g, "A", opts)

		seen := make(map[string]bool)
		for _, id := range res.NodeIDs {
			if seen[id] {
				t.Fatalf("%s: node %s visited twice: %v", dir, id, res.NodeIDs)
			}
			seen[id] = true
		}
		if len(res.NodeIDs) != 3 {
			t.Errorf("%s: nodes = %v, want all 3", dir, res.NodeIDs)
		}
		if len(res.EdgeIDs) != 4 {
			t.Errorf("%s: edges = %v, want all 4 cycle edges", dir, res.EdgeIDs)
		}
	}
}

func TestHighlight_Bounds(t *testing.T) {
	// chain n0 -> n1 -> ... -> n9
	var ids []string
	var edges [][3]string
	for i := 0; i < 10; i++ {
		ids = append(ids, fmt.Sprintf("n%d", i))
		if i > 0 {
			edges = append(edges, [3]string{fmt.Sprintf("e%d", i), fmt.Sprintf("n%d", i-1), fmt.Sprintf("n%d", i)})
		}
	}
	g := buildGraph(t, ids, edges)

	depthLimited := Highlight(g, "n0", Options{Direction: Downstream, MaxDepth: 3})
	if len(depthLimited.NodeIDs) != 4 || !depthLimited.Truncated {
		t.Errorf("MaxDepth=3: nodes = %v truncated=%v", depthLimited.NodeIDs, depthLimited.Truncated)
	}
	if depthLimited.Depth["n3"] != 3 {
		t.Errorf("depth of n3 = %d, want 3", depthLimited.Depth["n3"])
	}

	sizeLimited := Highlight(g, "n0", Options{Direction: Downstream, MaxDepth: 50, MaxNodes: 5})
	if len(sizeLimited.NodeIDs) != 5 || !sizeLimited.Truncated {
		t.Errorf("MaxNodes=5: nodes = %v truncated=%v", sizeLimited.NodeIDs, sizeLimited.Truncated)
	}
	for _, e := range sizeLimited.EdgeIDs {
		if e == "e5" {
			t.Error("edge to a node beyond MaxNodes must not be highlighted")
		}
	}

	full := Highlight(g, "n0", Options{Direction: Downstream, MaxDepth: 50})
	if len(full.NodeIDs) != 10 || full.Truncated {
		t.Errorf("unbounded: nodes = %d truncated=%v", len(full.NodeIDs), full.Truncated)
	}
}

func TestHighlight_DenseGraphBounded(t *testing.T) {
	const n = 60
	var ids []string
	var edges [][3]string
	for i := 0; i < n; i++ {
		ids = append(ids, fmt.Sprintf("n%d", i))
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				edges = append(edges, [3]string{fmt.Sprintf("e%d-%d", i, j), ids[i], ids[j]})
			}
		}
	}
	g := buildGraph(t, ids, edges)

	res := Highlight(g, "n0", DefaultOptions())
	if len(res.NodeIDs) != n {
		t.Errorf("nodes = %d, want %d", len(res.NodeIDs), n)
	}
	res = Highlight(g, "n0", Options{Direction: Both, MaxDepth: 10, MaxNodes: 20})
	if len(res.NodeIDs) != 20 || !res.Truncated {
		t.Errorf("bounded dense highlight: nodes = %d truncated=%v", len(res.NodeIDs), res.Truncated)
	}
	inSet := make(map[string]bool)
	for _, id := range res.NodeIDs {
		inSet[id] = true
	}
	for _, id := range res.EdgeIDs {
		var src, dst int
		fmt.Sscanf(id, "e%d-%d", &src, &dst)
		if !inSet[fmt.Sprintf("n%d", src)] || !inSet[fmt.Sprintf("n%d", dst)] {
			t.Fatalf("edge %s leaves the highlighted node set", id)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := map[string]Direction{"": Both, "both": Both, "Upstream": Upstream, "down": Downstream}
	for in, want := range tests {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
}
