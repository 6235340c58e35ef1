package filter

import (
	"testing"

	"github.com/dd0wney/cluso-msmap/pkg/graph"
	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

func loadModel(t *testing.T, nodes []mapmodel.Node, edges []mapmodel.Edge) *graph.Model {
	t.Helper()
	m := graph.New(graph.WithLogger(logging.NewNopLogger()))
	m.Load(nodes, edges)
	return m
}

func ids(nodes []mapmodel.Node) map[string]bool {
	out := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		out[n.ID] = true
	}
	return out
}

func sampleGraph(t *testing.T) *graph.Model {
	t.Helper()
	nodes := []mapmodel.Node{
		{ID: "pol", Type: mapmodel.TypePolicy, Title: "Quality Policy", Code: "POL-001", Status: mapmodel.StatusGreen,
			Owner: "CEO", Location: []string{"Head Office"}, ISOClauses: []string{"ISO9001: 5.2"}, Tags: []string{"quality"}},
		{ID: "proc", Type: mapmodel.TypeProcedure, Title: "Document Control", Code: "PRO-004", Status: mapmodel.StatusAmber,
			Owner: "Quality Manager", Location: []string{"Head Office", "Plant A"}, ISOClauses: []string{"ISO9001: 7.5"}, Tags: []string{"documents"}},
		{ID: "review", Type: mapmodel.TypeRecord, Title: "Quarterly Review", Tags: []string{"safety"}},
		{ID: "sop", Type: mapmodel.TypeSOP, Title: "Lockout Tagout", Description: "Energy isolation steps",
			Location: []string{"Plant A"}, ISOClauses: []string{"ISO45001: 8.1"}, Status: mapmodel.StatusRed},
		{ID: "iso", Type: mapmodel.TypeExternalStandard, Title: "ISO 45001:2018", Code: "ISO-45001", Status: mapmodel.StatusGreen},
	}
	edges := []mapmodel.Edge{
		{ID: "pol-proc", Source: "pol", Target: "proc", Relationship: mapmodel.RelOutputToInput},
		{ID: "proc-sop", Source: "proc", Target: "sop", Relationship: mapmodel.RelSupports},
		{ID: "sop-review", Source: "sop", Target: "review", Relationship: mapmodel.RelOutputToInput, Critical: mapmodel.Bool(false)},
		{ID: "iso-sop", Source: "iso", Target: "sop", Relationship: mapmodel.RelGoverns},
		{ID: "dangling", Source: "pol", Target: "gone", Relationship: mapmodel.RelOutputToInput},
	}
	return loadModel(t, nodes, edges)
}

func TestApply_NoCriteriaReturnsEverything(t *testing.T) {
	m := sampleGraph(t)
	res := Apply(m, DefaultQuery())

	if len(res.Nodes) != 5 {
		t.Errorf("nodes = %d, want 5", len(res.Nodes))
	}
	if len(res.Edges) != 4 {
		t.Errorf("edges = %d, want 4 (validated set)", len(res.Edges))
	}
	for _, e := range res.Edges {
		if e.ID == "dangling" {
			t.Error("dangling edge leaked into result")
		}
	}
}

func TestApply_ScenarioDanglingEdge(t *testing.T) {
	m := loadModel(t,
		[]mapmodel.Node{{ID: "P1", Type: mapmodel.TypePolicy, Title: "P1"}, {ID: "R1", Type: mapmodel.TypeProcedure, Title: "R1"}},
		[]mapmodel.Edge{{ID: "e", Source: "P1", Target: "X"}},
	)

	res := Apply(m, DefaultQuery())
	got := res.NodeIDs()
	if len(got) != 2 || got[0] != "P1" || got[1] != "R1" {
		t.Errorf("nodes = %v, want [P1 R1]", got)
	}
	if len(res.Edges) != 0 {
		t.Errorf("edges = %v, want none", res.EdgeIDs())
	}
}

func TestApply_SearchMatchesFields(t *testing.T) {
	m := sampleGraph(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"safety", []string{"review"}},          // tag only, title does not contain it
		{"QUARTERLY", []string{"review"}},       // title, case-insensitive
		{"pro-004", []string{"proc"}},           // code
		{"isolation", []string{"sop"}},          // description
		{"iso9001", []string{"pol", "proc"}},    // iso clauses
		{"45001", []string{"sop", "iso"}},       // clause on sop, title and code on iso
		{"no such artifact", nil},
		{"   ", nil},                  // whitespace is matched literally
		{"quality ", []string{"pol"}}, // trailing space is part of the query
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q := DefaultQuery()
			q.Search = tt.query
			got := Apply(m, q).NodeIDs()
			if len(got) != len(tt.want) {
				t.Fatalf("Search %q = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Search %q = %v, want %v", tt.query, got, tt.want)
				}
			}
		})
	}
}

func TestApply_SearchKeepsWhitespace(t *testing.T) {
	m := loadModel(t, []mapmodel.Node{
		{ID: "a", Type: mapmodel.TypePolicy, Title: "Quality Policy"},
		{ID: "b", Type: mapmodel.TypePolicy, Title: "Qualityassurance"},
		{ID: "c", Type: mapmodel.TypePolicy, Title: "Gap   Analysis"},
	}, nil)

	tests := []struct {
		query string
		want  []string
	}{
		{"quality", []string{"a", "b"}},
		{"quality ", []string{"a"}},
		{" quality", nil},
		{"   ", []string{"c"}},
		{"", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		q := DefaultQuery()
		q.Search = tt.query
		got := Apply(m, q).NodeIDs()
		if len(got) != len(tt.want) {
			t.Fatalf("Search %q = %v, want %v", tt.query, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("Search %q = %v, want %v", tt.query, got, tt.want)
			}
		}
	}
}

func TestApply_CategoryFilters(t *testing.T) {
	m := sampleGraph(t)

	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"type policy only", Filters{Type: []string{"policy"}}, []string{"pol"}},
		{"type OR within category", Filters{Type: []string{"policy", "sop"}}, []string{"pol", "sop"}},
		{"status draft matches absent status", Filters{Status: []string{"draft"}}, []string{"review"}},
		{"owner skips nodes without owner", Filters{Owner: []string{"CEO", "Quality Manager"}}, []string{"pol", "proc"}},
		{"location intersects", Filters{Location: []string{"Plant A"}}, []string{"proc", "sop"}},
		{"iso clause prefix", Filters{ISOClause: []string{"iso45001"}}, []string{"sop"}},
		{"tags exact", Filters{Tags: []string{"quality", "safety"}}, []string{"pol", "review"}},
		{"AND across categories", Filters{Location: []string{"Plant A"}, Status: []string{"red"}}, []string{"sop"}},
		{"no match is valid", Filters{Type: []string{"training"}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := DefaultQuery()
			q.Filters = tt.filters
			res := Apply(m, q)
			got := res.NodeIDs()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
			assertClosed(t, res)
		})
	}
}

func TestApply_TypeFilterIgnoresStatus(t *testing.T) {
	m := loadModel(t, []mapmodel.Node{
		{ID: "p1", Type: mapmodel.TypePolicy, Title: "a", Status: mapmodel.StatusGreen},
		{ID: "p2", Type: mapmodel.TypePolicy, Title: "b", Status: mapmodel.StatusArchived},
		{ID: "p3", Type: mapmodel.TypePolicy, Title: "c"},
		{ID: "r1", Type: mapmodel.TypeProcedure, Title: "d", Status: mapmodel.StatusGreen},
	}, nil)

	q := DefaultQuery()
	q.Filters.Type = []string{"policy"}
	got := ids(Apply(m, q).Nodes)
	if len(got) != 3 || !got["p1"] || !got["p2"] || !got["p3"] {
		t.Errorf("got %v, want all three policies", got)
	}
}

func TestApply_ShowExternal(t *testing.T) {
	m := sampleGraph(t)
	q := DefaultQuery()
	q.Settings.ShowExternal = false
	res := Apply(m, q)

	for _, n := range res.Nodes {
		if n.Type == mapmodel.TypeExternalStandard {
			t.Errorf("external node %s still visible", n.ID)
		}
	}
	for _, e := range res.Edges {
		if e.Source == "iso" || e.Target == "iso" {
			t.Errorf("edge %s touches a hidden external node", e.ID)
		}
	}
	if len(res.Nodes) != 4 {
		t.Errorf("nodes = %d, want 4", len(res.Nodes))
	}
}

func TestApply_ShowDependencies(t *testing.T) {
	m := sampleGraph(t)
	q := DefaultQuery()
	q.Settings.ShowDependencies = false
	res := Apply(m, q)

	got := res.EdgeIDs()
	if len(got) != 2 || got[0] != "pol-proc" || got[1] != "sop-review" {
		t.Errorf("edges = %v, want only outputToInput edges", got)
	}
	if len(res.Nodes) != 5 {
		t.Errorf("dependency toggle must not hide nodes, got %d", len(res.Nodes))
	}
}

func TestApply_ShowNonCriticalToggle(t *testing.T) {
	m := sampleGraph(t)
	q := DefaultQuery()

	q.Settings.ShowNonCritical = false
	hidden := Apply(m, q)
	for _, e := range hidden.Edges {
		if !e.IsCritical() {
			t.Errorf("non-critical edge %s visible", e.ID)
		}
	}
	if len(hidden.Edges) != 3 {
		t.Errorf("edges = %v, want the 3 critical edges", hidden.EdgeIDs())
	}

	q.Settings.ShowNonCritical = true
	if shown := Apply(m, q); len(shown.Edges) != 4 {
		t.Errorf("toggling back should restore all 4 edges, got %v", shown.EdgeIDs())
	}
}

func TestApply_FilteredNodeDropsItsEdges(t *testing.T) {
	m := sampleGraph(t)
	q := DefaultQuery()
	q.Filters.Type = []string{"policy", "procedure"}
	res := Apply(m, q)

	got := res.EdgeIDs()
	if len(got) != 1 || got[0] != "pol-proc" {
		t.Errorf("edges = %v, want [pol-proc]", got)
	}
}

func TestFilters_Merge(t *testing.T) {
	base := Filters{Type: []string{"policy"}, Tags: []string{"safety"}}
	merged := base.Merge(Filters{Type: []string{"sop"}, Tags: []string{}})

	if len(merged.Type) != 1 || merged.Type[0] != "sop" {
		t.Errorf("Type = %v, want [sop]", merged.Type)
	}
	if len(merged.Tags) != 0 {
		t.Errorf("empty slice should clear Tags, got %v", merged.Tags)
	}

	kept := base.Merge(Filters{})
	if len(kept.Type) != 1 || len(kept.Tags) != 1 {
		t.Errorf("nil update should keep categories, got %+v", kept)
	}
	if !(Filters{}).IsEmpty() || base.IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
}

func assertClosed(t *testing.T, res Result) {
	t.Helper()
	visible := ids(res.Nodes)
	for _, e := range res.Edges {
		if !visible[e.Source] || !visible[e.Target] {
			t.Errorf("edge %s escapes the node set (%s -> %s)", e.ID, e.Source, e.Target)
		}
	}
}
