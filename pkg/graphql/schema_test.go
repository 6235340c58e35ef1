package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-msmap/pkg/layout"
	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
	"github.com/dd0wney/cluso-msmap/pkg/session"
)

func setupSchema(t *testing.T) (graphql.Schema, *session.Session) {
	t.Helper()

	store := layout.Open(context.Background(), layout.NewMemoryBackend(), layout.Options{Logger: logging.NewNopLogger()})
	t.Cleanup(func() { store.Close() })

	s := session.New(store, session.Options{Logger: logging.NewNopLogger()})
	s.Load(
		[]mapmodel.Node{
			{ID: "POL", Type: mapmodel.TypePolicy, Title: "WHS Policy", Status: mapmodel.StatusGreen},
			{ID: "PRO", Type: mapmodel.TypeProcedure, Title: "Hazard Reporting", Tags: []string{"safety"}},
			{ID: "ISO", Type: mapmodel.TypeExternalStandard, Title: "ISO 45001"},
		},
		[]mapmodel.Edge{
			{ID: "e1", Source: "POL", Target: "PRO", Relationship: mapmodel.RelOutputToInput},
			{ID: "e2", Source: "ISO", Target: "POL", Relationship: mapmodel.RelGoverns, Critical: mapmodel.Bool(false)},
			{ID: "e3", Source: "PRO", Target: "GONE", Relationship: mapmodel.RelOutputToInput},
		},
	)

	schema, err := GenerateSchema(s)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}
	return schema, s
}

func execute(schema graphql.Schema, query string) *graphql.Result {
	return graphql.Do(graphql.Params{Schema: schema, RequestString: query})
}

func run(t *testing.T, schema graphql.Schema, query string) map[string]any {
	t.Helper()
	result := execute(schema, query)
	if result.HasErrors() {
		t.Fatalf("query errors: %v", result.Errors)
	}
	data, ok := result.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data %T", result.Data)
	}
	return data
}

func ids(t *testing.T, list any) []string {
	t.Helper()
	items, ok := list.([]any)
	if !ok {
		t.Fatalf("expected list, got %T", list)
	}
	out := make([]string, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case map[string]any:
			out[i], _ = v["id"].(string)
		case string:
			out[i] = v
		}
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestVisible_Unfiltered(t *testing.T) {
	schema, _ := setupSchema(t)

	data := run(t, schema, `{ visible { nodes { id category statusColor } edges { id critical } } }`)
	visible := data["visible"].(map[string]any)

	if got := ids(t, visible["nodes"]); !equal(got, []string{"POL", "PRO", "ISO"}) {
		t.Errorf("nodes = %v", got)
	}
	if got := ids(t, visible["edges"]); !equal(got, []string{"e1", "e2"}) {
		t.Errorf("edges = %v, dangling e3 must not appear", got)
	}

	first := visible["nodes"].([]any)[0].(map[string]any)
	if first["category"] != "Policy" {
		t.Errorf("category = %v", first["category"])
	}
	if first["statusColor"] != "#22c55e" {
		t.Errorf("statusColor = %v", first["statusColor"])
	}
}

func TestVisible_Arguments(t *testing.T) {
	schema, s := setupSchema(t)

	tests := []struct {
		name      string
		query     string
		wantNodes []string
		wantEdges []string
	}{
		{"search tag", `{ visible(search: "SAFETY") { nodes { id } edges { id } } }`, []string{"PRO"}, []string{}},
		{"type filter", `{ visible(type: ["policy", "procedure"]) { nodes { id } edges { id } } }`, []string{"POL", "PRO"}, []string{"e1"}},
		{"hide external", `{ visible(showExternal: false) { nodes { id } edges { id } } }`, []string{"POL", "PRO"}, []string{"e1"}},
		{"hide non-critical", `{ visible(showNonCritical: false) { nodes { id } edges { id } } }`, []string{"POL", "PRO", "ISO"}, []string{"e1"}},
		{"no match", `{ visible(owner: ["nobody"]) { nodes { id } edges { id } } }`, []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible := run(t, schema, tt.query)["visible"].(map[string]any)
			if got := ids(t, visible["nodes"]); !equal(got, tt.wantNodes) {
				t.Errorf("nodes = %v, want %v", got, tt.wantNodes)
			}
			if got := ids(t, visible["edges"]); !equal(got, tt.wantEdges) {
				t.Errorf("edges = %v, want %v", got, tt.wantEdges)
			}
		})
	}

	if q := s.Query(); q.Search != "" || !q.Filters.IsEmpty() {
		t.Errorf("visible must not change the session query, got %+v", q)
	}
}

func TestMutation_SelectAndDrag(t *testing.T) {
	schema, s := setupSchema(t)

	data := run(t, schema, `mutation { select(id: "PRO") { nodeId breadcrumb nodes edges truncated } }`)
	sel := data["select"].(map[string]any)
	if got := ids(t, sel["breadcrumb"]); !equal(got, []string{"POL", "PRO"}) {
		t.Errorf("breadcrumb = %v", got)
	}
	if got := ids(t, sel["nodes"]); !equal(got, []string{"PRO", "POL"}) {
		t.Errorf("highlight nodes = %v", got)
	}
	if s.Selection().NodeID != "PRO" {
		t.Errorf("session selection = %q", s.Selection().NodeID)
	}

	data = run(t, schema, `mutation { select(id: "missing") { nodeId nodes } }`)
	if got := ids(t, data["select"].(map[string]any)["nodes"]); len(got) != 0 {
		t.Errorf("unknown id highlighted %v", got)
	}

	data = run(t, schema, `mutation { dragStop(id: "POL", x: 120, y: 45.5) { x y source } }`)
	pos := data["dragStop"].(map[string]any)
	if pos["x"] != 120.0 || pos["y"] != 45.5 || pos["source"] != "override" {
		t.Errorf("dragStop = %v", pos)
	}

	data = run(t, schema, `{ node(id: "POL") { position { x y source } } }`)
	pos = data["node"].(map[string]any)["position"].(map[string]any)
	if pos["source"] != "override" {
		t.Errorf("node position = %v", pos)
	}
}

func TestMutation_SetHighlightPath(t *testing.T) {
	schema, s := setupSchema(t)
	s.Select("PRO")

	data := run(t, schema, `mutation { setHighlightPath(enabled: false) { nodeId breadcrumb nodes } }`)
	sel := data["setHighlightPath"].(map[string]any)
	if sel["nodeId"] != "PRO" {
		t.Errorf("nodeId = %v", sel["nodeId"])
	}
	if got := ids(t, sel["nodes"]); len(got) != 0 {
		t.Errorf("nodes = %v, want none with highlighting off", got)
	}
	if got := ids(t, sel["breadcrumb"]); !equal(got, []string{"POL", "PRO"}) {
		t.Errorf("breadcrumb = %v", got)
	}
	if s.HighlightPath() {
		t.Error("session still highlights")
	}
}

func TestQuery_LegendAndWizard(t *testing.T) {
	schema, _ := setupSchema(t)

	data := run(t, schema, `{ legend { types { key label } statuses { key } } wizard { estimatedTime checklist { nodeId order } } }`)
	legend := data["legend"].(map[string]any)
	if n := len(legend["types"].([]any)); n != len(mapmodel.DocTypes) {
		t.Errorf("legend types = %d", n)
	}
	if n := len(legend["statuses"].([]any)); n != len(mapmodel.Statuses) {
		t.Errorf("legend statuses = %d", n)
	}

	checklist := data["wizard"].(map[string]any)["checklist"].([]any)
	if len(checklist) == 0 {
		t.Fatal("expected a checklist")
	}
	if order := checklist[0].(map[string]any)["order"]; order != 1 {
		t.Errorf("first order = %v", order)
	}
}

func TestGraphQLHTTPHandler(t *testing.T) {
	schema, _ := setupSchema(t)
	handler := NewGraphQLHandler(schema, logging.NewNopLogger())

	body, _ := json.Marshal(GraphQLRequest{Query: `{ health node(id: "PRO") { title tags } }`})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp GraphQLResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Errors) > 0 {
		t.Fatalf("errors: %v", resp.Errors)
	}
	node := resp.Data.(map[string]any)["node"].(map[string]any)
	if node["title"] != "Hazard Reporting" {
		t.Errorf("title = %v", node["title"])
	}
}

func TestGraphQLHTTPHandler_Methods(t *testing.T) {
	schema, _ := setupSchema(t)
	handler := NewGraphQLHandler(schema, logging.NewNopLogger())

	tests := []struct {
		method string
		body   string
		want   int
	}{
		{http.MethodOptions, "", http.StatusOK},
		{http.MethodGet, "", http.StatusMethodNotAllowed},
		{http.MethodPost, "{not json", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(tt.method, "/graphql", bytes.NewBufferString(tt.body)))
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.method, rec.Code, tt.want)
		}
	}
}
