package graph

import (
	"testing"

	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

func node(id string, typ mapmodel.DocType) mapmodel.Node {
	return mapmodel.Node{ID: id, Type: typ, Title: id}
}

func edge(id, source, target string) mapmodel.Edge {
	return mapmodel.Edge{ID: id, Source: source, Target: target, Relationship: mapmodel.RelOutputToInput}
}

func newTestModel(t *testing.T) (*Model, *logging.Recorder) {
	t.Helper()
	rec := logging.NewRecorder()
	return New(WithLogger(rec)), rec
}
