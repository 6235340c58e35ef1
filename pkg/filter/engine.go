// Package filter computes the visible subset of a management system map from
// a search string, per-category filters and view toggles.
//
// Apply is pure: the same graph and query always give the same result, and
// every returned edge has both endpoints in the returned node set.
package filter

import (
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

// Source is the read side of a graph model
type Source interface {
	Nodes() []mapmodel.Node
	Edges() []mapmodel.Edge
}

// Result is a filtered view. Nodes and edges keep their load order.
type Result struct {
	Nodes []mapmodel.Node
	Edges []mapmodel.Edge
}

// NodeIDs returns the ids of the visible nodes
func (r Result) NodeIDs() []string {
	ids := make([]string, len(r.Nodes))
	for i, n := range r.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// EdgeIDs returns the ids of the visible edges
func (r Result) EdgeIDs() []string {
	ids := make([]string, len(r.Edges))
	for i, e := range r.Edges {
		ids[i] = e.ID
	}
	return ids
}

// Apply runs a filter pass over src
func Apply(src Source, q Query) Result {
	m := compile(q)

	nodes := make([]mapmodel.Node, 0, len(src.Nodes()))
	visible := make(map[string]struct{}, len(src.Nodes()))
	for _, n := range src.Nodes() {
		if !m.match(n) {
			continue
		}
		nodes = append(nodes, n)
		visible[n.ID] = struct{}{}
	}

	edges := make([]mapmodel.Edge, 0, len(src.Edges()))
	for _, e := range src.Edges() {
		if _, ok := visible[e.Source]; !ok {
			continue
		}
		if _, ok := visible[e.Target]; !ok {
			continue
		}
		if !q.Settings.ShowDependencies && !e.IsDependency() {
			continue
		}
		if !q.Settings.ShowNonCritical && !e.IsCritical() {
			continue
		}
		edges = append(edges, e)
	}

	return Result{Nodes: nodes, Edges: edges}
}
