// Package wizard computes the minimal set of documents someone in a given
// role, doing given activities at given locations, has to work through.
package wizard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

// Graph is the model the wizard reads
type Graph interface {
	Nodes() []mapmodel.Node
	Node(id string) (mapmodel.Node, error)
	Outgoing(nodeID string) []mapmodel.Edge
	Incoming(nodeID string) []mapmodel.Edge
}

// Criteria selects relevant nodes. Empty lists do not constrain.
type Criteria struct {
	Roles      []string `json:"roles"`
	Activities []string `json:"activities"`
	Locations  []string `json:"locations"`
}

// ChecklistItem is one step of the computed path
type ChecklistItem struct {
	ID          string         `json:"id"`
	NodeID      string         `json:"nodeId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Completed   bool           `json:"completed"`
	Order       int            `json:"order"`
	Link        *mapmodel.Link `json:"link,omitempty"`
}

// Result is the minimal path with its checklist and time estimate
type Result struct {
	Path             []mapmodel.Node `json:"path"`
	Checklist        []ChecklistItem `json:"checklist"`
	EstimatedMinutes int             `json:"estimatedMinutes"`
	EstimatedTime    string          `json:"estimatedTime"`
}

// ComputeMinimalPath selects the nodes matching c, walks a chain from each
// relevant node without an incoming critical edge, and merges the chains
// into one path ordered by document hierarchy.
func ComputeMinimalPath(g Graph, c Criteria) Result {
	var paths [][]mapmodel.Node
	for _, n := range g.Nodes() {
		if !relevant(n, c) || hasIncomingCritical(g, n.ID) {
			continue
		}
		paths = append(paths, walkFrom(g, n))
	}

	path := mergePaths(paths)
	minutes := EstimateMinutes(path)
	return Result{
		Path:             path,
		Checklist:        BuildChecklist(path),
		EstimatedMinutes: minutes,
		EstimatedTime:    FormatDuration(minutes),
	}
}

func relevant(n mapmodel.Node, c Criteria) bool {
	return matchesRole(n, c.Roles) && matchesActivity(n, c.Activities) && matchesLocation(n, c.Locations)
}

func matchesRole(n mapmodel.Node, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, want := range roles {
		if anyContains(n.Roles, want) {
			return true
		}
	}
	return false
}

func matchesActivity(n mapmodel.Node, activities []string) bool {
	if len(activities) == 0 {
		return true
	}
	for _, want := range activities {
		if anyContains(n.Tags, want) || containsFold(n.Title, want) {
			return true
		}
	}
	return false
}

func matchesLocation(n mapmodel.Node, locations []string) bool {
	if len(locations) == 0 {
		return true
	}
	for _, want := range locations {
		if anyContains(n.Location, want) {
			return true
		}
	}
	return false
}

func anyContains(values []string, sub string) bool {
	for _, v := range values {
		if containsFold(v, sub) {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func hasIncomingCritical(g Graph, id string) bool {
	for _, e := range g.Incoming(id) {
		if e.IsCritical() {
			return true
		}
	}
	return false
}

// walkFrom follows the first outgoing edge to an unvisited node until none is left
func walkFrom(g Graph, start mapmodel.Node) []mapmodel.Node {
	path := []mapmodel.Node{start}
	visited := map[string]bool{start.ID: true}

	current := start.ID
	for {
		var next *mapmodel.Node
		for _, e := range g.Outgoing(current) {
			if visited[e.Target] {
				continue
			}
			n, err := g.Node(e.Target)
			if err != nil {
				continue
			}
			next = &n
			break
		}
		if next == nil {
			return path
		}
		path = append(path, *next)
		visited[next.ID] = true
		current = next.ID
	}
}

// rank orders known types by hierarchy and puts unknown types last
func rank(t mapmodel.DocType) int {
	if r := t.Rank(); r >= 0 {
		return r
	}
	return len(mapmodel.DocTypes)
}

func firstRank(p []mapmodel.Node) int {
	if len(p) == 0 {
		return len(mapmodel.DocTypes)
	}
	return rank(p[0].Type)
}

// mergePaths takes longer chains first, then chains starting higher in the
// hierarchy, drops repeats, and orders the union by type
func mergePaths(paths [][]mapmodel.Node) []mapmodel.Node {
	if len(paths) == 0 {
		return []mapmodel.Node{}
	}

	sort.SliceStable(paths, func(i, j int) bool {
		if len(paths[i]) != len(paths[j]) {
			return len(paths[i]) > len(paths[j])
		}
		return firstRank(paths[i]) < firstRank(paths[j])
	})

	merged := make([]mapmodel.Node, 0)
	used := make(map[string]bool)
	for _, p := range paths {
		for _, n := range p {
			if !used[n.ID] {
				used[n.ID] = true
				merged = append(merged, n)
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return rank(merged[i].Type) < rank(merged[j].Type)
	})
	return merged
}

// BuildChecklist numbers the path from 1
func BuildChecklist(path []mapmodel.Node) []ChecklistItem {
	items := make([]ChecklistItem, len(path))
	for i, n := range path {
		items[i] = ChecklistItem{
			ID:          n.ID,
			NodeID:      n.ID,
			Title:       n.Title,
			Description: fmt.Sprintf("Complete %s: %s", n.Type.Label(), n.Title),
			Order:       i + 1,
			Link:        n.Link,
		}
	}
	return items
}
