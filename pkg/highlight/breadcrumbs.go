package highlight

// MaxBreadcrumbDepth bounds how far upstream a breadcrumb trail reaches
const MaxBreadcrumbDepth = 10

type crumb struct {
	nodeID string
	depth  int
}

// Breadcrumbs returns the upstream critical trail of nodeID, root-most first
// and nodeID last. Upstream branches are explored depth-first in edge load
// order with an explicit stack; revisits are skipped so cycles terminate.
func Breadcrumbs(g Graph, nodeID string) []string {
	if nodeID == "" || !g.HasNode(nodeID) {
		return nil
	}

	visited := make(map[string]bool)
	var preorder []string

	stack := []crumb{{nodeID: nodeID, depth: 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.depth > MaxBreadcrumbDepth || visited[top.nodeID] {
			continue
		}
		visited[top.nodeID] = true
		preorder = append(preorder, top.nodeID)

		incoming := g.Incoming(top.nodeID)
		for i := len(incoming) - 1; i >= 0; i-- {
			e := incoming[i]
			if !e.IsCritical() || visited[e.Source] {
				continue
			}
			stack = append(stack, crumb{nodeID: e.Source, depth: top.depth + 1})
		}
	}

	trail := make([]string, len(preorder))
	for i, id := range preorder {
		trail[len(preorder)-1-i] = id
	}
	return trail
}
