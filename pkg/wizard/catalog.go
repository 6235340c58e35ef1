package wizard

import (
	"sort"

	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

// Catalogs are the suggestion lists offered as wizard input
type Catalogs struct {
	Roles      []string `json:"roles"`
	Locations  []string `json:"locations"`
	Activities []string `json:"activities"`
}

// CatalogsFor returns the document's catalogs, deriving any that are empty
// from the node roles, locations and tags
func CatalogsFor(doc mapmodel.Document) Catalogs {
	c := Catalogs{
		Roles:      doc.RolesCatalog,
		Locations:  doc.LocationsCatalog,
		Activities: doc.ActivitiesCatalog,
	}
	if len(c.Roles) == 0 {
		c.Roles = collect(doc.Nodes, func(n mapmodel.Node) []string { return n.Roles })
	}
	if len(c.Locations) == 0 {
		c.Locations = collect(doc.Nodes, func(n mapmodel.Node) []string { return n.Location })
	}
	if len(c.Activities) == 0 {
		c.Activities = collect(doc.Nodes, func(n mapmodel.Node) []string { return n.Tags })
	}
	return c
}

func collect(nodes []mapmodel.Node, values func(mapmodel.Node) []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, n := range nodes {
		for _, v := range values(n) {
			if v != "" && !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}
