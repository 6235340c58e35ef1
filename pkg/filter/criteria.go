package filter

import "slices"

// Filters holds the per-category allowed values. An empty category places no
// constraint on nodes.
type Filters struct {
	Type      []string `json:"type" yaml:"type"`
	Status    []string `json:"status" yaml:"status"`
	Owner     []string `json:"owner" yaml:"owner"`
	Location  []string `json:"location" yaml:"location"`
	ISOClause []string `json:"isoClause" yaml:"isoClause"`
	Tags      []string `json:"tags" yaml:"tags"`
}

// IsEmpty reports whether no category is constrained
func (f Filters) IsEmpty() bool {
	return len(f.Type) == 0 && len(f.Status) == 0 && len(f.Owner) == 0 &&
		len(f.Location) == 0 && len(f.ISOClause) == 0 && len(f.Tags) == 0
}

// Merge returns f with every non-nil category of update replacing the
// corresponding category. A nil slice in update leaves the category as is;
// an empty non-nil slice clears it.
func (f Filters) Merge(update Filters) Filters {
	pick := func(cur, next []string) []string {
		if next == nil {
			return slices.Clone(cur)
		}
		return slices.Clone(next)
	}
	return Filters{
		Type:      pick(f.Type, update.Type),
		Status:    pick(f.Status, update.Status),
		Owner:     pick(f.Owner, update.Owner),
		Location:  pick(f.Location, update.Location),
		ISOClause: pick(f.ISOClause, update.ISOClause),
		Tags:      pick(f.Tags, update.Tags),
	}
}

// Settings are the view toggles applied after category filtering
type Settings struct {
	ShowDependencies bool `json:"showDependencies" yaml:"showDependencies"`
	ShowNonCritical  bool `json:"showNonCritical" yaml:"showNonCritical"`
	ShowExternal     bool `json:"showExternal" yaml:"showExternal"`
}

// DefaultSettings shows everything
func DefaultSettings() Settings {
	return Settings{ShowDependencies: true, ShowNonCritical: true, ShowExternal: true}
}

// Query is the complete input of a filter pass
type Query struct {
	Search   string
	Filters  Filters
	Settings Settings
}

// DefaultQuery matches the full graph
func DefaultQuery() Query {
	return Query{Settings: DefaultSettings()}
}
