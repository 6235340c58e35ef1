package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-msmap/pkg/layout"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
	"github.com/dd0wney/cluso-msmap/pkg/session"
	"github.com/dd0wney/cluso-msmap/pkg/view"
)

var positionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Position",
	Fields: graphql.Fields{
		"x": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"y": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"source": &graphql.Field{
			Type:        graphql.String,
			Description: "override, authored or fallback",
		},
	},
})

// placementValue flattens a Placement for positionType
func placementValue(p layout.Placement) map[string]any {
	return map[string]any{"x": p.Position.X, "y": p.Position.Y, "source": string(p.Source)}
}

var linkType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Link",
	Fields: graphql.Fields{
		"url":      &graphql.Field{Type: graphql.String},
		"filePath": &graphql.Field{Type: graphql.String},
	},
})

func nodeSource(p graphql.ResolveParams) (mapmodel.Node, bool) {
	n, ok := p.Source.(mapmodel.Node)
	return n, ok
}

func edgeSource(p graphql.ResolveParams) (mapmodel.Edge, bool) {
	e, ok := p.Source.(mapmodel.Edge)
	return e, ok
}

func createNodeType(s *session.Session) *graphql.Object {
	str := func(get func(mapmodel.Node) string) graphql.FieldResolveFn {
		return func(p graphql.ResolveParams) (any, error) {
			if n, ok := nodeSource(p); ok {
				return get(n), nil
			}
			return nil, nil
		}
	}
	list := func(get func(mapmodel.Node) []string) graphql.FieldResolveFn {
		return func(p graphql.ResolveParams) (any, error) {
			if n, ok := nodeSource(p); ok {
				return get(n), nil
			}
			return nil, nil
		}
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: str(func(n mapmodel.Node) string { return n.ID })},
			"type":        &graphql.Field{Type: graphql.String, Resolve: str(func(n mapmodel.Node) string { return string(n.Type) })},
			"title":       &graphql.Field{Type: graphql.String, Resolve: str(func(n mapmodel.Node) string { return n.Title })},
			"code":        &graphql.Field{Type: graphql.String, Resolve: str(func(n mapmodel.Node) string { return n.Code })},
			"description": &graphql.Field{Type: graphql.String, Resolve: str(func(n mapmodel.Node) string { return n.Description })},
			"owner":       &graphql.Field{Type: graphql.String, Resolve: str(func(n mapmodel.Node) string { return n.Owner })},
			"status":      &graphql.Field{Type: graphql.String, Resolve: str(func(n mapmodel.Node) string { return string(n.Status) })},
			"location":    &graphql.Field{Type: graphql.NewList(graphql.String), Resolve: list(func(n mapmodel.Node) []string { return n.Location })},
			"isoClauses":  &graphql.Field{Type: graphql.NewList(graphql.String), Resolve: list(func(n mapmodel.Node) []string { return n.ISOClauses })},
			"tags":        &graphql.Field{Type: graphql.NewList(graphql.String), Resolve: list(func(n mapmodel.Node) []string { return n.Tags })},
			"roles":       &graphql.Field{Type: graphql.NewList(graphql.String), Resolve: list(func(n mapmodel.Node) []string { return n.Roles })},
			"link": &graphql.Field{
				Type: linkType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if n, ok := nodeSource(p); ok && n.Link != nil {
						return map[string]any{"url": n.Link.URL, "filePath": n.Link.FilePath}, nil
					}
					return nil, nil
				},
			},
			"category": &graphql.Field{
				Type: graphql.String,
				Resolve: str(func(n mapmodel.Node) string { return view.NodeStyleFor(n.Type).Category }),
			},
			"shape": &graphql.Field{
				Type: graphql.String,
				Resolve: str(func(n mapmodel.Node) string { return string(view.NodeStyleFor(n.Type).Shape) }),
			},
			"color": &graphql.Field{
				Type: graphql.String,
				Resolve: str(func(n mapmodel.Node) string { return view.NodeStyleFor(n.Type).Accent }),
			},
			"statusColor": &graphql.Field{
				Type: graphql.String,
				Resolve: str(func(n mapmodel.Node) string { return view.StatusStyleFor(n.Status).Indicator }),
			},
			"position": &graphql.Field{
				Type: positionType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					n, ok := nodeSource(p)
					if !ok {
						return nil, nil
					}
					placement, ok := s.Position(n.ID)
					if !ok {
						return nil, nil
					}
					return placementValue(placement), nil
				},
			},
		},
	})
}

var edgeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Edge",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if e, ok := edgeSource(p); ok {
					return e.ID, nil
				}
				return nil, nil
			},
		},
		"source": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if e, ok := edgeSource(p); ok {
					return e.Source, nil
				}
				return nil, nil
			},
		},
		"target": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if e, ok := edgeSource(p); ok {
					return e.Target, nil
				}
				return nil, nil
			},
		},
		"relationship": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if e, ok := edgeSource(p); ok {
					return string(e.Relationship), nil
				}
				return nil, nil
			},
		},
		"label": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if e, ok := edgeSource(p); ok {
					return e.Label, nil
				}
				return nil, nil
			},
		},
		"critical": &graphql.Field{
			Type: graphql.Boolean,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if e, ok := edgeSource(p); ok {
					return e.IsCritical(), nil
				}
				return nil, nil
			},
		},
		"style": &graphql.Field{
			Type: edgeStyleType,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if e, ok := edgeSource(p); ok {
					st := view.EdgeStyleFor(e)
					return map[string]any{"stroke": st.Stroke, "width": st.Width, "animated": st.Animated, "dash": st.Dash}, nil
				}
				return nil, nil
			},
		},
	},
})

var edgeStyleType = graphql.NewObject(graphql.ObjectConfig{
	Name: "EdgeStyle",
	Fields: graphql.Fields{
		"stroke":   &graphql.Field{Type: graphql.String},
		"width":    &graphql.Field{Type: graphql.Float},
		"animated": &graphql.Field{Type: graphql.Boolean},
		"dash":     &graphql.Field{Type: graphql.String},
	},
})

var selectionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Selection",
	Fields: graphql.Fields{
		"nodeId": &graphql.Field{
			Type: graphql.ID,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(session.Selection).NodeID, nil
			},
		},
		"breadcrumb": &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return emptyIfNil(p.Source.(session.Selection).Breadcrumb), nil
			},
		},
		"nodes": &graphql.Field{
			Type:        graphql.NewList(graphql.String),
			Description: "Highlighted node ids, anchor first",
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return emptyIfNil(p.Source.(session.Selection).Highlight.NodeIDs), nil
			},
		},
		"edges": &graphql.Field{
			Type:        graphql.NewList(graphql.String),
			Description: "Highlighted edge ids",
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return emptyIfNil(p.Source.(session.Selection).Highlight.EdgeIDs), nil
			},
		},
		"truncated": &graphql.Field{
			Type: graphql.Boolean,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(session.Selection).Highlight.Truncated, nil
			},
		},
	},
})

var legendEntryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "LegendEntry",
	Fields: graphql.Fields{
		"key":         &graphql.Field{Type: graphql.String},
		"label":       &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"icon":        &graphql.Field{Type: graphql.String},
		"color":       &graphql.Field{Type: graphql.String},
	},
})

var legendType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Legend",
	Fields: graphql.Fields{
		"types":    &graphql.Field{Type: graphql.NewList(legendEntryType)},
		"statuses": &graphql.Field{Type: graphql.NewList(legendEntryType)},
		"edges":    &graphql.Field{Type: graphql.NewList(legendEntryType)},
	},
})

var checklistItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ChecklistItem",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.ID},
		"nodeId":      &graphql.Field{Type: graphql.ID},
		"title":       &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"completed":   &graphql.Field{Type: graphql.Boolean},
		"order":       &graphql.Field{Type: graphql.Int},
	},
})

var wizardResultType = graphql.NewObject(graphql.ObjectConfig{
	Name: "WizardResult",
	Fields: graphql.Fields{
		"checklist":        &graphql.Field{Type: graphql.NewList(checklistItemType)},
		"estimatedMinutes": &graphql.Field{Type: graphql.Int},
		"estimatedTime":    &graphql.Field{Type: graphql.String},
	},
})

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
