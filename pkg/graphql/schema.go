// Package graphql exposes a map session to a rendering client over GraphQL.
package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-msmap/pkg/filter"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
	"github.com/dd0wney/cluso-msmap/pkg/session"
	"github.com/dd0wney/cluso-msmap/pkg/view"
	"github.com/dd0wney/cluso-msmap/pkg/wizard"
)

// categoryArgs are the per-category filter arguments of visible
var categoryArgs = []string{"type", "status", "owner", "location", "isoClause", "tags"}

// GenerateSchema builds the schema over s
func GenerateSchema(s *session.Session) (graphql.Schema, error) {
	nodeType := createNodeType(s)

	viewType := graphql.NewObject(graphql.ObjectConfig{
		Name: "View",
		Fields: graphql.Fields{
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(filter.Result).Nodes, nil
				},
			},
			"edges": &graphql.Field{
				Type: graphql.NewList(edgeType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(filter.Result).Edges, nil
				},
			},
		},
	})

	visibleArgs := graphql.FieldConfigArgument{
		"search":           &graphql.ArgumentConfig{Type: graphql.String},
		"showDependencies": &graphql.ArgumentConfig{Type: graphql.Boolean},
		"showNonCritical":  &graphql.ArgumentConfig{Type: graphql.Boolean},
		"showExternal":     &graphql.ArgumentConfig{Type: graphql.Boolean},
	}
	for _, name := range categoryArgs {
		visibleArgs[name] = &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))}
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"visible": &graphql.Field{
				Type:        viewType,
				Description: "Nodes and edges passing the given filter; omitted toggles use the session's settings",
				Args:        visibleArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return s.Preview(queryFromArgs(s.Query().Settings, p.Args)), nil
				},
			},
			"node": &graphql.Field{
				Type: nodeType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					n, err := s.Node(p.Args["id"].(string))
					if err != nil {
						return nil, nil
					}
					return n, nil
				},
			},
			"selection": &graphql.Field{
				Type: selectionType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return s.Selection(), nil
				},
			},
			"legend": &graphql.Field{
				Type: legendType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return view.BuildLegend(), nil
				},
			},
			"wizard": &graphql.Field{
				Type: wizardResultType,
				Args: graphql.FieldConfigArgument{
					"roles":      &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
					"activities": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
					"locations":  &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return s.Wizard(wizard.Criteria{
						Roles:      stringsArg(p.Args, "roles"),
						Activities: stringsArg(p.Args, "activities"),
						Locations:  stringsArg(p.Args, "locations"),
					}), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"select": &graphql.Field{
				Type:        selectionType,
				Description: "Select a node; an unknown id clears the selection",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return s.Select(p.Args["id"].(string)), nil
				},
			},
			"setHighlightPath": &graphql.Field{
				Type:        selectionType,
				Description: "Turn critical-path highlighting on or off; breadcrumbs are unaffected",
				Args: graphql.FieldConfigArgument{
					"enabled": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return s.SetHighlightPath(p.Args["enabled"].(bool)), nil
				},
			},
			"clearSelection": &graphql.Field{
				Type: graphql.Boolean,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					s.ClearSelection()
					return true, nil
				},
			},
			"dragStop": &graphql.Field{
				Type: positionType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"x":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"y":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id := p.Args["id"].(string)
					s.DragStop(id, mapmodel.Position{X: p.Args["x"].(float64), Y: p.Args["y"].(float64)})
					placement, ok := s.Position(id)
					if !ok {
						return nil, nil
					}
					return placementValue(placement), nil
				},
			},
			"resetLayout": &graphql.Field{
				Type: graphql.Boolean,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					s.ResetLayout()
					return true, nil
				},
			},
			"setChecklistItem": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"completed": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					completed := p.Args["completed"].(bool)
					s.SetChecklistItem(p.Args["id"].(string), completed)
					return completed, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func queryFromArgs(settings filter.Settings, args map[string]any) filter.Query {
	q := filter.Query{Settings: settings}
	if v, ok := args["search"].(string); ok {
		q.Search = v
	}
	if v, ok := args["showDependencies"].(bool); ok {
		q.Settings.ShowDependencies = v
	}
	if v, ok := args["showNonCritical"].(bool); ok {
		q.Settings.ShowNonCritical = v
	}
	if v, ok := args["showExternal"].(bool); ok {
		q.Settings.ShowExternal = v
	}
	q.Filters = filter.Filters{
		Type:      stringsArg(args, "type"),
		Status:    stringsArg(args, "status"),
		Owner:     stringsArg(args, "owner"),
		Location:  stringsArg(args, "location"),
		ISOClause: stringsArg(args, "isoClause"),
		Tags:      stringsArg(args, "tags"),
	}
	return q
}

// stringsArg reads a [String!] argument, which graphql-go delivers as []any
func stringsArg(args map[string]any, name string) []string {
	raw, ok := args[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
