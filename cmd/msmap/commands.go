package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-msmap/pkg/filter"
	"github.com/dd0wney/cluso-msmap/pkg/layout"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
	"github.com/dd0wney/cluso-msmap/pkg/view"
	"github.com/dd0wney/cluso-msmap/pkg/wizard"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise the loaded map and any data-quality issues",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			stats := a.session.Stats()
			if jsonOutput {
				return printJSON(map[string]any{"stats": stats, "issues": issueStrings(a)})
			}
			fmt.Println(renderStats(stats))
			for _, issue := range a.report.Issues {
				fmt.Println(warnStyle.Render("  ! " + issue.Error()))
			}
			return nil
		}),
	}
}

func issueStrings(a *app) []string {
	out := make([]string, len(a.report.Issues))
	for i, issue := range a.report.Issues {
		out[i] = issue.Error()
	}
	return out
}

type filterFlags struct {
	search          string
	filters         filter.Filters
	hideDeps        bool
	hideNonCritical bool
	hideExternal    bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.search, "search", "s", "", "Case-insensitive text to find in title, code, description, tags or clauses")
	fl.StringSliceVar(&f.filters.Type, "type", nil, "Allowed node types")
	fl.StringSliceVar(&f.filters.Status, "status", nil, "Allowed statuses")
	fl.StringSliceVar(&f.filters.Owner, "owner", nil, "Allowed owners")
	fl.StringSliceVar(&f.filters.Location, "location", nil, "Allowed locations")
	fl.StringSliceVar(&f.filters.ISOClause, "iso", nil, "Allowed ISO clauses")
	fl.StringSliceVar(&f.filters.Tags, "tag", nil, "Allowed tags")
	fl.BoolVar(&f.hideDeps, "hide-non-dependencies", false, "Show only outputToInput edges")
	fl.BoolVar(&f.hideNonCritical, "hide-non-critical", false, "Hide non-critical edges")
	fl.BoolVar(&f.hideExternal, "hide-external", false, "Hide external standards")
}

func (f *filterFlags) apply(cmd *cobra.Command, a *app) filter.Result {
	fl := cmd.Flags()
	settings := a.session.Query().Settings
	if fl.Changed("hide-non-dependencies") {
		settings.ShowDependencies = !f.hideDeps
	}
	if fl.Changed("hide-non-critical") {
		settings.ShowNonCritical = !f.hideNonCritical
	}
	if fl.Changed("hide-external") {
		settings.ShowExternal = !f.hideExternal
	}
	a.session.SetSettings(settings)
	a.session.SetFilter(f.filters)
	return a.session.SetSearch(f.search)
}

func filterCmd() *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List the nodes and edges visible under a filter",
		Long:  "Categories are ORed within and ANDed across. The --hide-* toggles are\nremembered in the layout store for later runs.",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			res := flags.apply(cmd, a)
			if jsonOutput {
				return printJSON(map[string]any{
					"nodes": view.DecorateNodes(res.Nodes),
					"edges": view.DecorateEdges(res.Edges),
				})
			}
			fmt.Println(renderResult(res))
			return nil
		}),
	}
	flags.register(cmd)
	return cmd
}

func selectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select NODE_ID",
		Short: "Show the breadcrumb trail and critical path of a node",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sel := a.session.Select(args[0])
			if jsonOutput {
				return printJSON(sel)
			}
			if sel.Empty() {
				fmt.Println(subtleStyle.Render("no node " + strconv.Quote(args[0])))
				return nil
			}
			fmt.Println(renderSelection(a.session, sel))
			return nil
		}),
	}
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("coordinate %q: %w", s, err)
	}
	return v, nil
}

func dragCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drag NODE_ID X Y",
		Short: "Pin a node at a position, as if dragged there",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			x, err := parseCoord(args[1])
			if err != nil {
				return err
			}
			y, err := parseCoord(args[2])
			if err != nil {
				return err
			}
			a.session.DragStop(args[0], mapmodel.Position{X: x, Y: y})
			if p, ok := a.session.Position(args[0]); ok {
				fmt.Printf("%s at (%.1f, %.1f) [%s]\n", args[0], p.Position.X, p.Position.Y, p.Source)
			}
			return nil
		}),
	}
}

func positionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Print the resolved position of every node",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			positions := a.session.Positions()
			if jsonOutput {
				return printJSON(positions)
			}
			for _, n := range a.session.Model().Nodes() {
				p := positions[n.ID]
				fmt.Printf("%-24s %9.1f %9.1f  %s\n", n.ID, p.Position.X, p.Position.Y, subtleStyle.Render(string(p.Source)))
			}
			return nil
		}),
	}
}

func layoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Change or reset the persisted layout",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "mode auto|manual|hierarchical|circular",
			Short: "Set the layout used for nodes without a pinned position",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
				mode, err := layout.ParseMode(args[0])
				if err != nil {
					return err
				}
				a.session.SetLayoutMode(mode)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Forget every pinned position",
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
				a.session.ResetLayout()
				fmt.Println(okStyle.Render("layout reset"))
				return nil
			}),
		},
	)
	return cmd
}

func wizardCmd() *cobra.Command {
	var (
		criteria wizard.Criteria
		done     []string
		undone   []string
		catalogs bool
	)
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Build the minimal document checklist for roles, activities and locations",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if catalogs {
				c := a.session.Catalogs()
				if jsonOutput {
					return printJSON(c)
				}
				fmt.Println(renderCatalogs(c))
				return nil
			}
			for _, id := range done {
				a.session.SetChecklistItem(id, true)
			}
			for _, id := range undone {
				a.session.SetChecklistItem(id, false)
			}
			res := a.session.Wizard(criteria)
			if jsonOutput {
				return printJSON(res)
			}
			fmt.Println(renderChecklist(res))
			return nil
		}),
	}
	fl := cmd.Flags()
	fl.StringSliceVar(&criteria.Roles, "role", nil, "Roles involved")
	fl.StringSliceVar(&criteria.Activities, "activity", nil, "Activities performed")
	fl.StringSliceVar(&criteria.Locations, "location", nil, "Locations")
	fl.StringSliceVar(&done, "done", nil, "Mark checklist items complete")
	fl.StringSliceVar(&undone, "undo", nil, "Mark checklist items incomplete")
	fl.BoolVar(&catalogs, "catalogs", false, "List the known roles, locations and activities")
	return cmd
}

func legendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "legend",
		Short: "Print the node type, status and edge legend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			legend := view.BuildLegend()
			if jsonOutput {
				return printJSON(legend)
			}
			fmt.Println(renderLegend(legend))
			return nil
		},
	}
}
