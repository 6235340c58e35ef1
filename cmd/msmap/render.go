package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-msmap/pkg/filter"
	"github.com/dd0wney/cluso-msmap/pkg/graph"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
	"github.com/dd0wney/cluso-msmap/pkg/session"
	"github.com/dd0wney/cluso-msmap/pkg/view"
	"github.com/dd0wney/cluso-msmap/pkg/wizard"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3b82f6"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6b7280")).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
)

// nodeLine renders one node with its type accent and status dot
func nodeLine(n mapmodel.Node) string {
	ns := view.NodeStyleFor(n.Type)
	ss := view.StatusStyleFor(n.Status)

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(ss.Indicator)).Render("●")
	kind := lipgloss.NewStyle().Foreground(lipgloss.Color(ns.Accent)).Width(18).Render(ns.Category)
	title := n.Title
	if n.Code != "" {
		title = n.Code + "  " + title
	}
	return fmt.Sprintf("%s %s %-20s %s", dot, kind, n.ID, title)
}

func edgeLine(e mapmodel.Edge) string {
	es := view.EdgeStyleFor(e)
	arrow := "──▶"
	if es.Dash != "" {
		arrow = "╌╌▶"
	}
	rel := string(e.Relationship)
	if e.Label != "" {
		rel = e.Label
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(es.Stroke)).Render(
		fmt.Sprintf("%s %s %s  (%s)", e.Source, arrow, e.Target, rel))
}

func renderResult(res filter.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d nodes, %d edges", len(res.Nodes), len(res.Edges))))
	b.WriteString("\n")
	for _, n := range res.Nodes {
		b.WriteString(nodeLine(n))
		b.WriteString("\n")
	}
	if len(res.Edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range res.Edges {
		b.WriteString(edgeLine(e))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderStats(s graph.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nodes:     %d\nEdges:     %d\nCritical:  %d\n", s.Nodes, s.Edges, s.CriticalEdges)

	for _, t := range mapmodel.DocTypes {
		if c := s.ByType[t]; c > 0 {
			fmt.Fprintf(&b, "\n%-18s %d", view.NodeStyleFor(t).Category, c)
		}
	}
	var unknown int
	for t, c := range s.ByType {
		if !t.Known() {
			unknown += c
		}
	}
	if unknown > 0 {
		fmt.Fprintf(&b, "\n%-18s %d", view.DefaultNodeStyle().Category, unknown)
	}
	b.WriteString("\n")
	for _, st := range mapmodel.Statuses {
		if c := s.ByStatus[st]; c > 0 {
			dot := lipgloss.NewStyle().Foreground(lipgloss.Color(view.StatusStyleFor(st).Indicator)).Render("●")
			fmt.Fprintf(&b, "\n%s %-16s %d", dot, st, c)
		}
	}
	return boxStyle.Render(b.String())
}

func renderSelection(s *session.Session, sel session.Selection) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Breadcrumb"))
	b.WriteString("\n")
	b.WriteString(strings.Join(sel.Breadcrumb, subtleStyle.Render(" › ")))
	b.WriteString("\n\n")

	h := sel.Highlight
	b.WriteString(titleStyle.Render(fmt.Sprintf("Critical path (%d nodes, %d edges)", len(h.NodeIDs), len(h.EdgeIDs))))
	b.WriteString("\n")
	for _, id := range h.NodeIDs {
		n, err := s.Node(id)
		if err != nil {
			continue
		}
		indent := strings.Repeat("  ", h.Depth[id])
		b.WriteString(indent + nodeLine(n) + "\n")
	}
	if h.Truncated {
		b.WriteString(warnStyle.Render("… truncated at the depth or size bound"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderChecklist(res wizard.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d steps, about %s", len(res.Checklist), res.EstimatedTime)))
	b.WriteString("\n")
	for _, item := range res.Checklist {
		box := "[ ]"
		if item.Completed {
			box = okStyle.Render("[x]")
		}
		fmt.Fprintf(&b, "%2d. %s %s %s\n", item.Order, box, item.Description, subtleStyle.Render(item.ID))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCatalogs(c wizard.Catalogs) string {
	section := func(name string, values []string) string {
		values = append([]string(nil), values...)
		sort.Strings(values)
		return titleStyle.Render(name) + "\n  " + strings.Join(values, "\n  ")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		section("Roles", c.Roles),
		section("Locations", c.Locations),
		section("Activities", c.Activities),
	)
}

func renderLegend(l view.Legend) string {
	swatch := func(e view.LegendEntry) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("■") + " " +
			fmt.Sprintf("%-18s", e.Label) + subtleStyle.Render(e.Description)
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Document types") + "\n")
	for _, e := range l.Types {
		b.WriteString(swatch(e) + "\n")
	}
	b.WriteString("\n" + titleStyle.Render("Status") + "\n")
	for _, e := range l.Statuses {
		b.WriteString(swatch(e) + "\n")
	}
	b.WriteString("\n" + titleStyle.Render("Connections") + "\n")
	for _, e := range l.Edges {
		b.WriteString(swatch(e) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
