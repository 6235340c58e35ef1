package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-msmap/pkg/filter"
	"github.com/dd0wney/cluso-msmap/pkg/session"
	"github.com/dd0wney/cluso-msmap/pkg/view"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3b82f6")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3b82f6")).
			Padding(0, 1)

	onStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	offStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))

	detailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ef4444")).
			Padding(0, 1).
			MarginLeft(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
)

type keyMap struct {
	Search       key.Binding
	Select       key.Binding
	Clear        key.Binding
	Dependencies key.Binding
	NonCritical  key.Binding
	External     key.Binding
	Reset        key.Binding
	Quit         key.Binding
}

var keys = keyMap{
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
	Dependencies: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "dependencies"),
	),
	NonCritical: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "non-critical"),
	),
	External: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "external"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset filters"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Select, k.Clear, k.Dependencies, k.NonCritical, k.External, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Select, k.Clear},
		{k.Dependencies, k.NonCritical, k.External, k.Reset},
		{k.Quit},
	}
}

type browseModel struct {
	session *session.Session
	search  textinput.Model
	table   table.Model
	help    help.Model
	keys    keyMap
	result  filter.Result
	width   int
}

func newBrowseModel(s *session.Session) browseModel {
	ti := textinput.New()
	ti.Placeholder = "title, code, tag or clause"
	ti.CharLimit = 120
	ti.Width = 40

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 16},
			{Title: "Type", Width: 18},
			{Title: "Status", Width: 10},
			{Title: "Title", Width: 40},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#3b82f6")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#3b82f6")).
		Bold(false)
	t.SetStyles(st)

	m := browseModel{
		session: s,
		search:  ti,
		table:   t,
		help:    help.New(),
		keys:    keys,
	}
	m.refresh(s.Visible())
	return m
}

func (m *browseModel) refresh(res filter.Result) {
	m.result = res
	rows := make([]table.Row, len(res.Nodes))
	for i, n := range res.Nodes {
		rows[i] = table.Row{n.ID, view.NodeStyleFor(n.Type).Category, string(n.Status), n.Title}
	}
	m.table.SetRows(rows)
}

func (m browseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if m.search.Focused() {
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc:
				m.search.Blur()
				m.table.Focus()
				return m, nil
			}
			m.search, cmd = m.search.Update(msg)
			m.refresh(m.session.SetSearch(m.search.Value()))
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Search):
			m.table.Blur()
			m.search.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Select):
			if row := m.table.SelectedRow(); row != nil {
				m.session.Select(row[0])
			}
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.session.ClearSelection()
			return m, nil
		case key.Matches(msg, m.keys.Dependencies):
			m.refresh(m.session.ToggleDependencies())
			return m, nil
		case key.Matches(msg, m.keys.NonCritical):
			m.refresh(m.session.ToggleNonCritical())
			return m, nil
		case key.Matches(msg, m.keys.External):
			m.refresh(m.session.ToggleExternal())
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			m.search.SetValue("")
			m.refresh(m.session.ClearFilters())
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func toggleLabel(name string, on bool) string {
	if on {
		return onStyle.Render("● " + name)
	}
	return offStyle.Render("○ " + name)
}

func (m browseModel) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(fmt.Sprintf("Management System Map  %d nodes · %d edges",
		len(m.result.Nodes), len(m.result.Edges))))
	s.WriteString("\n\n")

	settings := m.session.Query().Settings
	s.WriteString("Search: " + m.search.View() + "\n")
	s.WriteString(strings.Join([]string{
		toggleLabel("dependencies", settings.ShowDependencies),
		toggleLabel("non-critical", settings.ShowNonCritical),
		toggleLabel("external", settings.ShowExternal),
	}, "   "))
	s.WriteString("\n\n")

	body := m.table.View()
	if sel := m.session.Selection(); !sel.Empty() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, detailStyle.Render(m.renderDetail(sel)))
	}
	s.WriteString(body)

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m browseModel) renderDetail(sel session.Selection) string {
	var b strings.Builder
	n, err := m.session.Node(sel.NodeID)
	if err == nil {
		b.WriteString(titleStyle.Render(n.Title))
		b.WriteString("\n")
		if n.Owner != "" {
			b.WriteString(subtleStyle.Render("owner " + n.Owner))
			b.WriteString("\n")
		}
	}
	b.WriteString(subtleStyle.Render(strings.Join(sel.Breadcrumb, " › ")))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%d on critical path\n", len(sel.Highlight.NodeIDs))
	for _, id := range sel.Highlight.NodeIDs {
		b.WriteString(strings.Repeat("  ", sel.Highlight.Depth[id]) + id + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the map interactively",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			p := tea.NewProgram(newBrowseModel(a.session), tea.WithAltScreen())
			_, err := p.Run()
			return err
		}),
	}
}
