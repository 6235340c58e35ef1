package session

import (
	"github.com/dd0wney/cluso-msmap/pkg/filter"
	"github.com/dd0wney/cluso-msmap/pkg/layout"
	"github.com/dd0wney/cluso-msmap/pkg/logging"
)

// Query returns the current filter input
func (s *Session) Query() filter.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.query
	q.Filters = filter.Filters{}.Merge(q.Filters)
	return q
}

// Visible returns the nodes and edges that pass the current query
func (s *Session) Visible() filter.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible()
}

// SetFilter replaces every category filter
func (s *Session) SetFilter(f filter.Filters) filter.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Filters = filter.Filters{}.Merge(f)
	s.fresh = false
	return s.visible()
}

// UpdateFilters merges the non-nil categories of f into the current filters
func (s *Session) UpdateFilters(f filter.Filters) filter.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Filters = s.query.Filters.Merge(f)
	s.fresh = false
	return s.visible()
}

// SetSearch replaces the free-text search
func (s *Session) SetSearch(query string) filter.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if query != s.query.Search {
		s.query.Search = query
		s.fresh = false
	}
	return s.visible()
}

// ClearFilters drops every category filter and the search text. View
// toggles are left as they are.
func (s *Session) ClearFilters() filter.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Filters = filter.Filters{}
	s.query.Search = ""
	s.fresh = false
	return s.visible()
}

// SetSettings replaces the three view toggles and persists them
func (s *Session) SetSettings(settings filter.Settings) filter.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if settings != s.query.Settings {
		s.query.Settings = settings
		s.fresh = false
		s.persistSettings()
	}
	return s.visible()
}

// ToggleDependencies flips whether non-dependency relationships are shown
func (s *Session) ToggleDependencies() filter.Result {
	return s.toggle(func(st *filter.Settings) { st.ShowDependencies = !st.ShowDependencies })
}

// ToggleNonCritical flips whether non-critical edges are shown
func (s *Session) ToggleNonCritical() filter.Result {
	return s.toggle(func(st *filter.Settings) { st.ShowNonCritical = !st.ShowNonCritical })
}

// ToggleExternal flips whether external standards are shown
func (s *Session) ToggleExternal() filter.Result {
	return s.toggle(func(st *filter.Settings) { st.ShowExternal = !st.ShowExternal })
}

func (s *Session) toggle(fn func(*filter.Settings)) filter.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.query.Settings)
	s.fresh = false
	s.persistSettings()
	return s.visible()
}

func (s *Session) persistSettings() {
	if s.store == nil {
		return
	}
	settings := s.query.Settings
	s.store.UpdatePreferences(func(p *layout.Preferences) {
		p.ShowDependencies = settings.ShowDependencies
		p.ShowNonCritical = settings.ShowNonCritical
		p.ShowExternal = settings.ShowExternal
	})
	s.logger.Debug("view settings changed",
		logging.Bool("show_dependencies", settings.ShowDependencies),
		logging.Bool("show_non_critical", settings.ShowNonCritical),
		logging.Bool("show_external", settings.ShowExternal))
}

// Preview evaluates q against the loaded graph without changing the
// session's own query or memoised result
func (s *Session) Preview(q filter.Query) filter.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Apply(s.model, q)
}
