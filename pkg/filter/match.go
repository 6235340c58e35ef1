package filter

import (
	"strings"

	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

type valueSet map[string]struct{}

func newValueSet(values []string) valueSet {
	if len(values) == 0 {
		return nil
	}
	s := make(valueSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s valueSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s valueSet) any(values []string) bool {
	for _, v := range values {
		if s.has(v) {
			return true
		}
	}
	return false
}

// matcher is the compiled form of a Query's node predicates
type matcher struct {
	search    string // lower-cased and untrimmed, empty when no search
	types     valueSet
	statuses  valueSet
	owners    valueSet
	locations valueSet
	clauses   []string // lower-cased
	tags      valueSet
	external  bool
}

func compile(q Query) matcher {
	m := matcher{
		search:    strings.ToLower(q.Search),
		types:     newValueSet(q.Filters.Type),
		statuses:  newValueSet(q.Filters.Status),
		owners:    newValueSet(q.Filters.Owner),
		locations: newValueSet(q.Filters.Location),
		tags:      newValueSet(q.Filters.Tags),
		external:  q.Settings.ShowExternal,
	}
	for _, c := range q.Filters.ISOClause {
		m.clauses = append(m.clauses, strings.ToLower(c))
	}
	return m
}

func (m matcher) match(n mapmodel.Node) bool {
	if m.search != "" && !matchesSearch(n, m.search) {
		return false
	}
	if m.types != nil && !m.types.has(string(n.Type)) {
		return false
	}
	if m.statuses != nil && !m.statuses.has(string(n.Status.Normalize())) {
		return false
	}
	if m.owners != nil && (n.Owner == "" || !m.owners.has(n.Owner)) {
		return false
	}
	if m.locations != nil && !m.locations.any(n.Location) {
		return false
	}
	if len(m.clauses) > 0 && !matchesClause(n.ISOClauses, m.clauses) {
		return false
	}
	if m.tags != nil && !m.tags.any(n.Tags) {
		return false
	}
	if !m.external && n.Type == mapmodel.TypeExternalStandard {
		return false
	}
	return true
}

// matchesSearch is a case-insensitive substring match over title, code,
// description, tags and ISO clauses. query must already be lower-cased.
func matchesSearch(n mapmodel.Node, query string) bool {
	if containsFold(n.Title, query) || containsFold(n.Code, query) || containsFold(n.Description, query) {
		return true
	}
	for _, tag := range n.Tags {
		if containsFold(tag, query) {
			return true
		}
	}
	for _, clause := range n.ISOClauses {
		if containsFold(clause, query) {
			return true
		}
	}
	return false
}

// matchesClause accepts a node when any clause contains any filter value,
// ignoring case, so "ISO9001" selects "ISO9001: 7.5".
func matchesClause(clauses, filters []string) bool {
	for _, clause := range clauses {
		for _, f := range filters {
			if containsFold(clause, f) {
				return true
			}
		}
	}
	return false
}

func containsFold(s, lowerSubstr string) bool {
	if s == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), lowerSubstr)
}
