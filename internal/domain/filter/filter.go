// Package filter derives the working set from the full marker dataset.
//
// Matching is deliberately a full synchronous scan: the directory is bounded
// in size and every keystroke recomputes the complete result, so there is no
// partial or streaming state to manage.
package filter

import (
	"strings"

	"github.com/placora/geoview/internal/domain/model"
)

// AllCategories is the category selection meaning "no category filter".
const AllCategories = ""

// State owns the free-text query and the selected category, and derives the
// working set. It is single-writer: only the owning view mutates it.
type State struct {
	dataset  *model.Dataset
	query    string
	category string
	revision uint64
}

// New creates a State over a dataset snapshot with no active filters.
func New(dataset *model.Dataset, opts ...Option) *State {
	s := &State{dataset: dataset}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace swaps in a new dataset snapshot, keeping the active filters.
func (s *State) Replace(dataset *model.Dataset) {
	s.dataset = dataset
	s.revision++
}

// SetQuery updates the free-text query.
func (s *State) SetQuery(text string) {
	s.query = text
	s.revision++
}

// SetCategory updates the selected category slug. AllCategories clears it.
func (s *State) SetCategory(slug string) {
	s.category = slug
	s.revision++
}

// Query returns the current free-text query.
func (s *State) Query() string {
	return s.query
}

// Category returns the selected category slug, or AllCategories.
func (s *State) Category() string {
	return s.category
}

// Revision is bumped on every mutation. Async completions compare revisions
// to detect that their result has been superseded.
func (s *State) Revision() uint64 {
	return s.revision
}

// WorkingSet returns the placeable markers passing both filters, preserving
// dataset order. The result is always a subset of the dataset.
func (s *State) WorkingSet() []model.Marker {
	placeable := s.dataset.Placeable()
	if s.query == "" && s.category == AllCategories {
		return placeable
	}

	q := strings.ToLower(strings.TrimSpace(s.query))
	out := make([]model.Marker, 0, len(placeable))
	for _, m := range placeable {
		if s.category != AllCategories && m.CategorySlug != s.category {
			continue
		}
		if q != "" && !matches(m, q) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// matches reports whether q is a case-insensitive substring of the marker's
// name, city name, or address. An absent address never contributes a match.
func matches(m model.Marker, q string) bool {
	if strings.Contains(strings.ToLower(m.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(m.City.Name), q) {
		return true
	}
	if m.Address != "" && strings.Contains(strings.ToLower(m.Address), q) {
		return true
	}
	return false
}
