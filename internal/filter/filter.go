// Package filter narrows the source catalog before a search.
//
// A search visits every category page of every source, so restricting the
// catalog is the way to make a search faster. Criteria combine with AND;
// values within one criterion combine with OR:
//   - Seasons (exact match, e.g. "2024-25")
//   - Competitions (substring of the source name, case-insensitive)
//   - Organizers (exact match, e.g. "国内")
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Seasons, _ = filter.ParseSeasons("2022-23..2024-25")
//	f.Competitions = []string{"全日本"}
//
//	sources = f.Apply(catalog.Default())
package filter

import (
	"strings"

	"github.com/pfrederiksen/skate-results/internal/catalog"
)

// Filter represents source filtering criteria
type Filter struct {
	Seasons      []string `json:"seasons,omitempty"`
	Competitions []string `json:"competitions,omitempty"`
	Organizers   []string `json:"organizers,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all sources until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Seasons:      []string{},
		Competitions: []string{},
		Organizers:   []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	if f == nil {
		return true
	}
	return len(f.Seasons) == 0 &&
		len(f.Competitions) == 0 &&
		len(f.Organizers) == 0
}

// Matches checks if a source matches all active filter criteria.
// An empty filter matches all sources.
func (f *Filter) Matches(src *catalog.Source) bool {
	if f.IsEmpty() {
		return true
	}

	if len(f.Seasons) > 0 && !anyEqual(f.Seasons, src.Season) {
		return false
	}

	if len(f.Competitions) > 0 {
		matched := false
		nameLower := strings.ToLower(src.Name)
		for _, c := range f.Competitions {
			if strings.Contains(nameLower, strings.ToLower(c)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Organizers) > 0 && !anyEqual(f.Organizers, src.Organizer) {
		return false
	}

	return true
}

func anyEqual(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}

// Apply returns the sources that match, in catalog order.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(sources []*catalog.Source) []*catalog.Source {
	if f.IsEmpty() {
		return sources
	}

	filtered := make([]*catalog.Source, 0, len(sources))
	for _, src := range sources {
		if f.Matches(src) {
			filtered = append(filtered, src)
		}
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "Seasons: 2023-24, 2024-25 | Competitions: 全日本"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if len(f.Seasons) > 0 {
		parts = append(parts, "Seasons: "+strings.Join(f.Seasons, ", "))
	}
	if len(f.Competitions) > 0 {
		parts = append(parts, "Competitions: "+strings.Join(f.Competitions, ", "))
	}
	if len(f.Organizers) > 0 {
		parts = append(parts, "Organizers: "+strings.Join(f.Organizers, ", "))
	}

	return strings.Join(parts, " | ")
}
