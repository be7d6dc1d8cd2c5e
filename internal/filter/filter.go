// Package filter narrows a brochure report by title and validity date.
//
// Filters only affect what is reported. The listing file always holds every
// active brochure, so a later unfiltered run diffs against the full set.
//
// Example usage:
//
//	// Brochures mentioning "Getränke" that are still valid on Saturday
//	f := filter.NewFilter()
//	f.Titles = []string{"getränke"}
//	f.ValidOn = &saturday
//
//	filtered := f.Apply(brochures)
package filter

import (
	"fmt"
	"strings"

	"github.com/letaky-tools/letaky/internal/brochure"
)

// Filter represents brochure filtering criteria
type Filter struct {
	// Case-insensitive substring match against the title; any entry may match
	Titles []string `json:"titles,omitempty"`

	// Keep only brochures whose validity window includes this day
	ValidOn *brochure.Date `json:"valid_on,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all brochures until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Titles: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria
func (f *Filter) IsEmpty() bool {
	return len(f.Titles) == 0 && f.ValidOn == nil
}

// Matches checks if a brochure matches all active filter criteria.
// An empty filter matches all brochures.
func (f *Filter) Matches(b *brochure.Brochure) bool {
	if f.IsEmpty() {
		return true
	}

	if f.ValidOn != nil {
		day := *f.ValidOn
		if day.Before(b.ValidFrom) || b.ValidTo.Before(day) {
			return false
		}
	}

	if len(f.Titles) > 0 {
		matched := false
		titleLower := strings.ToLower(b.Title)
		for _, title := range f.Titles {
			if strings.Contains(titleLower, strings.ToLower(strings.TrimSpace(title))) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns only the brochures that match.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(brochures []*brochure.Brochure) []*brochure.Brochure {
	if f.IsEmpty() {
		return brochures
	}

	filtered := make([]*brochure.Brochure, 0, len(brochures))
	for _, b := range brochures {
		if f.Matches(b) {
			filtered = append(filtered, b)
		}
	}

	return filtered
}

// String returns a human-readable description of the active criteria.
// Format: "Titles: getränke, obst | Valid on: 2025-03-22"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if len(f.Titles) > 0 {
		parts = append(parts, fmt.Sprintf("Titles: %s", strings.Join(f.Titles, ", ")))
	}

	if f.ValidOn != nil {
		parts = append(parts, fmt.Sprintf("Valid on: %s", f.ValidOn))
	}

	return strings.Join(parts, " | ")
}
