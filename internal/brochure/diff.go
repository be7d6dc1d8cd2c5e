package brochure

import (
	"sort"
	"strings"
)

// DiffResult contains the brochures not present in a previous listing
type DiffResult struct {
	NewBrochures []*Brochure
	Shops        map[string][]*Brochure // new brochures grouped by shop
}

// Index returns the brochures keyed by ID
func Index(brochures []*Brochure) map[string]*Brochure {
	idx := make(map[string]*Brochure, len(brochures))
	for _, b := range brochures {
		idx[b.ID] = b
	}
	return idx
}

// Diff compares current brochures against a previous listing and returns new ones.
// A nil previous listing makes every current brochure new.
func Diff(previous, current []*Brochure) *DiffResult {
	result := &DiffResult{
		NewBrochures: make([]*Brochure, 0),
		Shops:        make(map[string][]*Brochure),
	}

	seen := Index(previous)
	for _, b := range current {
		if _, exists := seen[b.ID]; exists {
			continue
		}
		seen[b.ID] = b

		result.NewBrochures = append(result.NewBrochures, b)
		result.Shops[b.ShopName] = append(result.Shops[b.ShopName], b)
	}

	// Sort for consistent output
	sort.SliceStable(result.NewBrochures, func(i, j int) bool {
		return less(result.NewBrochures[i], result.NewBrochures[j])
	})
	for shop := range result.Shops {
		group := result.Shops[shop]
		sort.SliceStable(group, func(i, j int) bool {
			return less(group[i], group[j])
		})
	}

	return result
}

func less(a, b *Brochure) bool {
	if a.ShopName != b.ShopName {
		return a.ShopName < b.ShopName
	}
	return strings.ToLower(a.Title) < strings.ToLower(b.Title)
}
