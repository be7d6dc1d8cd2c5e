package cli

import (
	"sort"
	"strings"

	"github.com/letaky-tools/letaky/internal/brochure"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByShop  SortOrder = "shop"
	SortByTitle SortOrder = "title"
)

func (o SortOrder) valid() bool {
	switch o {
	case SortByDate, SortByShop, SortByTitle:
		return true
	}
	return false
}

// sortBrochures sorts a slice of brochures based on the specified sort order
func sortBrochures(brochures []*brochure.Brochure, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(brochures, func(i, j int) bool {
			return compareByDate(brochures[i], brochures[j])
		})
	case SortByShop:
		sort.SliceStable(brochures, func(i, j int) bool {
			if brochures[i].ShopName != brochures[j].ShopName {
				return brochures[i].ShopName < brochures[j].ShopName
			}
			// Same shop: earliest expiry first
			return compareByDate(brochures[i], brochures[j])
		})
	case SortByTitle:
		sort.SliceStable(brochures, func(i, j int) bool {
			ti, tj := strings.ToLower(brochures[i].Title), strings.ToLower(brochures[j].Title)
			if ti != tj {
				return ti < tj
			}
			return compareByDate(brochures[i], brochures[j])
		})
	}
}

// compareByDate orders by end of validity, then start, then shop and title.
// Returns true if i should come before j.
func compareByDate(i, j *brochure.Brochure) bool {
	if i.ValidTo != j.ValidTo {
		return i.ValidTo.Before(j.ValidTo)
	}
	if i.ValidFrom != j.ValidFrom {
		return i.ValidFrom.Before(j.ValidFrom)
	}
	if i.ShopName != j.ShopName {
		return i.ShopName < j.ShopName
	}
	return strings.ToLower(i.Title) < strings.ToLower(j.Title)
}
