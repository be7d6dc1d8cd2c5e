package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/letaky-tools/letaky/internal/brochure"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt   time.Time                       `json:"checked_at"`
	ShopCount   int                             `json:"shop_count"`
	FailedShops []string                        `json:"failed_shops,omitempty"`
	Brochures   []*brochure.Brochure            `json:"brochures"`
	Count       int                             `json:"count"`
	ByShop      map[string][]*brochure.Brochure `json:"by_shop,omitempty"`
	NewOnly     bool                            `json:"new_only,omitempty"`
	SortOrder   SortOrder                       `json:"sort_order"`
}

// setBrochures stores a sorted copy of brochures and groups it by shop
func (r *OutputResult) setBrochures(brochures []*brochure.Brochure, order SortOrder) {
	sorted := make([]*brochure.Brochure, len(brochures))
	copy(sorted, brochures)
	sortBrochures(sorted, order)

	r.Brochures = sorted
	r.Count = len(sorted)
	r.SortOrder = order
	r.ByShop = make(map[string][]*brochure.Brochure)
	for _, b := range sorted {
		r.ByShop[b.ShopName] = append(r.ByShop[b.ShopName], b)
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results grouped by shop, or as one list in the requested
// order when sorting by date or title
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	label := "brochures"
	if result.NewOnly {
		label = "new brochures"
	}

	if result.Count == 0 {
		if result.NewOnly {
			fmt.Fprintln(w, "No new brochures found.")
		} else {
			fmt.Fprintln(w, "No brochures found.")
		}
		return nil
	}

	if result.SortOrder != SortByShop && result.SortOrder != "" {
		for _, b := range result.Brochures {
			fmt.Fprintf(w, "%s: %s (%s - %s)\n", b.ShopName, b.Title, b.ValidFrom, b.ValidTo)
			if verbose {
				writeDetails(w, b, "     ")
			}
		}
		fmt.Fprintf(w, "\nTotal: %d %s across %d shops\n", result.Count, label, len(result.ByShop))
		writeFailed(w, result)
		return nil
	}

	shops := make([]string, 0, len(result.ByShop))
	for shop := range result.ByShop {
		shops = append(shops, shop)
	}
	sort.Strings(shops)

	for _, shop := range shops {
		brochures := result.ByShop[shop]
		if len(brochures) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s (%d %s):\n", shop, len(brochures), label)
		for _, b := range brochures {
			fmt.Fprintf(w, "  %s (%s - %s)\n", b.Title, b.ValidFrom, b.ValidTo)
			if verbose {
				writeDetails(w, b, "       ")
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d %s across %d shops\n", result.Count, label, len(shops))
	writeFailed(w, result)

	return nil
}

func writeDetails(w io.Writer, b *brochure.Brochure, indent string) {
	fmt.Fprintf(w, "%sID: %s\n", indent, b.ID)
	if b.Thumbnail != brochure.NotAvailable {
		fmt.Fprintf(w, "%sThumbnail: %s\n", indent, b.Thumbnail)
	}
}

func writeFailed(w io.Writer, result *OutputResult) {
	if len(result.FailedShops) > 0 {
		fmt.Fprintf(w, "Failed shops: %d\n", len(result.FailedShops))
	}
}
