package cli

import (
	"testing"

	"github.com/letaky-tools/letaky/internal/brochure"
)

func titles(brochures []*brochure.Brochure) []string {
	out := make([]string, len(brochures))
	for i, b := range brochures {
		out[i] = b.Title
	}
	return out
}

func TestSortBrochures(t *testing.T) {
	input := func() []*brochure.Brochure {
		return []*brochure.Brochure{
			testBrochure("Lidl", "beta", day(10), day(25)),
			testBrochure("Kaufland", "Gamma", day(12), day(20)),
			testBrochure("Aldi", "alpha", day(11), day(20)),
			testBrochure("Kaufland", "Delta", day(1), day(30)),
		}
	}

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortByDate, []string{"alpha", "Gamma", "beta", "Delta"}},
		{SortByShop, []string{"alpha", "Gamma", "Delta", "beta"}},
		{SortByTitle, []string{"alpha", "beta", "Delta", "Gamma"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			brochures := input()
			sortBrochures(brochures, tt.order)
			got := titles(brochures)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("order = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSortOrderValid(t *testing.T) {
	for _, o := range []SortOrder{SortByDate, SortByShop, SortByTitle} {
		if !o.valid() {
			t.Errorf("%q should be valid", o)
		}
	}
	if SortOrder("state").valid() {
		t.Error("state should not be a valid sort order")
	}
}
