package domain

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// titleCollator compares titles case-insensitively and ignores
// diacritics, matching how a storefront orders product names.
var titleCollator = collate.New(language.Und, collate.Loose)

// FilterByCategories keeps only products whose category exactly matches
// one of the given categories (OR semantics). An empty category list
// means no filtering: the input is returned as-is.
func FilterByCategories(products []Product, categories []string) []Product {
	if len(categories) == 0 {
		return products
	}

	allowed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		allowed[c] = struct{}{}
	}

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if _, ok := allowed[p.Category]; ok {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// SortProducts returns a new slice ordered by the given mode. The input
// is never mutated. Unknown modes behave like SortNone. Missing price
// and rating values sort as zero.
func SortProducts(products []Product, mode string) []Product {
	if mode == SortNone || !IsValidSortMode(mode) {
		out := make([]Product, len(products))
		copy(out, products)
		return out
	}

	out := make([]Product, len(products))
	copy(out, products)

	switch mode {
	case SortAlphabetic:
		sort.SliceStable(out, func(i, j int) bool {
			return titleCollator.CompareString(out[i].Title, out[j].Title) < 0
		})
	case SortPrice:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price < out[j].Price
		})
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating.Rate > out[j].Rating.Rate
		})
	}
	return out
}
