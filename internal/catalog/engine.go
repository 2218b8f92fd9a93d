// Package catalog decides which products a catalog view shows and in what
// order. FilterAndSort is a pure function: filtering and sorting never
// mutate the input slice and the same inputs always produce the same output.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fjod/stylehub/internal/domain"
)

type SortKey string

const (
	// SortByName is the default and the tie-break for every other key.
	SortByName      SortKey = "name"
	SortByPriceAsc  SortKey = "price-asc"
	SortByPriceDesc SortKey = "price-desc"
)

// ParseSortKey maps a wire value to a SortKey, accepting the legacy
// price-low/price-high aliases. Unknown values fall back to name order.
func ParseSortKey(s string) SortKey {
	switch s {
	case "price-asc", "price-low":
		return SortByPriceAsc
	case "price-desc", "price-high":
		return SortByPriceDesc
	default:
		return SortByName
	}
}

// FilterAndSort returns the products passing the query, the spec's facets
// and the price range, sorted by the given key. Facets OR within themselves
// and AND across each other. Sorting is stable: equal-key products keep
// their relative input order.
func FilterAndSort(products []domain.Product, spec domain.FilterSpec, query string, key SortKey) []domain.Product {
	result := make([]domain.Product, 0, len(products))
	q := strings.ToLower(strings.TrimSpace(query))

	for _, p := range products {
		if !matchesQuery(p, q) {
			continue
		}
		if !facetMatch(spec.Categories, p.Category, true) {
			continue
		}
		if !anyFacetMatch(spec.Sizes, p.Sizes) {
			continue
		}
		if !anyFacetMatch(spec.Colors, p.Colors) {
			continue
		}
		if p.Price < spec.PriceMin || p.Price > spec.PriceMax {
			continue
		}
		result = append(result, p)
	}

	sortProducts(result, key)
	return result
}

// MatchesQuery reports whether the query is a case-insensitive substring
// of the product's name or description. The empty query matches everything.
func MatchesQuery(p domain.Product, query string) bool {
	return matchesQuery(p, strings.ToLower(strings.TrimSpace(query)))
}

func matchesQuery(p domain.Product, lowered string) bool {
	if lowered == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), lowered) ||
		strings.Contains(strings.ToLower(p.Description), lowered)
}

// facetMatch checks a single-valued product attribute against a facet.
// An empty facet is no constraint.
func facetMatch(facet []string, value string, foldCase bool) bool {
	if len(facet) == 0 {
		return true
	}
	for _, f := range facet {
		if f == value || (foldCase && strings.EqualFold(f, value)) {
			return true
		}
	}
	return false
}

// anyFacetMatch checks a multi-valued product attribute: the product
// passes if it carries any of the facet's values.
func anyFacetMatch(facet []string, values []string) bool {
	if len(facet) == 0 {
		return true
	}
	for _, v := range values {
		for _, f := range facet {
			if f == v {
				return true
			}
		}
	}
	return false
}

func sortProducts(products []domain.Product, key SortKey) {
	c := collate.New(language.English, collate.IgnoreCase)

	byName := func(a, b domain.Product) int {
		return c.CompareString(a.Name, b.Name)
	}

	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch key {
		case SortByPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case SortByPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		}
		return byName(a, b) < 0
	})
}
