// Package query implements the storefront filter, search and sort pipeline
// over the fixed product catalog. Every function in it is pure: the catalog
// slice passed in is never modified.
package query

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hometown/storefront/models"
)

// SortKey selects the result ordering.
type SortKey string

const (
	Featured       SortKey = "featured"
	BestSelling    SortKey = "best-selling"
	AlphabeticalAZ SortKey = "alphabetically-az"
	AlphabeticalZA SortKey = "alphabetically-za"
	PriceLowHigh   SortKey = "price-low-high"
	PriceHighLow   SortKey = "price-high-low"
	DateOldNew     SortKey = "date-old-new"
	DateNewOld     SortKey = "date-new-old"
)

// SortKeys lists the keys in menu order.
var SortKeys = []SortKey{
	Featured,
	BestSelling,
	AlphabeticalAZ,
	AlphabeticalZA,
	PriceLowHigh,
	PriceHighLow,
	DateOldNew,
	DateNewOld,
}

var sortLabels = map[SortKey]string{
	Featured:       "Featured",
	BestSelling:    "Best selling",
	AlphabeticalAZ: "Alphabetically, A-Z",
	AlphabeticalZA: "Alphabetically, Z-A",
	PriceLowHigh:   "Price, low to high",
	PriceHighLow:   "Price, high to low",
	DateOldNew:     "Date, old to new",
	DateNewOld:     "Date, new to old",
}

// Valid reports whether k is one of the known sort keys.
func (k SortKey) Valid() bool {
	_, ok := sortLabels[k]
	return ok
}

// Label is the menu text of the key.
func (k SortKey) Label() string {
	if l, ok := sortLabels[k]; ok {
		return l
	}
	return sortLabels[Featured]
}

// ParseSortKey maps s to a known key, falling back to Featured.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if k.Valid() {
		return k
	}
	return Featured
}

// FilterState maps a filter section title to the labels selected in it.
// A missing or empty entry places no constraint on that section.
type FilterState map[string][]string

// Clone returns a deep copy of f.
func (f FilterState) Clone() FilterState {
	out := make(FilterState, len(f))
	for section, labels := range f {
		if len(labels) == 0 {
			continue
		}
		out[section] = slices.Clone(labels)
	}
	return out
}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Contains reports whether price lies inside the range, bounds included.
func (r PriceRange) Contains(price int64) bool {
	return price >= r.Min && price <= r.Max
}

// Clamp fits r into bounds. Inverted bounds are swapped first. A range
// entirely outside bounds widens to bounds.
func (r PriceRange) Clamp(bounds PriceRange) PriceRange {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	if r.Max < bounds.Min || r.Min > bounds.Max {
		return bounds
	}
	return PriceRange{
		Min: max(r.Min, bounds.Min),
		Max: min(r.Max, bounds.Max),
	}
}

// Params bundles the user-selected inputs of one query.
type Params struct {
	Search  string
	Filters FilterState
	Price   PriceRange
	Sort    SortKey
}

// Run is shorthand for Query with the fields of p.
func (p Params) Run(catalog []models.Product) []models.Product {
	return Query(catalog, p.Search, p.Filters, p.Price, p.Sort)
}

// Query returns the products of catalog that match search, every active
// filter section and the price range, ordered by sortKey. The result is a
// new slice; catalog is left untouched.
func Query(catalog []models.Product, search string, filters FilterState, price PriceRange, sortKey SortKey) []models.Product {
	search = strings.ToLower(search)
	active := activeFilters(filters)

	out := make([]models.Product, 0, len(catalog))
	for _, p := range catalog {
		name := strings.ToLower(p.Name)
		if search != "" && !strings.Contains(name, search) {
			continue
		}
		if !price.Contains(p.Price) {
			continue
		}
		if !matchesAll(name, active) {
			continue
		}
		out = append(out, p)
	}

	Sort(out, sortKey)
	return out
}

// MatchesLabel reports whether a product satisfies a single filter label.
// Labels match by case-insensitive substring of the product name.
func MatchesLabel(p models.Product, label string) bool {
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(label))
}

// CountMatches is the number of catalog products a single label keeps.
func CountMatches(catalog []models.Product, label string) int {
	n := 0
	for _, p := range catalog {
		if MatchesLabel(p, label) {
			n++
		}
	}
	return n
}

// activeFilters lowercases the labels of every section with a selection.
func activeFilters(filters FilterState) [][]string {
	var active [][]string
	for _, labels := range filters {
		if len(labels) == 0 {
			continue
		}
		lower := make([]string, len(labels))
		for i, l := range labels {
			lower[i] = strings.ToLower(l)
		}
		active = append(active, lower)
	}
	return active
}

func matchesAll(name string, active [][]string) bool {
	for _, labels := range active {
		if !slices.ContainsFunc(labels, func(l string) bool { return strings.Contains(name, l) }) {
			return false
		}
	}
	return true
}

// Sort orders products in place by key. The sort is stable so equal
// elements keep their catalog order. Featured and unknown keys are no-ops.
func Sort(products []models.Product, key SortKey) {
	var by func(a, b models.Product) int

	switch key {
	case PriceLowHigh:
		by = func(a, b models.Product) int { return cmp.Compare(a.Price, b.Price) }
	case PriceHighLow:
		by = func(a, b models.Product) int { return cmp.Compare(b.Price, a.Price) }
	case AlphabeticalAZ:
		c := collate.New(language.English)
		by = func(a, b models.Product) int { return c.CompareString(a.Name, b.Name) }
	case AlphabeticalZA:
		c := collate.New(language.English)
		by = func(a, b models.Product) int { return c.CompareString(b.Name, a.Name) }
	case BestSelling:
		c := collate.New(language.English)
		by = func(a, b models.Product) int { return c.CompareString(b.Discount, a.Discount) }
	case DateOldNew:
		by = func(a, b models.Product) int { return cmp.Compare(a.ID, b.ID) }
	case DateNewOld:
		by = func(a, b models.Product) int { return cmp.Compare(b.ID, a.ID) }
	default:
		return
	}

	slices.SortStableFunc(products, by)
}
