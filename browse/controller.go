// Package browse owns the page-level UI state of the storefront: search
// text, filter selections, price range, sort key, view mode, compare mode
// and which sidebar sections are expanded.
//
// The state travels in the URL query string. A Controller is decoded from
// the request, mutated through its setters and encoded back into links.
package browse

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/hometown/storefront/models"
	"github.com/hometown/storefront/query"
)

// ViewMode selects the result layout.
type ViewMode string

const (
	Grid ViewMode = "grid"
	List ViewMode = "list"
)

// ParseViewMode maps s to a view mode, falling back to Grid.
func ParseViewMode(s string) ViewMode {
	if ViewMode(strings.ToLower(strings.TrimSpace(s))) == List {
		return List
	}
	return Grid
}

// Query parameter names.
const (
	ParamSearch  = "q"
	ParamMin     = "min"
	ParamMax     = "max"
	ParamSort    = "sort"
	ParamView    = "view"
	ParamCompare = "compare"
	ParamOpen    = "open"

	filterPrefix = "f."
)

// State is the complete UI selection of one page view.
type State struct {
	Search  string
	Filters query.FilterState
	Price   query.PriceRange
	Sort    query.SortKey
	View    ViewMode
	Compare bool
	Open    []string
}

// Controller is the single owner of a State. It is not safe for
// concurrent use; each request decodes its own.
type Controller struct {
	state       State
	bounds      query.PriceRange
	defaultOpen []string
}

// New returns a controller holding the initial page state: no search, no
// filters, the full price range, featured sort, grid view and the default
// sections expanded.
func New(bounds query.PriceRange, defaultOpen []string) *Controller {
	return &Controller{
		state: State{
			Filters: query.FilterState{},
			Price:   bounds,
			Sort:    query.Featured,
			View:    Grid,
			Open:    slices.Clone(defaultOpen),
		},
		bounds:      bounds,
		defaultOpen: slices.Clone(defaultOpen),
	}
}

// Decode builds a controller from query values. Malformed or unknown
// values fall back to their defaults.
func Decode(v url.Values, bounds query.PriceRange, defaultOpen []string) *Controller {
	c := New(bounds, defaultOpen)

	c.SetSearch(v.Get(ParamSearch))

	for key, labels := range v {
		section, ok := strings.CutPrefix(key, filterPrefix)
		if !ok || section == "" {
			continue
		}
		for _, l := range labels {
			c.ToggleFilter(section, l, true)
		}
	}

	lo, hi := bounds.Min, bounds.Max
	if n, err := strconv.ParseInt(v.Get(ParamMin), 10, 64); err == nil {
		lo = n
	}
	if n, err := strconv.ParseInt(v.Get(ParamMax), 10, 64); err == nil {
		hi = n
	}
	c.SetPriceRange(lo, hi)

	c.SetSort(v.Get(ParamSort))
	c.SetViewMode(v.Get(ParamView))

	if b, err := strconv.ParseBool(v.Get(ParamCompare)); err == nil {
		c.SetCompareMode(b)
	}

	if open, ok := v[ParamOpen]; ok {
		c.state.Open = c.state.Open[:0]
		for _, title := range open {
			if title != "" && !slices.Contains(c.state.Open, title) {
				c.state.Open = append(c.state.Open, title)
			}
		}
	}

	return c
}

// ForCatalog decodes v against the price bounds and default sections of a
// catalog.
func ForCatalog(v url.Values, bounds models.PriceBounds, defaultOpen []string) *Controller {
	return Decode(v, query.PriceRange{Min: bounds.Min, Max: bounds.Max}, defaultOpen)
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	s := c.state
	s.Filters = c.state.Filters.Clone()
	s.Open = slices.Clone(c.state.Open)
	return s
}

// Bounds is the price slider range.
func (c *Controller) Bounds() query.PriceRange {
	return c.bounds
}

// Params projects the state onto the inputs of the query engine. View,
// compare and section visibility are presentation-only.
func (c *Controller) Params() query.Params {
	return query.Params{
		Search:  c.state.Search,
		Filters: c.state.Filters.Clone(),
		Price:   c.state.Price,
		Sort:    c.state.Sort,
	}
}

// Clone returns an independent controller with the same state.
func (c *Controller) Clone() *Controller {
	return &Controller{
		state:       c.State(),
		bounds:      c.bounds,
		defaultOpen: c.defaultOpen,
	}
}

// SetSearch stores the search text as typed; it matches as a raw
// substring of the product name.
func (c *Controller) SetSearch(s string) {
	c.state.Search = s
}

// ToggleFilter selects or deselects label within section. Selecting an
// already selected label, or deselecting an absent one, is a no-op.
// Non-printable runes are dropped from both names.
func (c *Controller) ToggleFilter(section, label string, checked bool) {
	section, label = printable(section), printable(label)
	if section == "" || label == "" {
		return
	}
	labels := c.state.Filters[section]
	idx := slices.Index(labels, label)

	switch {
	case checked && idx < 0:
		c.state.Filters[section] = append(labels, label)
	case !checked && idx >= 0:
		labels = slices.Delete(slices.Clone(labels), idx, idx+1)
		if len(labels) == 0 {
			delete(c.state.Filters, section)
			return
		}
		c.state.Filters[section] = labels
	}
}

// IsSelected reports whether label is checked in section.
func (c *Controller) IsSelected(section, label string) bool {
	return slices.Contains(c.state.Filters[section], label)
}

// ClearFilters drops every checkbox selection and resets the price range.
func (c *Controller) ClearFilters() {
	c.state.Filters = query.FilterState{}
	c.state.Price = c.bounds
}

// SetPriceRange stores the slider selection clamped to the catalog bounds.
func (c *Controller) SetPriceRange(lo, hi int64) {
	c.state.Price = query.PriceRange{Min: lo, Max: hi}.Clamp(c.bounds)
}

// SetSort stores the sort key; unknown keys select featured order.
func (c *Controller) SetSort(key string) {
	c.state.Sort = query.ParseSortKey(key)
}

func (c *Controller) SetViewMode(mode string) {
	c.state.View = ParseViewMode(mode)
}

// SetCompareMode records the compare toggle. Nothing consumes it yet.
func (c *Controller) SetCompareMode(on bool) {
	c.state.Compare = on
}

// ToggleSection expands a collapsed sidebar section or collapses an
// expanded one.
func (c *Controller) ToggleSection(title string) {
	if idx := slices.Index(c.state.Open, title); idx >= 0 {
		c.state.Open = slices.Delete(slices.Clone(c.state.Open), idx, idx+1)
		return
	}
	c.state.Open = append(slices.Clone(c.state.Open), title)
}

// IsOpen reports whether the sidebar section is expanded.
func (c *Controller) IsOpen(title string) bool {
	return slices.Contains(c.state.Open, title)
}

// Encode writes the state as query values, omitting defaults.
func (c *Controller) Encode() url.Values {
	v := url.Values{}
	s := c.state

	if s.Search != "" {
		v.Set(ParamSearch, s.Search)
	}
	for section, labels := range s.Filters {
		for _, l := range labels {
			v.Add(filterPrefix+section, l)
		}
	}
	if s.Price.Min != c.bounds.Min {
		v.Set(ParamMin, strconv.FormatInt(s.Price.Min, 10))
	}
	if s.Price.Max != c.bounds.Max {
		v.Set(ParamMax, strconv.FormatInt(s.Price.Max, 10))
	}
	if s.Sort != query.Featured {
		v.Set(ParamSort, string(s.Sort))
	}
	if s.View != Grid {
		v.Set(ParamView, string(s.View))
	}
	if s.Compare {
		v.Set(ParamCompare, "true")
	}
	if !sameSet(s.Open, c.defaultOpen) {
		if len(s.Open) == 0 {
			// An empty value distinguishes "all collapsed" from "defaults".
			v.Set(ParamOpen, "")
		} else {
			v[ParamOpen] = slices.Clone(s.Open)
		}
	}
	return v
}

// URL renders the state as a link to path.
func (c *Controller) URL(path string) string {
	q := c.Encode().Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}

func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, s := range a {
		if !slices.Contains(b, s) {
			return false
		}
	}
	return true
}
