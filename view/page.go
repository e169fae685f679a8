package view

import (
	"slices"
	"strings"

	"github.com/hometown/storefront/browse"
	"github.com/hometown/storefront/models"
	"github.com/hometown/storefront/query"
)

// Field is a hidden form input carrying state a form does not edit.
type Field struct {
	Name  string
	Value string
}

// Link is a clickable control that moves to another state.
type Link struct {
	Label  string
	Value  string
	URL    string
	Active bool
}

// Option is one checkbox of a filter section.
type Option struct {
	ID      string
	Label   string
	Count   int
	Checked bool
	URL     string
}

// PriceSlider is the state of the range section.
type PriceSlider struct {
	Min          int64
	Max          int64
	Step         int64
	SelectedMin  int64
	SelectedMax  int64
	MinLabel     string
	MaxLabel     string
	HighestLabel string
	Hidden       []Field
}

// Section is one collapsible sidebar group.
type Section struct {
	Title     string
	Open      bool
	ToggleURL string
	Options   []Option
	Price     *PriceSlider
}

// Page is everything the storefront template needs.
type Page struct {
	Title        string
	Path         string
	Search       string
	SearchHidden []Field
	ResultCount  int
	Layout       Layout
	Cards        []Card
	Sections     []Section
	SortOptions  []Link
	SortHidden   []Field
	Views        []Link
	Compare      Link
	ClearURL     string
	HasFilters   bool
}

// PageInput is the data a page is built from.
type PageInput struct {
	Title      string
	Path       string
	Controller *browse.Controller
	Catalog    []models.Product
	Sections   []models.FilterSection
	Results    []models.Product
	Bounds     models.PriceBounds
}

// Builder turns query results into page view models.
type Builder struct {
	images *ImageResolver
	money  *Formatter
}

func NewBuilder(images *ImageResolver, money *Formatter) *Builder {
	return &Builder{images: images, money: money}
}

// Cards renders results in order.
func (b *Builder) Cards(results []models.Product) []Card {
	cards := make([]Card, len(results))
	for i, p := range results {
		cards[i] = NewCard(p, b.images, b.money)
	}
	return cards
}

// Build assembles the page for the controller's state.
func (b *Builder) Build(in PageInput) Page {
	ctrl := in.Controller
	state := ctrl.State()

	page := Page{
		Title:        in.Title,
		Path:         in.Path,
		Search:       state.Search,
		SearchHidden: hiddenExcept(ctrl, browse.ParamSearch),
		ResultCount:  len(in.Results),
		Layout:       LayoutFor(state.View),
		Cards:        b.Cards(in.Results),
		SortHidden:   hiddenExcept(ctrl, browse.ParamSort),
		HasFilters:   len(state.Filters) > 0 || state.Price != ctrl.Bounds(),
	}

	for _, key := range query.SortKeys {
		page.SortOptions = append(page.SortOptions, Link{
			Label:  key.Label(),
			Value:  string(key),
			Active: key == state.Sort,
		})
	}

	for _, mode := range []browse.ViewMode{browse.Grid, browse.List} {
		next := ctrl.Clone()
		next.SetViewMode(string(mode))
		page.Views = append(page.Views, Link{
			Label:  strings.ToUpper(string(mode[:1])) + string(mode[1:]),
			Value:  string(mode),
			URL:    next.URL(in.Path),
			Active: mode == state.View,
		})
	}

	compare := ctrl.Clone()
	compare.SetCompareMode(!state.Compare)
	page.Compare = Link{Label: "Compare", URL: compare.URL(in.Path), Active: state.Compare}

	cleared := ctrl.Clone()
	cleared.ClearFilters()
	page.ClearURL = cleared.URL(in.Path)

	for _, s := range in.Sections {
		page.Sections = append(page.Sections, b.section(in, ctrl, s))
	}
	return page
}

func (b *Builder) section(in PageInput, ctrl *browse.Controller, s models.FilterSection) Section {
	toggled := ctrl.Clone()
	toggled.ToggleSection(s.Title)

	sec := Section{
		Title:     s.Title,
		Open:      ctrl.IsOpen(s.Title),
		ToggleURL: toggled.URL(in.Path),
	}

	if s.Type == models.SectionRange {
		selected := ctrl.State().Price
		sec.Price = &PriceSlider{
			Min:          in.Bounds.Min,
			Max:          in.Bounds.Max,
			Step:         in.Bounds.Step,
			SelectedMin:  selected.Min,
			SelectedMax:  selected.Max,
			MinLabel:     b.money.Number(selected.Min),
			MaxLabel:     b.money.Number(selected.Max),
			HighestLabel: b.money.Format(in.Bounds.Max),
			Hidden:       hiddenExcept(ctrl, browse.ParamMin, browse.ParamMax),
		}
		return sec
	}

	for _, label := range s.Labels {
		checked := ctrl.IsSelected(s.Title, label)
		next := ctrl.Clone()
		next.ToggleFilter(s.Title, label, !checked)

		sec.Options = append(sec.Options, Option{
			ID:      optionID(s.Title, label),
			Label:   label,
			Count:   query.CountMatches(in.Catalog, label),
			Checked: checked,
			URL:     next.URL(in.Path),
		})
	}
	return sec
}

func optionID(section, label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(section + "-" + label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// hiddenExcept lists the encoded state minus the named parameters, for
// forms that edit only those.
func hiddenExcept(ctrl *browse.Controller, names ...string) []Field {
	values := ctrl.Encode()
	for _, n := range names {
		values.Del(n)
	}

	var fields []Field
	for name, vs := range values {
		for _, v := range vs {
			fields = append(fields, Field{Name: name, Value: v})
		}
	}
	slices.SortStableFunc(fields, func(a, b Field) int { return strings.Compare(a.Name, b.Name) })
	return fields
}
