package view

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/hometown/storefront/browse"
	"github.com/hometown/storefront/models"
	"github.com/hometown/storefront/query"
)

func TestImageResolver(t *testing.T) {
	files := fstest.MapFS{
		"maimi.jpg":     &fstest.MapFile{Data: []byte("jpg")},
		"sofas/red.png": &fstest.MapFile{Data: []byte("png")},
	}

	testCases := []struct {
		name  string
		files *fstest.MapFS
		ref   string
		want  string
	}{
		{name: "Known file", files: &files, ref: "/maimi.jpg", want: "/assets/maimi.jpg"},
		{name: "Nested file", files: &files, ref: "sofas/red.png", want: "/assets/sofas/red.png"},
		{name: "Missing file", files: &files, ref: "/nope.png", want: PlaceholderImage},
		{name: "Empty reference", files: &files, ref: "", want: PlaceholderImage},
		{name: "Blank reference", ref: "   ", want: PlaceholderImage},
		{name: "No store trusts reference", ref: "/teal.png", want: "/assets/teal.png"},
		{name: "Traversal is cleaned", ref: "/../../etc/passwd", want: "/assets/etc/passwd"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewImageResolver("/assets/", nil)
			if tc.files != nil {
				r = NewImageResolver("assets", *tc.files)
			}
			assert.Equal(t, tc.want, r.Resolve(tc.ref))
		})
	}
}

func TestFormatter(t *testing.T) {
	f := NewFormatter("₹", language.English)

	assert.Equal(t, "₹19,900", f.Format(19900))
	assert.Equal(t, "₹114,900", f.Format(114900))
	assert.Equal(t, "₹0", f.Format(0))
	assert.Equal(t, "-₹1,500", f.Format(-1500))
	assert.Equal(t, "999", f.Number(999))
	assert.Equal(t, "1,000,000", f.Number(1000000))
}

func TestLayoutFor(t *testing.T) {
	grid := LayoutFor(browse.Grid)
	assert.Equal(t, Columns{Small: 1, Medium: 2, Large: 3}, grid.Columns)
	assert.Equal(t, 64, grid.ImageHeight)
	assert.False(t, grid.IsList())
	assert.Equal(t, "grid grid-cols-1 md:grid-cols-2 lg:grid-cols-3 gap-8", grid.ContainerClass())

	list := LayoutFor(browse.List)
	assert.Equal(t, Columns{Small: 1, Medium: 1, Large: 1}, list.Columns)
	assert.Equal(t, 48, list.ImageHeight)
	assert.True(t, list.IsList())
	assert.Contains(t, list.CardClass(), "flex-row")
	assert.Contains(t, list.ImageBoxClass(), "w-48")

	assert.Equal(t, grid, LayoutFor(browse.ViewMode("carousel")))
}

func TestCardHoverStateMachine(t *testing.T) {
	images := NewImageResolver("/assets", nil)
	money := NewFormatter("₹", language.English)
	original := int64(79000)

	card := NewCard(models.Product{
		ID:            2,
		Name:          "Miami Ottoman in Grey Colour",
		Price:         12990,
		OriginalPrice: &original,
		Image:         "/grey-fabric-round-ottoman.png",
		HoverImage:    "/maimi.jpg",
		Badge:         "Store Exclusive",
	}, images, money)

	assert.Equal(t, Normal, card.State())
	assert.Equal(t, "/assets/grey-fabric-round-ottoman.png", card.DisplayedImage())

	card.Enter()
	assert.Equal(t, Hovered, card.State())
	assert.Equal(t, "/assets/maimi.jpg", card.DisplayedImage())

	card.Enter()
	assert.Equal(t, Hovered, card.State(), "re-entering stays hovered")

	card.Leave()
	assert.Equal(t, Normal, card.State())
	assert.Equal(t, "/assets/grey-fabric-round-ottoman.png", card.DisplayedImage())

	assert.Equal(t, "₹12,990", card.Price)
	assert.Equal(t, "₹79,000", card.OriginalPrice)
	assert.Equal(t, "83% off", card.Savings)
	assert.Equal(t, "Store Exclusive", card.Badge)
	assert.Empty(t, card.Discount)
	assert.Equal(t, "hovered", Hovered.String())
}

func TestCardImageFallbacks(t *testing.T) {
	images := NewImageResolver("/assets", nil)
	money := NewFormatter("₹", language.English)

	noHover := NewCard(models.Product{Name: "A", Image: "/a.png"}, images, money)
	noHover.Enter()
	assert.Equal(t, "/assets/a.png", noHover.DisplayedImage())

	noImage := NewCard(models.Product{Name: "B"}, images, money)
	assert.Equal(t, PlaceholderImage, noImage.DisplayedImage())
	noImage.Enter()
	assert.Equal(t, PlaceholderImage, noImage.DisplayedImage())
	assert.Empty(t, noImage.OriginalPrice)
	assert.Empty(t, noImage.Savings)
}

func TestCardSavingsYieldsToDiscountLabel(t *testing.T) {
	images := NewImageResolver("/assets", nil)
	money := NewFormatter("₹", language.English)
	original := int64(78000)

	labelled := NewCard(models.Product{
		ID:            9,
		Name:          "Nordic Style 3 Seater Sofa in Light Grey",
		Price:         32900,
		OriginalPrice: &original,
		Discount:      "58% Off",
	}, images, money)
	assert.Equal(t, "58% Off", labelled.Discount)
	assert.Empty(t, labelled.Savings)
	assert.Equal(t, "₹78,000", labelled.OriginalPrice)

	f := newFixture(t)
	for _, c := range f.builder.Cards(f.catalog) {
		if c.ID == 9 {
			assert.Equal(t, "58% Off", c.Discount)
			assert.Empty(t, c.Savings)
		}
	}
}

type fixture struct {
	repo    *models.ProductsRepository
	catalog []models.Product
	builder *Builder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo, err := models.NewDefaultRepository()
	require.NoError(t, err)
	catalog, err := repo.GetAllProducts()
	require.NoError(t, err)
	return fixture{
		repo:    repo,
		catalog: catalog,
		builder: NewBuilder(NewImageResolver("/assets", nil), NewFormatter("₹", language.English)),
	}
}

func (f fixture) page(t *testing.T, rawQuery string) Page {
	t.Helper()
	v, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)

	b := f.repo.PriceBounds()
	sections, err := f.repo.GetFilterSections()
	require.NoError(t, err)

	ctrl := browse.Decode(v, query.PriceRange{Min: b.Min, Max: b.Max}, []string{"Price", "Availability", "Type Material"})
	return f.builder.Build(PageInput{
		Title:      f.repo.Title(),
		Path:       "/",
		Controller: ctrl,
		Catalog:    f.catalog,
		Sections:   sections,
		Results:    ctrl.Params().Run(f.catalog),
		Bounds:     b,
	})
}

func cardIDs(cards []Card) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func sectionByTitle(t *testing.T, p Page, title string) Section {
	t.Helper()
	for _, s := range p.Sections {
		if s.Title == title {
			return s
		}
	}
	t.Fatalf("section %q not found", title)
	return Section{}
}

func TestBuildPage(t *testing.T) {
	f := newFixture(t)
	p := f.page(t, "f.Color=Grey&sort=price-low-high")

	assert.Equal(t, "Sofas", p.Title)
	assert.Equal(t, 5, p.ResultCount)
	assert.Equal(t, []int{2, 3, 6, 9, 4}, cardIDs(p.Cards))
	assert.True(t, p.HasFilters)

	color := sectionByTitle(t, p, "Color")
	assert.False(t, color.Open)
	require.NotEmpty(t, color.Options)
	for _, o := range color.Options {
		if o.Label != "Grey" {
			continue
		}
		assert.True(t, o.Checked)
		assert.Equal(t, 5, o.Count)
		assert.Equal(t, "color-grey", o.ID)
		assert.NotContains(t, o.URL, "f.Color", "unchecking Grey clears the only color selection")
	}

	price := sectionByTitle(t, p, "Price")
	require.NotNil(t, price.Price)
	assert.True(t, price.Open)
	assert.Equal(t, "₹114,900", price.Price.HighestLabel)
	assert.Equal(t, int64(1000), price.Price.Step)
	assert.Contains(t, price.Price.Hidden, Field{Name: "f.Color", Value: "Grey"})
	assert.Contains(t, price.Price.Hidden, Field{Name: "sort", Value: "price-low-high"})

	var activeSort []string
	for _, o := range p.SortOptions {
		if o.Active {
			activeSort = append(activeSort, o.Value)
		}
	}
	assert.Equal(t, []string{"price-low-high"}, activeSort)
	assert.Len(t, p.SortOptions, len(query.SortKeys))
	assert.NotContains(t, p.SortHidden, Field{Name: "sort", Value: "price-low-high"})

	require.Len(t, p.Views, 2)
	assert.True(t, p.Views[0].Active)
	assert.Contains(t, p.Views[1].URL, "view=list")
	assert.Contains(t, p.Compare.URL, "compare=true")
	assert.NotContains(t, p.ClearURL, "f.Color")
	assert.Contains(t, p.ClearURL, "sort=price-low-high")
}

func TestViewModeDoesNotChangeProducts(t *testing.T) {
	f := newFixture(t)

	grid := f.page(t, "q=sofa&sort=alphabetically-az")
	list := f.page(t, "q=sofa&sort=alphabetically-az&view=list")

	assert.Equal(t, cardIDs(grid.Cards), cardIDs(list.Cards))
	assert.Equal(t, browse.Grid, grid.Layout.Mode)
	assert.Equal(t, browse.List, list.Layout.Mode)
}

func TestRender(t *testing.T) {
	f := newFixture(t)
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, f.page(t, "q=miami&view=list")))
	html := buf.String()

	assert.Contains(t, html, "<title>Sofas | HomeTown</title>")
	assert.Contains(t, html, "Miami Ottoman in Grey Colour")
	assert.Contains(t, html, "₹12,990")
	assert.Contains(t, html, `data-hover-src="/assets/maimi.jpg"`)
	assert.Contains(t, html, `data-view="list"`)
	assert.Contains(t, html, "3 products")
	assert.NotContains(t, html, "Paddington")
	assert.Equal(t, 3, strings.Count(html, "data-card "))
}

func TestRenderEmptyResult(t *testing.T) {
	f := newFixture(t)
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, f.page(t, "q=wardrobe")))
	assert.Contains(t, buf.String(), "No products match your selection.")
	assert.Contains(t, buf.String(), "0 products")
}
