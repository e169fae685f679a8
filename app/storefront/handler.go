// Package storefront serves the server-rendered listing page.
package storefront

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/hometown/storefront/app/observability"
	"github.com/hometown/storefront/browse"
	"github.com/hometown/storefront/models"
	"github.com/hometown/storefront/query"
	"github.com/hometown/storefront/view"
)

type CatalogProvider interface {
	Title() string
	GetAllProducts() ([]models.Product, error)
	GetFilterSections() ([]models.FilterSection, error)
	PriceBounds() models.PriceBounds
	DefaultOpenSections() []string
}

type Searcher interface {
	Query(p query.Params) []models.Product
}

type PageHandler struct {
	repo     CatalogProvider
	search   Searcher
	builder  *view.Builder
	renderer *view.Renderer
}

func NewPageHandler(r CatalogProvider, s Searcher, b *view.Builder, renderer *view.Renderer) *PageHandler {
	return &PageHandler{
		repo:     r,
		search:   s,
		builder:  b,
		renderer: renderer,
	}
}

// HandleGet renders the listing for the state encoded in the query string.
func (h *PageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	log := observability.FromContext(r.Context())

	page, err := h.page(r)
	if err != nil {
		log.Error("build page", zap.Error(err))
		http.Error(w, "failed to load catalog", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, page); err != nil {
		log.Error("render page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

func (h *PageHandler) page(r *http.Request) (view.Page, error) {
	catalog, err := h.repo.GetAllProducts()
	if err != nil {
		return view.Page{}, fmt.Errorf("get products: %w", err)
	}
	sections, err := h.repo.GetFilterSections()
	if err != nil {
		return view.Page{}, fmt.Errorf("get filter sections: %w", err)
	}

	bounds := h.repo.PriceBounds()
	ctrl := browse.ForCatalog(r.URL.Query(), bounds, h.repo.DefaultOpenSections())

	return h.builder.Build(view.PageInput{
		Title:      h.repo.Title(),
		Path:       r.URL.Path,
		Controller: ctrl,
		Catalog:    catalog,
		Sections:   sections,
		Results:    h.search.Query(ctrl.Params()),
		Bounds:     bounds,
	}), nil
}
