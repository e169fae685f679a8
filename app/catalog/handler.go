package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hometown/storefront/app/httpx"
	"github.com/hometown/storefront/app/observability"
	"github.com/hometown/storefront/browse"
	"github.com/hometown/storefront/models"
	"github.com/hometown/storefront/query"
)

type Response struct {
	Total    int              `json:"total"`
	Offset   int              `json:"offset"`
	Limit    int              `json:"limit"`
	Sort     string           `json:"sort"`
	Price    query.PriceRange `json:"price"`
	Products []Product        `json:"products"`
}

type Product struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	Price         int64  `json:"price"`
	OriginalPrice *int64 `json:"original_price,omitempty"`
	Discount      string `json:"discount,omitempty"`
	Badge         string `json:"badge,omitempty"`
	Image         string `json:"image"`
	HoverImage    string `json:"hover_image"`
}

type ProductProvider interface {
	GetByID(id int) (*models.Product, error)
	PriceBounds() models.PriceBounds
	DefaultOpenSections() []string
}

// Searcher runs catalog queries.
type Searcher interface {
	Query(p query.Params) []models.Product
}

// ImageResolver maps image references to URLs.
type ImageResolver interface {
	Resolve(ref string) string
}

type CatalogHandler struct {
	repo   ProductProvider
	search Searcher
	images ImageResolver
}

func NewCatalogHandler(r ProductProvider, s Searcher, images ImageResolver) *CatalogHandler {
	return &CatalogHandler{
		repo:   r,
		search: s,
		images: images,
	}
}

// HandleGet lists the products matching the query string state.
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	ctrl := browse.ForCatalog(r.URL.Query(), h.repo.PriceBounds(), h.repo.DefaultOpenSections())
	params := ctrl.Params()
	res := h.search.Query(params)

	observability.FromContext(r.Context()).Debug("catalog query",
		zap.String("search", params.Search),
		zap.Int("filters", len(params.Filters)),
		zap.String("sort", string(params.Sort)),
		zap.Int("matches", len(res)),
	)

	start := min(offset, len(res))
	end := start + min(limit, len(res)-start)

	products := make([]Product, 0, end-start)
	for _, p := range res[start:end] {
		products = append(products, h.toProduct(p))
	}

	response := Response{
		Total:    len(res),
		Offset:   offset,
		Limit:    limit,
		Sort:     string(params.Sort),
		Price:    params.Price,
		Products: products,
	}
	if err := httpx.WriteJSON(w, http.StatusOK, response); err != nil {
		observability.FromContext(r.Context()).Warn("write catalog response", zap.Error(err))
	}
}

// HandleGetProduct returns a single product by id.
func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "Product not found")
		return
	}

	product, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Product not found")
			return
		}
		observability.FromContext(r.Context()).Error("get product", zap.Int("id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}

	if err := httpx.WriteJSON(w, http.StatusOK, h.toProduct(*product)); err != nil {
		observability.FromContext(r.Context()).Warn("write product response", zap.Error(err))
	}
}

func (h *CatalogHandler) toProduct(p models.Product) Product {
	hover := p.HoverImage
	if hover == "" {
		hover = p.Image
	}
	return Product{
		ID:            p.ID,
		Name:          p.Name,
		Brand:         p.Brand,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Discount:      p.Discount,
		Badge:         p.Badge,
		Image:         h.images.Resolve(p.Image),
		HoverImage:    h.images.Resolve(hover),
	}
}
