package categories

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hometown/storefront/app/httpx"
	"github.com/hometown/storefront/app/observability"
	"github.com/hometown/storefront/models"
	"github.com/hometown/storefront/query"
)

type OptionResponse struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type SectionResponse struct {
	Title   string             `json:"title"`
	Type    models.SectionType `json:"type"`
	Open    bool               `json:"open"`
	Options []OptionResponse   `json:"options,omitempty"`
	Min     *int64             `json:"min,omitempty"`
	Max     *int64             `json:"max,omitempty"`
	Step    *int64             `json:"step,omitempty"`
}

type Response struct {
	Title    string            `json:"title"`
	Sections []SectionResponse `json:"sections"`
}

type CategoryProvider interface {
	Title() string
	GetAllProducts() ([]models.Product, error)
	GetFilterSections() ([]models.FilterSection, error)
	PriceBounds() models.PriceBounds
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

// HandleGetAll lists the sidebar sections with per-option product counts.
func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	log := observability.FromContext(r.Context())

	sections, err := h.repo.GetFilterSections()
	if err != nil {
		log.Error("get filter sections", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "failed to fetch filters")
		return
	}
	products, err := h.repo.GetAllProducts()
	if err != nil {
		log.Error("get products", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "failed to fetch filters")
		return
	}

	bounds := h.repo.PriceBounds()
	response := Response{
		Title:    h.repo.Title(),
		Sections: make([]SectionResponse, len(sections)),
	}
	for i, s := range sections {
		sec := SectionResponse{
			Title: s.Title,
			Type:  s.Type,
			Open:  s.Open,
		}
		if s.Type == models.SectionRange {
			sec.Min, sec.Max, sec.Step = &bounds.Min, &bounds.Max, &bounds.Step
		} else {
			for _, label := range s.Labels {
				sec.Options = append(sec.Options, OptionResponse{
					Label: label,
					Count: query.CountMatches(products, label),
				})
			}
		}
		response.Sections[i] = sec
	}

	if err := httpx.WriteJSON(w, http.StatusOK, response); err != nil {
		log.Warn("write filters response", zap.Error(err))
	}
}
