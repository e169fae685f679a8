package models

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ErrInvalidCatalog wraps every validation failure of a catalog document.
var ErrInvalidCatalog = errors.New("invalid catalog")

type catalogDocument struct {
	Title    string          `yaml:"title"`
	Products []Product       `yaml:"products"`
	Sections []FilterSection `yaml:"sections"`
}

// ProductsRepository serves the fixed, ordered product catalog.
// It is read-only after construction and safe for concurrent use.
type ProductsRepository struct {
	title    string
	products []Product
	byID     map[int]int
	sections []FilterSection
	bounds   PriceBounds
}

// NewDefaultRepository loads the catalog embedded in the binary.
func NewDefaultRepository() (*ProductsRepository, error) {
	return LoadRepository(bytes.NewReader(defaultCatalog))
}

// LoadRepository decodes and validates a YAML catalog document.
func LoadRepository(r io.Reader) (*ProductsRepository, error) {
	var doc catalogDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	repo := &ProductsRepository{
		title:    doc.Title,
		products: doc.Products,
		byID:     make(map[int]int, len(doc.Products)),
		sections: doc.Sections,
	}

	for i, p := range doc.Products {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%w: product %d has no name", ErrInvalidCatalog, p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("%w: product %d has negative price", ErrInvalidCatalog, p.ID)
		}
		if _, dup := repo.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %d", ErrInvalidCatalog, p.ID)
		}
		repo.byID[p.ID] = i
	}

	bounds, err := priceBounds(doc.Sections, doc.Products)
	if err != nil {
		return nil, err
	}
	repo.bounds = bounds

	return repo, nil
}

// priceBounds takes the slider range from the price section, falling back
// to the cheapest and dearest product when the document has none.
func priceBounds(sections []FilterSection, products []Product) (PriceBounds, error) {
	for _, s := range sections {
		if s.Type != SectionRange {
			continue
		}
		if s.Min > s.Max {
			return PriceBounds{}, fmt.Errorf("%w: section %q has min above max", ErrInvalidCatalog, s.Title)
		}
		step := s.Step
		if step <= 0 {
			step = 1
		}
		return PriceBounds{Min: s.Min, Max: s.Max, Step: step}, nil
	}

	var b PriceBounds
	b.Step = 1
	for i, p := range products {
		if i == 0 || p.Price < b.Min {
			b.Min = p.Price
		}
		if p.Price > b.Max {
			b.Max = p.Price
		}
	}
	return b, nil
}

// Title is the page heading of the catalog.
func (r *ProductsRepository) Title() string {
	return r.title
}

// GetAllProducts returns a copy of the catalog in its fixed order.
func (r *ProductsRepository) GetAllProducts() ([]Product, error) {
	out := make([]Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *ProductsRepository) GetByID(id int) (*Product, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	product := r.products[i]
	return &product, nil
}

// GetFilterSections returns the sidebar sections in display order.
func (r *ProductsRepository) GetFilterSections() ([]FilterSection, error) {
	out := make([]FilterSection, len(r.sections))
	copy(out, r.sections)
	return out, nil
}

// DefaultOpenSections lists the sections expanded on first visit.
func (r *ProductsRepository) DefaultOpenSections() []string {
	var open []string
	for _, s := range r.sections {
		if s.Open {
			open = append(open, s.Title)
		}
	}
	return open
}

func (r *ProductsRepository) PriceBounds() PriceBounds {
	return r.bounds
}
