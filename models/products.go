package models

import (
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
// Prices are whole currency units as shown on the storefront.
type Product struct {
	ID            int    `yaml:"id" json:"id"`
	Name          string `yaml:"name" json:"name"`
	Brand         string `yaml:"brand" json:"brand"`
	Price         int64  `yaml:"price" json:"price"`
	OriginalPrice *int64 `yaml:"original_price,omitempty" json:"original_price,omitempty"`
	Discount      string `yaml:"discount,omitempty" json:"discount,omitempty"`
	Image         string `yaml:"image" json:"image"`
	HoverImage    string `yaml:"hover_image" json:"hover_image"`
	Badge         string `yaml:"badge,omitempty" json:"badge,omitempty"`
}

// SavingsPercent returns the whole-number percentage saved against the
// original price. ok is false when there is no original price above the
// selling price.
func (p Product) SavingsPercent() (pct int64, ok bool) {
	if p.OriginalPrice == nil || *p.OriginalPrice <= p.Price || *p.OriginalPrice <= 0 {
		return 0, false
	}
	orig := decimal.NewFromInt(*p.OriginalPrice)
	saved := orig.Sub(decimal.NewFromInt(p.Price))
	return saved.Div(orig).Mul(decimal.NewFromInt(100)).Floor().IntPart(), true
}
