package view

import (
	"fmt"

	"github.com/hometown/storefront/models"
)

// CardState is the pointer state of a product card.
type CardState int

const (
	Normal CardState = iota
	Hovered
)

func (s CardState) String() string {
	switch s {
	case Normal:
		return "normal"
	case Hovered:
		return "hovered"
	}
	return fmt.Sprintf("CardState(%d)", int(s))
}

// Card is the rendered form of one product. It starts Normal; Enter and
// Leave move it between Normal and Hovered, and the displayed image
// follows the state.
type Card struct {
	ID            int
	Name          string
	Brand         string
	Price         string
	OriginalPrice string
	Savings       string
	Badge         string
	Discount      string
	Image         string
	HoverImage    string

	state CardState
}

// NewCard resolves images and formats prices for p. A product without a
// hover image swaps to its primary image.
func NewCard(p models.Product, images *ImageResolver, money *Formatter) Card {
	c := Card{
		ID:       p.ID,
		Name:     p.Name,
		Brand:    p.Brand,
		Price:    money.Format(p.Price),
		Badge:    p.Badge,
		Discount: p.Discount,
		Image:    images.Resolve(p.Image),
	}

	c.HoverImage = c.Image
	if p.HoverImage != "" {
		c.HoverImage = images.Resolve(p.HoverImage)
	}

	if p.OriginalPrice != nil {
		c.OriginalPrice = money.Format(*p.OriginalPrice)
	}
	if p.Discount == "" {
		if pct, ok := p.SavingsPercent(); ok {
			c.Savings = fmt.Sprintf("%d%% off", pct)
		}
	}
	return c
}

func (c *Card) State() CardState { return c.state }

// Enter handles pointer-enter.
func (c *Card) Enter() { c.state = Hovered }

// Leave handles pointer-leave.
func (c *Card) Leave() { c.state = Normal }

// DisplayedImage is the image shown in the current state.
func (c *Card) DisplayedImage() string {
	if c.state == Hovered {
		return c.HoverImage
	}
	return c.Image
}
