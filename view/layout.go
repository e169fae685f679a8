package view

import (
	"fmt"

	"github.com/hometown/storefront/browse"
)

// Columns is the grid column count per viewport size.
type Columns struct {
	Small  int
	Medium int
	Large  int
}

// Layout describes how the result list is arranged. It never affects which
// products are shown.
type Layout struct {
	Mode        browse.ViewMode
	Columns     Columns
	ImageHeight int
	ImageWidth  int
}

// LayoutFor returns the layout of a view mode; unknown modes render as a
// grid.
func LayoutFor(mode browse.ViewMode) Layout {
	if mode == browse.List {
		return Layout{
			Mode:        browse.List,
			Columns:     Columns{Small: 1, Medium: 1, Large: 1},
			ImageHeight: 48,
			ImageWidth:  48,
		}
	}
	return Layout{
		Mode:        browse.Grid,
		Columns:     Columns{Small: 1, Medium: 2, Large: 3},
		ImageHeight: 64,
	}
}

func (l Layout) IsList() bool { return l.Mode == browse.List }

// ContainerClass is the CSS class list of the result container.
func (l Layout) ContainerClass() string {
	if l.IsList() {
		return "flex flex-col gap-6"
	}
	return fmt.Sprintf("grid grid-cols-%d md:grid-cols-%d lg:grid-cols-%d gap-8",
		l.Columns.Small, l.Columns.Medium, l.Columns.Large)
}

func (l Layout) CardClass() string {
	base := "bg-white rounded-lg overflow-hidden shadow-sm border border-gray-100 hover:shadow-md transition-shadow duration-200"
	if l.IsList() {
		return base + " flex flex-row"
	}
	return base
}

func (l Layout) ImageBoxClass() string {
	if l.IsList() {
		return fmt.Sprintf("relative overflow-hidden w-%d flex-shrink-0", l.ImageWidth)
	}
	return "relative overflow-hidden"
}

func (l Layout) ImageClass() string {
	return fmt.Sprintf("w-full h-%d object-cover transition-all duration-200", l.ImageHeight)
}

func (l Layout) TitleClass() string {
	if l.IsList() {
		return "font-medium leading-tight text-gray-800 line-clamp-2 text-sm"
	}
	return "font-medium leading-tight text-gray-800 line-clamp-2 text-base"
}

func (l Layout) PriceClass() string {
	if l.IsList() {
		return "font-bold text-gray-900 text-lg"
	}
	return "font-bold text-gray-900 text-xl"
}
