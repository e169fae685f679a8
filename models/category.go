package models

// SectionType distinguishes the price slider from checkbox groups.
type SectionType string

const (
	SectionRange    SectionType = "range"
	SectionCheckbox SectionType = "checkbox"
)

// FilterSection is one collapsible group in the storefront sidebar.
// Checkbox sections list their labels; the range section carries the
// slider bounds.
type FilterSection struct {
	Title  string      `yaml:"title" json:"title"`
	Type   SectionType `yaml:"type" json:"type"`
	Open   bool        `yaml:"open,omitempty" json:"open"`
	Labels []string    `yaml:"labels,omitempty" json:"labels,omitempty"`
	Min    int64       `yaml:"min,omitempty" json:"min,omitempty"`
	Max    int64       `yaml:"max,omitempty" json:"max,omitempty"`
	Step   int64       `yaml:"step,omitempty" json:"step,omitempty"`
}

// PriceBounds is the slider range of the price section.
type PriceBounds struct {
	Min  int64
	Max  int64
	Step int64
}
