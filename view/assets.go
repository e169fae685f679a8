package view

import (
	_ "embed"
	"io/fs"
	"path"
	"strings"
)

// PlaceholderImage is served for every reference that cannot be resolved.
const PlaceholderImage = "/placeholder.svg"

//go:embed static/placeholder.svg
var PlaceholderSVG []byte

// ImageResolver maps catalog image references to asset URLs.
type ImageResolver struct {
	base  string
	files fs.FS
}

// NewImageResolver serves references under base. When files is non-nil a
// reference only resolves if the file exists in it.
func NewImageResolver(base string, files fs.FS) *ImageResolver {
	base = "/" + strings.Trim(base, "/")
	return &ImageResolver{base: base, files: files}
}

// Resolve returns the URL of ref, or PlaceholderImage when ref is empty
// or missing from the asset store.
func (r *ImageResolver) Resolve(ref string) string {
	name := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(ref)), "/")
	if name == "" || name == "." {
		return PlaceholderImage
	}
	if r.files != nil {
		if _, err := fs.Stat(r.files, name); err != nil {
			return PlaceholderImage
		}
	}
	return path.Join(r.base, name)
}
