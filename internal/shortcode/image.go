// Package shortcode turns photo descriptors into Hugo photo shortcodes.
package shortcode

// Image describes a photo found on a gallery page.
type Image struct {
	Src    string `json:"src"`             // plain URL without the dimension suffix
	Label  string `json:"label,omitempty"` // caption, may be empty
	Width  int    `json:"width"`           // natural width in pixels
	Height int    `json:"height"`          // natural height in pixels
}

// AspectRatio returns width / height. It is not finite when Height is zero;
// callers are expected to pass scanner output, which always has both set.
func (i Image) AspectRatio() float64 {
	return float64(i.Width) / float64(i.Height)
}

// Layout selects how the thumbnail is sized.
type Layout int

// Layout values.
const (
	// Single sizes the thumbnail by width.
	Single Layout = iota
	// GalleryRow sizes the thumbnail by row height.
	GalleryRow
)

// String returns the layout name used by the HTTP API and CLI flags.
func (l Layout) String() string {
	if l == GalleryRow {
		return "gallery"
	}
	return "single"
}

// ParseLayout maps "gallery"/"row" to GalleryRow and anything else to Single.
func ParseLayout(s string) Layout {
	switch s {
	case "gallery", "row", "gallery-row":
		return GalleryRow
	}
	return Single
}

// Options holds the user preferences the generator needs.
type Options struct {
	UseThumb   bool
	ThumbHDPI  bool
	ThumbWidth int
	RowHeight  int
	UseCaption bool
	// MaxWidth caps the linked source size. Zero keeps the full-resolution
	// source, which is the default.
	MaxWidth int
}
