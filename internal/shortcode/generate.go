package shortcode

import (
	"math"
	"strconv"
	"strings"
)

const (
	// galleryRowOvershoot lets row thumbnails exceed the row height by up to
	// 50% so narrow images are not upscaled too much.
	galleryRowOvershoot = 1.5
	highDPIFactor       = 2
)

// Photo is a resolved shortcode. Empty string fields and zero sizes are
// left out of the output.
type Photo struct {
	Caption   string
	Src       string // full URL including any postfix
	Thumb     string // full URL including any postfix
	Width     int    // declared display width
	Height    int    // declared display height
	SrcWidth  int
	SrcHeight int
	// HasSize forces width/height to be written even when they are zero,
	// which happens when thumbnails are on but no sizing rule applied.
	HasSize bool
}

// String renders the photo as a single-line Hugo shortcode.
func (p Photo) String() string {
	var b strings.Builder
	b.WriteString("{{<photo")
	if p.Caption != "" {
		writeAttr(&b, "caption", p.Caption)
	}
	writeAttr(&b, "src", p.Src)
	if p.Thumb != "" {
		writeAttr(&b, "thumb", p.Thumb)
	}
	if p.HasSize || p.Width != 0 || p.Height != 0 {
		writeAttr(&b, "width", strconv.Itoa(p.Width))
		writeAttr(&b, "height", strconv.Itoa(p.Height))
	}
	writeAttr(&b, "src-width", strconv.Itoa(p.SrcWidth))
	writeAttr(&b, "src-height", strconv.Itoa(p.SrcHeight))
	b.WriteString(" >}}")
	return b.String()
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(value)
	b.WriteByte('"')
}

// Thumbnail is the result of the thumbnail sizing rules.
type Thumbnail struct {
	// Width and Height are the declared layout size.
	Width  int
	Height int
	// PixelWidth and PixelHeight are the requested asset size after the
	// row overshoot and HDPI multipliers and the original-size clamp.
	PixelWidth  float64
	PixelHeight float64
}

// ThumbnailSize computes thumbnail sizing for img. It does not look at
// opts.UseThumb.
func ThumbnailSize(img Image, opts Options, layout Layout) Thumbnail {
	ratio := img.AspectRatio()

	var t Thumbnail
	switch {
	case layout == GalleryRow && opts.RowHeight > 0:
		t.Height = opts.RowHeight
		t.Width = int(math.Round(float64(t.Height) * ratio))
	case opts.ThumbWidth > 0:
		t.Width = opts.ThumbWidth
		t.Height = int(math.Round(float64(t.Width) / ratio))
	}

	scale := 1.0
	if layout == GalleryRow {
		scale = galleryRowOvershoot
	}
	if opts.ThumbHDPI {
		scale *= highDPIFactor
	}

	t.PixelWidth = scale * float64(t.Width)
	t.PixelHeight = scale * float64(t.Height)

	// Never request more than the source has.
	if t.PixelWidth > float64(img.Width) {
		t.PixelWidth = float64(img.Width)
		t.PixelHeight = float64(img.Height)
	}

	return t
}

// Build resolves img into a Photo according to opts and layout.
func Build(img Image, opts Options, layout Layout) Photo {
	p := Photo{
		Src:       img.Src + "=" + sourcePostfix(img, opts.MaxWidth),
		SrcWidth:  img.Width,
		SrcHeight: img.Height,
	}

	if opts.UseThumb {
		t := ThumbnailSize(img, opts, layout)
		p.Thumb = img.Src + "=" + ThumbPostfix(t.PixelWidth, t.PixelHeight)
		p.Width = t.Width
		p.Height = t.Height
		p.HasSize = true
	}

	if opts.UseCaption && img.Label != "" {
		p.Caption = img.Label
	}

	return p
}

// Generate returns the shortcode for img. It is deterministic and never fails.
func Generate(img Image, opts Options, layout Layout) string {
	return Build(img, opts, layout).String()
}

// GenerateAll generates a shortcode per image and separates them by a blank line.
func GenerateAll(images []Image, opts Options, layout Layout) string {
	photos := make([]Photo, 0, len(images))
	for _, img := range images {
		photos = append(photos, Build(img, opts, layout))
	}
	return JoinPhotos(photos)
}

// JoinPhotos renders photos separated by a blank line.
func JoinPhotos(photos []Photo) string {
	codes := make([]string, 0, len(photos))
	for _, p := range photos {
		codes = append(codes, p.String())
	}
	return strings.Join(codes, "\n\n")
}
