// Package gallery sizes and progressively loads the images of a rendered
// photo gallery.
package gallery

import (
	"math"
	"regexp"
	"strconv"
)

var dimensionsPattern = regexp.MustCompile(`=w(\d+)-h(\d+)`)

// ReplaceDimensions rewrites the first "=w{W}-h{H}" in url to the given
// width, keeping the aspect ratio. URLs without that pattern, or with a zero
// width or height, are returned unchanged.
func ReplaceDimensions(url string, width int) string {
	loc := dimensionsPattern.FindStringSubmatchIndex(url)
	if loc == nil {
		return url
	}

	origW, errW := strconv.Atoi(url[loc[2]:loc[3]])
	origH, errH := strconv.Atoi(url[loc[4]:loc[5]])
	if errW != nil || errH != nil || origW == 0 || origH == 0 {
		return url
	}

	ratio := float64(origW) / float64(origH)
	height := int(math.Round(float64(width) / ratio))

	return url[:loc[0]] + "=w" + strconv.Itoa(width) + "-h" + strconv.Itoa(height) + url[loc[1]:]
}

// urlDimensions returns the first "=w{W}-h{H}" of url, or zeros.
func urlDimensions(url string) (int, int) {
	m := dimensionsPattern.FindStringSubmatch(url)
	if m == nil {
		return 0, 0
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return w, h
}

// Link is a gallery anchor pointing at the full-size image.
type Link struct {
	Href string
	// DataWidth is the source width from data-width, 0 when absent.
	DataWidth int
}

// AdjustLinks resizes link targets to the viewport. Once a link wider than
// twice the current target is seen, the target doubles and stays doubled
// for all following links.
func AdjustLinks(links []Link, viewportWidth int) []Link {
	out := make([]Link, len(links))
	target := viewportWidth
	for i, l := range links {
		if l.DataWidth > 0 && 2*target < l.DataWidth {
			target = 2 * target
		}
		l.Href = ReplaceDimensions(l.Href, target)
		out[i] = l
	}
	return out
}

// Image is an inline image stretched to the viewport.
type Image struct {
	Src           string
	NaturalWidth  int
	NaturalHeight int
	Width         int
	Height        int
}

// AdjustImages resizes inline images to the viewport width. Height is only
// recomputed when the natural size is known.
func AdjustImages(imgs []Image, viewportWidth int) []Image {
	out := make([]Image, len(imgs))
	for i, img := range imgs {
		img.Src = ReplaceDimensions(img.Src, viewportWidth)
		img.Width = viewportWidth
		if img.NaturalWidth > 0 && img.NaturalHeight > 0 {
			ratio := float64(img.NaturalWidth) / float64(img.NaturalHeight)
			img.Height = int(math.Round(float64(viewportWidth) / ratio))
		}
		out[i] = img
	}
	return out
}
