package shortcode

import (
	"math"
	"strconv"
	"strings"
)

const (
	scalePostfix      = "-s"
	noOptimizePostfix = "-no"
)

// formatDim prints a pixel size without a trailing ".0". Gallery rows use a
// 1.5 multiplier, so half pixels can show up and are kept as-is.
func formatDim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sizePostfix(width, height float64) string {
	return "-w" + formatDim(width) + "-h" + formatDim(height)
}

func trimLeadingDash(s string) string {
	return strings.TrimPrefix(s, "-")
}

// SourcePostfix returns the postfix that links the full-resolution source,
// e.g. "w4000-h3000-no".
func SourcePostfix(width, height int) string {
	return trimLeadingDash(sizePostfix(float64(width), float64(height)) + noOptimizePostfix)
}

// ThumbPostfix returns the scale-to-fit postfix for a thumbnail request,
// e.g. "w1200-h900-s".
func ThumbPostfix(width, height float64) string {
	return trimLeadingDash(sizePostfix(width, height) + scalePostfix)
}

// sourcePostfix applies the optional max-width cap. With maxWidth <= 0 it is
// SourcePostfix.
func sourcePostfix(img Image, maxWidth int) string {
	if maxWidth <= 0 {
		return SourcePostfix(img.Width, img.Height)
	}

	mw := float64(maxWidth)
	switch {
	case img.Width > maxWidth:
		ratio := mw / float64(img.Width)
		w := math.Round(float64(img.Width) * ratio)
		h := math.Round(float64(img.Height) * ratio)
		return trimLeadingDash(sizePostfix(w, h) + scalePostfix)
	case img.Width == 0:
		h := math.Round(mw / img.AspectRatio())
		return trimLeadingDash(sizePostfix(mw, h) + scalePostfix)
	default:
		return SourcePostfix(img.Width, img.Height)
	}
}
