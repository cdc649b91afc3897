// Package scanner finds photos in a snapshot of a Google Photos album page.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kozaktomas/photo-shortcode/internal/shortcode"
)

// ErrNotFound is returned when no matching image or container exists.
var ErrNotFound = errors.New("image not found")

const (
	containerSelector = "c-wiz[data-media-key]"
	// Visible images only; hidden duplicates carry aria-hidden.
	visibleImageSelector = "img:not([aria-hidden])"
	labeledImageSelector = "div img[aria-label]"
)

// PlainURL strips the dimension suffix from a photo URL, i.e. everything from
// the first "=". URLs without "=" are returned unchanged.
func PlainURL(url string) string {
	if i := strings.IndexByte(url, '='); i >= 0 {
		return url[:i]
	}
	return url
}

// Scanner queries one parsed page.
type Scanner struct {
	doc *goquery.Document
}

// New wraps an already parsed document.
func New(doc *goquery.Document) *Scanner {
	return &Scanner{doc: doc}
}

// NewFromReader parses an HTML snapshot.
func NewFromReader(r io.Reader) (*Scanner, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return New(doc), nil
}

// Fetch downloads and parses a page.
func Fetch(ctx context.Context, client *http.Client, pageURL string) (*Scanner, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := client.Do(req) //nolint:gosec // URL supplied by the user on the command line
	if err != nil {
		return nil, fmt.Errorf("could not fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching page failed with status %d", resp.StatusCode)
	}

	return NewFromReader(resp.Body)
}

// FindBySrc resolves a context-menu source URL to the image it points at.
func (s *Scanner) FindBySrc(srcURL string) (shortcode.Image, error) {
	plain := PlainURL(srcURL)
	if plain == "" {
		return shortcode.Image{}, ErrNotFound
	}

	var img *goquery.Selection
	s.doc.Find(containerSelector + " " + visibleImageSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if src, ok := sel.Attr("src"); ok && strings.HasPrefix(src, plain) {
			img = sel
			return false
		}
		return true
	})
	if img == nil {
		return shortcode.Image{}, ErrNotFound
	}

	container := img.Closest(containerSelector)
	if container.Length() == 0 {
		return shortcode.Image{}, ErrNotFound
	}

	width, height, err := containerSize(container)
	if err != nil {
		return shortcode.Image{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	label, _ := img.Attr("aria-label")
	return shortcode.Image{
		Src:    plain,
		Label:  label,
		Width:  width,
		Height: height,
	}, nil
}

// FindAll lists one image per container in document order. Containers are
// deduplicated by their media key; containers without a labeled image or
// with unusable dimensions are skipped.
func (s *Scanner) FindAll() ([]shortcode.Image, error) {
	seen := make(map[string]struct{})
	var images []shortcode.Image

	s.doc.Find(containerSelector).Each(func(_ int, container *goquery.Selection) {
		key, _ := container.Attr("data-media-key")
		if _, dup := seen[key]; dup {
			return
		}

		img := container.Find(labeledImageSelector).First()
		if img.Length() == 0 {
			return
		}
		src, ok := img.Attr("src")
		if !ok {
			return
		}
		width, height, err := containerSize(container)
		if err != nil {
			return
		}

		seen[key] = struct{}{}
		label, _ := img.Attr("aria-label")
		images = append(images, shortcode.Image{
			Src:    PlainURL(src),
			Label:  label,
			Width:  width,
			Height: height,
		})
	})

	if len(images) == 0 {
		return nil, ErrNotFound
	}
	return images, nil
}

func containerSize(container *goquery.Selection) (int, int, error) {
	width, err := dataInt(container, "data-width")
	if err != nil {
		return 0, 0, err
	}
	height, err := dataInt(container, "data-height")
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

// dataInt parses the leading decimal digits of an attribute and requires a
// positive value.
func dataInt(sel *goquery.Selection, attr string) (int, error) {
	raw, _ := sel.Attr(attr)
	raw = strings.TrimSpace(raw)

	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(raw[:end])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", attr, raw)
	}
	return n, nil
}
