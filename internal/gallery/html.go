package gallery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultDeferredPrefix selects the deferred images that are loaded
// progressively.
const DefaultDeferredPrefix = "https://lh3.googleusercontent.com"

// RewriteOptions controls RewriteHTML.
type RewriteOptions struct {
	// ViewportWidth is the width links are sized for. Zero leaves links alone.
	ViewportWidth int
	// LoadDeferred copies data-src into src for deferred images.
	LoadDeferred bool
	// DeferredPrefix overrides DefaultDeferredPrefix.
	DeferredPrefix string
	// ImageClass selects "img.<class>" elements that are resized to the
	// viewport width. Empty leaves inline images alone.
	ImageClass string
}

// RewriteResult counts the changes made by RewriteHTML.
type RewriteResult struct {
	Containers int
	Links      int
	Images     int
	Loaded     int
}

// RewriteHTML applies the gallery adjustments to a saved page: it sizes
// every gallery anchor from its image, optionally resolves deferred images,
// and resizes "a.photo" links to the viewport.
func RewriteHTML(doc *goquery.Document, opts RewriteOptions) RewriteResult {
	var res RewriteResult

	doc.Find(".gallery a img").Each(func(_ int, img *goquery.Selection) {
		width, _ := img.Attr("width")
		height, _ := img.Attr("height")
		parent := img.Parent()
		style, _ := parent.Attr("style")
		style = setStyleProperty(style, "--width", width)
		style = setStyleProperty(style, "--height", height)
		parent.SetAttr("style", style)
		res.Containers++
	})

	if opts.LoadDeferred {
		prefix := opts.DeferredPrefix
		if prefix == "" {
			prefix = DefaultDeferredPrefix
		}
		doc.Find("img[data-src]").Each(func(_ int, img *goquery.Selection) {
			src, _ := img.Attr("data-src")
			if strings.HasPrefix(src, prefix) {
				img.SetAttr("src", src)
				res.Loaded++
			}
		})
	}

	if opts.ViewportWidth > 0 {
		anchors := doc.Find("a.photo")
		links := make([]Link, 0, anchors.Length())
		anchors.Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			dw, _ := strconv.Atoi(a.AttrOr("data-width", ""))
			links = append(links, Link{Href: href, DataWidth: dw})
		})

		adjusted := AdjustLinks(links, opts.ViewportWidth)
		anchors.Each(func(i int, a *goquery.Selection) {
			if adjusted[i].Href != links[i].Href {
				a.SetAttr("href", adjusted[i].Href)
				res.Links++
			}
		})
	}

	if opts.ViewportWidth > 0 && opts.ImageClass != "" {
		res.Images = rewriteImages(doc.Find("img."+opts.ImageClass), opts.ViewportWidth)
	}

	return res
}

// rewriteImages resizes the selected images. A saved page has no rendered
// natural size, so it is taken from the "=w{W}-h{H}" of the src, falling back
// to the width and height attributes.
func rewriteImages(sel *goquery.Selection, viewportWidth int) int {
	imgs := make([]Image, 0, sel.Length())
	sel.Each(func(_ int, img *goquery.Selection) {
		src := img.AttrOr("src", "")
		nw, nh := urlDimensions(src)
		if nw == 0 || nh == 0 {
			nw, _ = strconv.Atoi(img.AttrOr("width", ""))
			nh, _ = strconv.Atoi(img.AttrOr("height", ""))
		}
		h, _ := strconv.Atoi(img.AttrOr("height", ""))
		imgs = append(imgs, Image{Src: src, NaturalWidth: nw, NaturalHeight: nh, Height: h})
	})

	adjusted := AdjustImages(imgs, viewportWidth)
	sel.Each(func(i int, img *goquery.Selection) {
		img.SetAttr("src", adjusted[i].Src)
		img.SetAttr("width", strconv.Itoa(adjusted[i].Width))
		if adjusted[i].Height > 0 {
			img.SetAttr("height", strconv.Itoa(adjusted[i].Height))
		}
	})
	return len(adjusted)
}

// setStyleProperty sets a single declaration in an inline style attribute,
// replacing an existing declaration of the same property.
func setStyleProperty(style, name, value string) string {
	var decls []string
	for decl := range strings.SplitSeq(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		prop, _, _ := strings.Cut(decl, ":")
		if strings.TrimSpace(prop) == name {
			continue
		}
		decls = append(decls, decl)
	}
	decls = append(decls, name+": "+value)
	return strings.Join(decls, "; ")
}
