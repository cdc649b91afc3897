package gallery

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func TestReplaceDimensions(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		width int
		want  string
	}{
		{"landscape", "https://x/img=w400-h300-s", 800, "https://x/img=w800-h600-s"},
		{"rounding", "https://x/img=w300-h200", 1001, "https://x/img=w1001-h667"},
		{"first match only", "https://x/=w4-h2/img=w4-h2", 8, "https://x/=w8-h4/img=w4-h2"},
		{"no pattern", "https://x/img=s0", 800, "https://x/img=s0"},
		{"zero height", "https://x/img=w400-h0", 800, "https://x/img=w400-h0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplaceDimensions(tt.url, tt.width); got != tt.want {
				t.Errorf("ReplaceDimensions(%q, %d) = %q, want %q", tt.url, tt.width, got, tt.want)
			}
		})
	}
}

func TestAdjustLinks_StickyDoubling(t *testing.T) {
	links := []Link{
		{Href: "https://x/a=w100-h100"},
		{Href: "https://x/b=w100-h100", DataWidth: 4000},
		{Href: "https://x/c=w100-h100", DataWidth: 500},
	}

	got := AdjustLinks(links, 1000)

	want := []string{
		"https://x/a=w1000-h1000",
		"https://x/b=w2000-h2000",
		"https://x/c=w2000-h2000",
	}
	for i, w := range want {
		if got[i].Href != w {
			t.Errorf("link %d: got %q, want %q", i, got[i].Href, w)
		}
	}
	if links[0].Href != "https://x/a=w100-h100" {
		t.Error("expected input to be left untouched")
	}
}

func TestAdjustImages(t *testing.T) {
	got := AdjustImages([]Image{
		{Src: "https://x/a=w400-h200", NaturalWidth: 400, NaturalHeight: 200, Width: 10, Height: 5},
		{Src: "https://x/b", Height: 7},
	}, 600)

	if got[0].Src != "https://x/a=w600-h300" || got[0].Width != 600 || got[0].Height != 300 {
		t.Errorf("unexpected first image %+v", got[0])
	}
	if got[1].Src != "https://x/b" || got[1].Width != 600 || got[1].Height != 7 {
		t.Errorf("unexpected second image %+v", got[1])
	}
}

func TestOrder(t *testing.T) {
	got := Order([]Element{
		{ID: "far", Top: 900, DataSrc: "a"},
		{ID: "above", Top: -50, DataSrc: "b"},
		{ID: "skip", Top: 0},
		{ID: "near", Top: 10, DataSrc: "c"},
	})

	var ids []string
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	if strings.Join(ids, ",") != "near,above,far" {
		t.Errorf("unexpected order %v", ids)
	}
}

func TestLoaderRun(t *testing.T) {
	l := &Loader{Interval: time.Millisecond}
	var revealed []string

	err := l.Run(context.Background(), []Element{
		{ID: "b", Top: 20, DataSrc: "b"},
		{ID: "a", Top: 0, DataSrc: "a"},
	}, func(e Element) { revealed = append(revealed, e.ID) })

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(revealed, ",") != "a,b" {
		t.Errorf("unexpected reveal order %v", revealed)
	}
}

func TestLoaderRun_Cancelled(t *testing.T) {
	l := &Loader{Interval: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	count := 0

	err := l.Run(ctx, []Element{
		{ID: "a", DataSrc: "a"},
		{ID: "b", DataSrc: "b"},
	}, func(Element) {
		count++
		cancel()
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if count != 1 {
		t.Errorf("expected only the first element to be revealed, got %d", count)
	}
}

func TestLoaderRun_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	count := 0

	err := (&Loader{}).Run(ctx, []Element{{ID: "a", DataSrc: "a"}}, func(Element) { count++ })

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if count != 0 {
		t.Errorf("expected nothing revealed, got %d", count)
	}
}

func TestDebouncer(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	done := make(chan struct{}, 10)

	d := NewDebouncer(20*time.Millisecond, func() {
		mu.Lock()
		calls++
		mu.Unlock()
		done <- struct{}{}
	})
	defer d.Stop()

	for range 5 {
		d.Trigger()
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced function was not called")
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	called := make(chan struct{}, 1)
	d := NewDebouncer(10*time.Millisecond, func() { called <- struct{}{} })

	d.Trigger()
	d.Stop()

	select {
	case <-called:
		t.Error("expected no call after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

const pageHTML = `<html><body>
<div class="gallery">
  <a href="https://lh3.googleusercontent.com/a=w2000-h1000" style="color: red; --width: 1"><img width="320" height="160" data-src="https://lh3.googleusercontent.com/a=w640-h320-s"></a>
</div>
<a class="photo" href="https://x/p=w100-h50" data-width="3000">p</a>
<img data-src="https://elsewhere/x.jpg">
</body></html>`

func TestRewriteHTML(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	res := RewriteHTML(doc, RewriteOptions{ViewportWidth: 1000, LoadDeferred: true})

	if res.Containers != 1 || res.Links != 1 || res.Loaded != 1 {
		t.Errorf("unexpected result %+v", res)
	}

	style, _ := doc.Find(".gallery a").Attr("style")
	if style != "color: red; --width: 320; --height: 160" {
		t.Errorf("unexpected style %q", style)
	}

	src, _ := doc.Find(".gallery img").Attr("src")
	if src != "https://lh3.googleusercontent.com/a=w640-h320-s" {
		t.Errorf("expected deferred image to load, got %q", src)
	}
	if _, ok := doc.Find(`img[data-src^="https://elsewhere"]`).Attr("src"); ok {
		t.Error("expected foreign image to stay deferred")
	}

	href, _ := doc.Find("a.photo").Attr("href")
	if href != "https://x/p=w2000-h1000" {
		t.Errorf("unexpected link %q", href)
	}
}

func TestRewriteHTML_Images(t *testing.T) {
	const html = `<html><body>
<img class="inline" src="https://x/a=w400-h300" width="400" height="300">
<img class="inline" src="https://x/plain.jpg" width="200" height="100">
<img class="other" src="https://x/b=w400-h300">
</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	res := RewriteHTML(doc, RewriteOptions{ViewportWidth: 800, ImageClass: "inline"})

	if res.Images != 2 {
		t.Errorf("expected 2 images, got %+v", res)
	}

	first := doc.Find("img.inline").First()
	if src, _ := first.Attr("src"); src != "https://x/a=w800-h600" {
		t.Errorf("unexpected src %q", src)
	}
	if w, _ := first.Attr("width"); w != "800" {
		t.Errorf("unexpected width %q", w)
	}
	if h, _ := first.Attr("height"); h != "600" {
		t.Errorf("unexpected height %q", h)
	}

	second := doc.Find("img.inline").Last()
	if src, _ := second.Attr("src"); src != "https://x/plain.jpg" {
		t.Errorf("expected src without dimensions to stay, got %q", src)
	}
	if h, _ := second.Attr("height"); h != "400" {
		t.Errorf("expected height from attributes, got %q", h)
	}

	if src, _ := doc.Find("img.other").Attr("src"); src != "https://x/b=w400-h300" {
		t.Errorf("expected other class untouched, got %q", src)
	}
}

func TestSetStyleProperty(t *testing.T) {
	if got := setStyleProperty("", "--width", "5"); got != "--width: 5" {
		t.Errorf("unexpected style %q", got)
	}
}
