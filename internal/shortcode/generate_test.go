package shortcode

import (
	"strings"
	"testing"
)

var sunset = Image{Src: "https://x/img", Label: "Sunset", Width: 4000, Height: 3000}

func defaultOptions() Options {
	return Options{
		UseThumb:   true,
		ThumbHDPI:  true,
		ThumbWidth: 1200,
		RowHeight:  240,
		UseCaption: true,
	}
}

func TestSourcePostfix(t *testing.T) {
	tests := []struct {
		width, height int
		want          string
	}{
		{4000, 3000, "w4000-h3000-no"},
		{1, 1, "w1-h1-no"},
		{640, 480, "w640-h480-no"},
	}

	for _, tt := range tests {
		got := SourcePostfix(tt.width, tt.height)
		if got != tt.want {
			t.Errorf("SourcePostfix(%d, %d) = %q, want %q", tt.width, tt.height, got, tt.want)
		}
		if strings.HasPrefix(got, "-") {
			t.Errorf("SourcePostfix(%d, %d) has a leading dash", tt.width, tt.height)
		}
	}
}

func TestThumbPostfix_HalfPixels(t *testing.T) {
	if got := ThumbPostfix(121.5, 360); got != "w121.5-h360-s" {
		t.Errorf("expected 'w121.5-h360-s', got '%s'", got)
	}
}

func TestGenerate_SingleScenario(t *testing.T) {
	opts := defaultOptions()
	opts.ThumbHDPI = false

	got := Generate(sunset, opts, Single)
	want := `{{<photo caption="Sunset" src="https://x/img=w4000-h3000-no" thumb="https://x/img=w1200-h900-s" width="1200" height="900" src-width="4000" src-height="3000" >}}`

	if got != want {
		t.Errorf("unexpected shortcode\n got: %s\nwant: %s", got, want)
	}
}

func TestGenerate_NoThumb(t *testing.T) {
	opts := defaultOptions()
	opts.UseThumb = false

	got := Generate(sunset, opts, Single)

	for _, attr := range []string{"thumb=", " width=", " height="} {
		if strings.Contains(got, attr) {
			t.Errorf("expected output to omit %q, got %s", attr, got)
		}
	}
	if !strings.Contains(got, `src-width="4000" src-height="3000"`) {
		t.Errorf("expected source dimensions in output, got %s", got)
	}
}

func TestGenerate_NoCaption(t *testing.T) {
	opts := defaultOptions()
	opts.UseCaption = false

	if got := Generate(sunset, opts, Single); strings.Contains(got, "caption=") {
		t.Errorf("expected no caption, got %s", got)
	}

	opts.UseCaption = true
	unlabeled := sunset
	unlabeled.Label = ""
	if got := Generate(unlabeled, opts, Single); strings.Contains(got, "caption=") {
		t.Errorf("expected no caption for empty label, got %s", got)
	}
}

func TestGenerate_GalleryRow(t *testing.T) {
	opts := defaultOptions()

	got := Generate(sunset, opts, GalleryRow)

	// 240 * 4/3 = 320, requested at 1.5 * 2 = 3x.
	if !strings.Contains(got, `thumb="https://x/img=w960-h720-s"`) {
		t.Errorf("expected 3x row thumbnail, got %s", got)
	}
	if !strings.Contains(got, `width="320" height="240"`) {
		t.Errorf("expected declared row size 320x240, got %s", got)
	}
}

func TestThumbnailSize_GalleryRowKeepsRowHeight(t *testing.T) {
	images := []Image{
		{Src: "a", Width: 4000, Height: 3000},
		{Src: "b", Width: 1000, Height: 3000},
		{Src: "c", Width: 6000, Height: 1000},
		{Src: "d", Width: 270, Height: 800},
	}
	for _, rowHeight := range []int{100, 240, 333} {
		opts := defaultOptions()
		opts.RowHeight = rowHeight
		for _, img := range images {
			th := ThumbnailSize(img, opts, GalleryRow)
			if th.Height != rowHeight {
				t.Errorf("image %s row %d: expected height %d, got %d", img.Src, rowHeight, rowHeight, th.Height)
			}
		}
	}
}

func TestThumbnailSize_GalleryRowWithoutRowHeightFallsBackToWidth(t *testing.T) {
	opts := defaultOptions()
	opts.RowHeight = 0
	opts.ThumbHDPI = false

	th := ThumbnailSize(sunset, opts, GalleryRow)

	if th.Width != 1200 || th.Height != 900 {
		t.Errorf("expected 1200x900, got %dx%d", th.Width, th.Height)
	}
	// Row overshoot still applies.
	if th.PixelWidth != 1800 || th.PixelHeight != 1350 {
		t.Errorf("expected 1800x1350 pixels, got %vx%v", th.PixelWidth, th.PixelHeight)
	}
}

func TestThumbnailSize_HalfPixelRow(t *testing.T) {
	opts := defaultOptions()
	opts.ThumbHDPI = false

	th := ThumbnailSize(Image{Src: "d", Width: 270, Height: 800}, opts, GalleryRow)

	if th.Width != 81 {
		t.Fatalf("expected width 81, got %d", th.Width)
	}
	if th.PixelWidth != 121.5 || th.PixelHeight != 360 {
		t.Errorf("expected 121.5x360 pixels, got %vx%v", th.PixelWidth, th.PixelHeight)
	}
}

func TestThumbnailSize_ClampToOriginal(t *testing.T) {
	small := Image{Src: "https://x/small", Width: 800, Height: 600}
	opts := defaultOptions()

	th := ThumbnailSize(small, opts, Single)

	if th.PixelWidth != 800 || th.PixelHeight != 600 {
		t.Errorf("expected clamp to 800x600, got %vx%v", th.PixelWidth, th.PixelHeight)
	}
	if th.Width != 1200 || th.Height != 900 {
		t.Errorf("expected declared size 1200x900, got %dx%d", th.Width, th.Height)
	}
}

func TestThumbnailSize_HDPIDoubles(t *testing.T) {
	images := []Image{
		sunset,
		{Src: "wide", Width: 8000, Height: 2000},
		{Src: "tall", Width: 3000, Height: 6000},
	}

	for _, layout := range []Layout{Single, GalleryRow} {
		for _, img := range images {
			opts := defaultOptions()
			opts.ThumbHDPI = false
			base := ThumbnailSize(img, opts, layout)
			opts.ThumbHDPI = true
			hdpi := ThumbnailSize(img, opts, layout)

			if 2*base.PixelWidth > float64(img.Width) {
				// Clamped; HDPI cannot exceed the source.
				if hdpi.PixelWidth != float64(img.Width) {
					t.Errorf("%s/%s: expected clamp to %d, got %v", img.Src, layout, img.Width, hdpi.PixelWidth)
				}
				continue
			}
			if hdpi.PixelWidth != 2*base.PixelWidth || hdpi.PixelHeight != 2*base.PixelHeight {
				t.Errorf("%s/%s: expected %vx%v doubled, got %vx%v",
					img.Src, layout, base.PixelWidth, base.PixelHeight, hdpi.PixelWidth, hdpi.PixelHeight)
			}
			if hdpi.Width != base.Width || hdpi.Height != base.Height {
				t.Errorf("%s/%s: HDPI changed the declared size", img.Src, layout)
			}
		}
	}
}

func TestGenerate_ZeroThumbWidthStillEmitsThumb(t *testing.T) {
	opts := defaultOptions()
	opts.ThumbWidth = 0

	got := Generate(sunset, opts, Single)

	if !strings.Contains(got, `thumb="https://x/img=w0-h0-s" width="0" height="0"`) {
		t.Errorf("expected zero-sized thumb attributes, got %s", got)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	opts := defaultOptions()
	for _, layout := range []Layout{Single, GalleryRow} {
		first := Generate(sunset, opts, layout)
		second := Generate(sunset, opts, layout)
		if first != second {
			t.Errorf("layout %s: outputs differ\n%s\n%s", layout, first, second)
		}
	}
}

func TestGenerate_MaxWidthHook(t *testing.T) {
	opts := defaultOptions()
	opts.MaxWidth = 2000

	got := Generate(sunset, opts, Single)
	if !strings.Contains(got, `src="https://x/img=w2000-h1500-s"`) {
		t.Errorf("expected downscaled source, got %s", got)
	}
	// Source dimensions stay the originals.
	if !strings.Contains(got, `src-width="4000" src-height="3000"`) {
		t.Errorf("expected original source dimensions, got %s", got)
	}

	opts.MaxWidth = 8000
	got = Generate(sunset, opts, Single)
	if !strings.Contains(got, `src="https://x/img=w4000-h3000-no"`) {
		t.Errorf("expected full-resolution source below max width, got %s", got)
	}
}

func TestGenerateAll(t *testing.T) {
	opts := defaultOptions()
	images := []Image{sunset, {Src: "https://x/other", Width: 1000, Height: 1000}}

	got := GenerateAll(images, opts, Single)
	parts := strings.Split(got, "\n\n")

	if len(parts) != 2 {
		t.Fatalf("expected 2 shortcodes, got %d", len(parts))
	}
	if parts[1] != Generate(images[1], opts, Single) {
		t.Errorf("unexpected second shortcode: %s", parts[1])
	}
}

func TestPhotoString_LocalFile(t *testing.T) {
	p := Photo{
		Caption:   "Lake",
		Src:       "photo/lake.jpg",
		Width:     1200,
		Height:    800,
		SrcWidth:  3000,
		SrcHeight: 2000,
	}

	want := `{{<photo caption="Lake" src="photo/lake.jpg" width="1200" height="800" src-width="3000" src-height="2000" >}}`
	if got := p.String(); got != want {
		t.Errorf("unexpected shortcode\n got: %s\nwant: %s", got, want)
	}
}

func TestParseLayout(t *testing.T) {
	if ParseLayout("gallery") != GalleryRow || ParseLayout("row") != GalleryRow {
		t.Error("expected gallery aliases to map to GalleryRow")
	}
	if ParseLayout("") != Single || ParseLayout("single") != Single {
		t.Error("expected Single by default")
	}
}
