package importer

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

func writePNG(t *testing.T, p string, w, h int) {
	t.Helper()
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("failed to create %s: %v", p, err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode %s: %v", p, err)
	}
}

func writeBMP(t *testing.T, p string, w, h int) {
	t.Helper()
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("failed to create %s: %v", p, err)
	}
	defer f.Close()
	if err := bmp.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode %s: %v", p, err)
	}
}

func TestIsImageFile(t *testing.T) {
	tests := map[string]bool{
		"a.jpg":    true,
		"b.JPEG":   true,
		"c.webp":   true,
		"d.tiff":   true,
		"e.txt":    false,
		"jpg":      false,
		"f.jpg.md": false,
	}
	for name, want := range tests {
		if got := IsImageFile(name); got != want {
			t.Errorf("IsImageFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 400, 200)
	writeBMP(t, filepath.Join(dir, "a.bmp"), 300, 300)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	photos, err := ScanDirectory(dir, FileOptions{Prefix: "photo/trip"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(photos))
	}
	if photos[0].Src != "photo/trip/a.bmp" || photos[0].Width != 300 || photos[0].SrcHeight != 300 {
		t.Errorf("unexpected first photo %+v", photos[0])
	}
	want := `{{<photo src="photo/trip/b.png" width="400" height="200" src-width="400" src-height="200" >}}`
	if got := photos[1].String(); got != want {
		t.Errorf("unexpected shortcode\n got: %s\nwant: %s", got, want)
	}
}

func TestScanDirectory_Sizing(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "wide.png"), 400, 200)

	tests := []struct {
		name       string
		opts       FileOptions
		wantWidth  int
		wantHeight int
	}{
		{"width priority", FileOptions{Width: 100}, 100, 50},
		{"height priority", FileOptions{Height: 60}, 120, 60},
		{"height wins", FileOptions{Width: 100, Height: 60}, 120, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			photos, err := ScanDirectory(dir, tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			p := photos[0]
			if p.Width != tt.wantWidth || p.Height != tt.wantHeight {
				t.Errorf("got %dx%d, want %dx%d", p.Width, p.Height, tt.wantWidth, tt.wantHeight)
			}
			if p.SrcWidth != 400 || p.SrcHeight != 200 {
				t.Errorf("expected source size 400x200, got %dx%d", p.SrcWidth, p.SrcHeight)
			}
		})
	}
}

func TestScanDirectory_Missing(t *testing.T) {
	photos, err := ScanDirectory(filepath.Join(t.TempDir(), "nope"), FileOptions{})
	if err != nil || len(photos) != 0 {
		t.Errorf("expected no photos and no error, got %v, %v", photos, err)
	}
}

func TestScanDirectory_Corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ScanDirectory(dir, FileOptions{})
	if err == nil || !strings.Contains(err.Error(), "broken.jpg") {
		t.Errorf("expected error naming the file, got %v", err)
	}
}
