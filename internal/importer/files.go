// Package importer produces shortcodes for photos that do not live in a
// web album: image files on disk and iCloud shared albums.
package importer

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	// Registered decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kozaktomas/photo-shortcode/internal/shortcode"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// FileOptions controls ScanDirectory.
type FileOptions struct {
	// Width requests width-priority thumbnails (standalone photos).
	Width int
	// Height requests height-priority thumbnails (gallery tiles). It takes
	// precedence over Width.
	Height int
	// Prefix is prepended to the file name in src, e.g. "photo/trip".
	Prefix string
}

// IsImageFile reports whether name has a supported image extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// ImageSize reads the pixel dimensions of an image file without decoding it.
func ImageSize(p string) (int, int, error) {
	f, err := os.Open(p)
	if err != nil {
		return 0, 0, fmt.Errorf("could not open %s: %w", p, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("could not read dimensions of %s: %w", p, err)
	}
	return cfg.Width, cfg.Height, nil
}

// ScanDirectory returns a shortcode for every image file directly inside dir,
// in file name order. A missing directory yields no photos.
func ScanDirectory(dir string, opts FileOptions) ([]shortcode.Photo, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read directory: %w", err)
	}

	var photos []shortcode.Photo
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}

		width, height, err := ImageSize(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		src := entry.Name()
		if opts.Prefix != "" {
			src = path.Join(opts.Prefix, src)
		}
		photos = append(photos, filePhoto(src, width, height, opts))
	}
	return photos, nil
}

func filePhoto(src string, width, height int, opts FileOptions) shortcode.Photo {
	p := shortcode.Photo{
		Src:       src,
		Width:     width,
		Height:    height,
		SrcWidth:  width,
		SrcHeight: height,
		HasSize:   true,
	}

	img := shortcode.Image{Src: src, Width: width, Height: height}
	switch {
	case opts.Height > 0:
		t := shortcode.ThumbnailSize(img, shortcode.Options{RowHeight: opts.Height}, shortcode.GalleryRow)
		p.Width, p.Height = t.Width, t.Height
	case opts.Width > 0:
		t := shortcode.ThumbnailSize(img, shortcode.Options{ThumbWidth: opts.Width}, shortcode.Single)
		p.Width, p.Height = t.Width, t.Height
	}
	return p
}
