package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/kozaktomas/photo-shortcode/internal/constants"
	"github.com/kozaktomas/photo-shortcode/internal/shortcode"
)

const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// ErrInvalidToken is returned for album tokens that cannot be decoded.
var ErrInvalidToken = errors.New("invalid album token")

// flexInt decodes integers sent either as JSON numbers or as strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", b, err)
	}
	*f = flexInt(n)
	return nil
}

// Derivative is one stored size of a photo.
type Derivative struct {
	Checksum string  `json:"checksum"`
	FileSize flexInt `json:"fileSize"`
	Width    flexInt `json:"width"`
	Height   flexInt `json:"height"`
	URL      string  `json:"url,omitempty"`
}

// Asset is a photo of a shared album.
type Asset struct {
	PhotoGUID           string                `json:"photoGuid"`
	BatchGUID           string                `json:"batchGuid"`
	Derivatives         map[string]Derivative `json:"derivatives"`
	Caption             string                `json:"caption"`
	ContributorFullName string                `json:"contributorFullName"`
	DateCreated         string                `json:"dateCreated"`
	MediaAssetType      string                `json:"mediaAssetType,omitempty"`
	Width               flexInt               `json:"width"`
	Height              flexInt               `json:"height"`
}

// derivativeKeys returns the derivative keys in a stable order.
func (a Asset) derivativeKeys() []string {
	keys := make([]string, 0, len(a.Derivatives))
	for k := range a.Derivatives {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Original returns the derivative with the same height as the photo.
func (a Asset) Original() (Derivative, bool) {
	for _, k := range a.derivativeKeys() {
		if d := a.Derivatives[k]; d.Height == a.Height {
			return d, true
		}
	}
	return Derivative{}, false
}

// Smallest returns the lowest derivative.
func (a Asset) Smallest() (Derivative, bool) {
	var best Derivative
	found := false
	for _, k := range a.derivativeKeys() {
		d := a.Derivatives[k]
		if !found || d.Height < best.Height {
			best, found = d, true
		}
	}
	return best, found
}

// Metadata describes a shared album.
type Metadata struct {
	StreamName    string                     `json:"streamName"`
	UserFirstName string                     `json:"userFirstName"`
	UserLastName  string                     `json:"userLastName"`
	StreamCtag    string                     `json:"streamCtag"`
	ItemsReturned flexInt                    `json:"itemsReturned"`
	Locations     map[string]json.RawMessage `json:"locations"`
}

type webStreamResponse struct {
	Metadata
	Photos []Asset `json:"photos"`
}

type assetURLsResponse struct {
	Items map[string]struct {
		URLLocation string `json:"url_location"`
		URLPath     string `json:"url_path"`
	} `json:"items"`
}

// Album is a shared album with download URLs resolved.
type Album struct {
	Token    string
	Metadata Metadata
	Assets   []Asset
}

// AlbumToken extracts the token from a shared album link such as
// https://www.icloud.com/sharedalbum/#B0NJtdOXm9LvzZ. Bare tokens are
// returned as-is.
func AlbumToken(s string) string {
	if _, after, ok := strings.Cut(s, "#"); ok {
		return after
	}
	return s
}

func base62(s string) (int, error) {
	n := 0
	for _, c := range s {
		i := strings.IndexRune(base62Chars, c)
		if i < 0 {
			return 0, fmt.Errorf("%w: unexpected character %q", ErrInvalidToken, c)
		}
		n = n*62 + i
	}
	return n, nil
}

// PartitionBaseURL returns the shared streams endpoint serving token. The
// server partition is encoded in the first characters of the token.
func PartitionBaseURL(token string) (string, error) {
	if len(token) < 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}

	var partition int
	var err error
	if token[0] == 'A' {
		partition, err = base62(token[1:2])
	} else {
		partition, err = base62(token[1:3])
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("https://p%02d-sharedstreams.icloud.com/%s/sharedstreams/", partition, token), nil
}

// ICloudClient reads shared iCloud photo albums. No authentication is
// needed, only the album token.
type ICloudClient struct {
	httpClient *http.Client
	// BaseURL resolves the API root for a token. Defaults to PartitionBaseURL.
	BaseURL func(token string) (string, error)
	// ChunkSize is the number of photos per asset URL request.
	ChunkSize int
}

// NewICloudClient creates a client. A nil httpClient uses http.DefaultClient.
func NewICloudClient(httpClient *http.Client) *ICloudClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ICloudClient{
		httpClient: httpClient,
		BaseURL:    PartitionBaseURL,
		ChunkSize:  constants.ICloudURLChunkSize,
	}
}

// Album fetches the album stream and resolves download URLs for every
// derivative.
func (c *ICloudClient) Album(ctx context.Context, token string) (*Album, error) {
	baseURL, err := c.BaseURL(token)
	if err != nil {
		return nil, err
	}

	stream, err := doPostJSON[webStreamResponse](ctx, c.httpClient, baseURL+"webstream", map[string]any{"streamCtag": nil})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch album stream: %w", err)
	}

	guids := make([]string, len(stream.Photos))
	for i, p := range stream.Photos {
		guids[i] = p.PhotoGUID
	}

	urls := make(map[string]string)
	for chunk := range slices.Chunk(guids, max(c.ChunkSize, 1)) {
		resp, err := doPostJSON[assetURLsResponse](ctx, c.httpClient, baseURL+"webasseturls", map[string]any{"photoGuids": chunk})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch asset URLs for %s - %s: %w", chunk[0], chunk[len(chunk)-1], err)
		}
		for checksum, item := range resp.Items {
			urls[checksum] = "https://" + item.URLLocation + item.URLPath
		}
	}

	return &Album{
		Token:    token,
		Metadata: stream.Metadata,
		Assets:   enrichAssets(stream.Photos, urls),
	}, nil
}

// enrichAssets attaches URLs to derivatives and re-keys them by height.
// Derivatives without a URL are dropped; duplicate heights get a "-N" suffix.
func enrichAssets(assets []Asset, urls map[string]string) []Asset {
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		byHeight := make(map[string]Derivative)
		duplicates := make(map[string]int)

		for _, k := range a.derivativeKeys() {
			d := a.Derivatives[k]
			url, ok := urls[d.Checksum]
			if !ok {
				continue
			}

			key := strconv.Itoa(int(d.Height))
			if _, taken := byHeight[key]; taken {
				duplicates[key]++
				key = key + "-" + strconv.Itoa(duplicates[key])
			}

			d.URL = url
			byHeight[key] = d
		}

		a.Derivatives = byHeight
		out = append(out, a)
	}
	return out
}

// Photo is a downloadable album photo.
type Photo struct {
	Checksum    string
	URL         string
	Width       int
	Height      int
	ThumbURL    string
	ThumbWidth  int
	ThumbHeight int
	Author      string
	Caption     string
}

// PhotoFromAsset picks the original and the smallest derivative of a.
func PhotoFromAsset(a Asset) (Photo, error) {
	src, ok := a.Original()
	if !ok {
		return Photo{}, fmt.Errorf("photo %s has no original-size derivative", a.PhotoGUID)
	}
	thumb, _ := a.Smallest()

	return Photo{
		Checksum:    src.Checksum,
		URL:         src.URL,
		Width:       int(src.Width),
		Height:      int(src.Height),
		ThumbURL:    thumb.URL,
		ThumbWidth:  int(thumb.Width),
		ThumbHeight: int(thumb.Height),
		Author:      a.ContributorFullName,
		Caption:     a.Caption,
	}, nil
}

// fileNameFromURL returns the lower-cased last path segment without query.
func fileNameFromURL(u string) string {
	u, _, _ = strings.Cut(u, "?")
	return strings.ToLower(path.Base(u))
}

// DownloadPath is where p is stored: <dir>/<token>/<name>-<checksum><ext>.
func DownloadPath(p Photo, token, dir string) string {
	name := fileNameFromURL(p.URL)
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return path.Join(filepath.ToSlash(dir), token, base+"-"+p.Checksum+ext)
}

// ShortcodeSrc drops the first path segment, which is the site's asset
// folder, from a download path.
func ShortcodeSrc(downloadPath string) string {
	if _, rest, ok := strings.Cut(downloadPath, "/"); ok {
		return rest
	}
	return downloadPath
}

// ShortcodeFor builds the shortcode of a downloaded photo. A positive width
// scales the declared size; otherwise the original size is declared.
func ShortcodeFor(p Photo, token, dir string, width int) shortcode.Photo {
	declaredW, declaredH := p.Width, p.Height
	if width > 0 && p.Width > 0 && p.Height > 0 {
		ratio := float64(p.Width) / float64(p.Height)
		declaredW, declaredH = width, int(float64(width)/ratio)
	}

	return shortcode.Photo{
		Caption:   p.Caption,
		Src:       ShortcodeSrc(DownloadPath(p, token, dir)),
		Width:     declaredW,
		Height:    declaredH,
		SrcWidth:  p.Width,
		SrcHeight: p.Height,
		HasSize:   true,
	}
}

// ImportOptions controls Import.
type ImportOptions struct {
	Directory string
	// Width of the declared thumbnail size, 0 for the original size.
	Width int
	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
}

// Import downloads every photo of the album that is not on disk yet and
// returns the shortcodes in album order.
func (c *ICloudClient) Import(ctx context.Context, token string, opts ImportOptions) ([]shortcode.Photo, error) {
	album, err := c.Album(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(opts.Directory, token), 0o755); err != nil {
		return nil, fmt.Errorf("could not create directory: %w", err)
	}

	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}
	bar := progressbar.NewOptions(len(album.Assets),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Downloading photos"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("photos"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	photos := make([]shortcode.Photo, 0, len(album.Assets))
	for _, a := range album.Assets {
		p, err := PhotoFromAsset(a)
		if err != nil {
			return nil, err
		}

		dst := filepath.FromSlash(DownloadPath(p, token, opts.Directory))
		if _, err := os.Stat(dst); errors.Is(err, os.ErrNotExist) {
			if err := downloadFile(ctx, c.httpClient, p.URL, dst); err != nil {
				return nil, fmt.Errorf("failed to download %s: %w", p.URL, err)
			}
		}

		photos = append(photos, ShortcodeFor(p, token, opts.Directory, opts.Width))
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	return photos, nil
}
