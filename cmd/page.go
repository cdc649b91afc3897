package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kozaktomas/photo-shortcode/internal/scanner"
)

// loadPage reads an album page from a URL, a saved HTML file, or stdin ("-").
func loadPage(ctx context.Context, ref string) (*scanner.Scanner, error) {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		client := &http.Client{Timeout: 30 * time.Second}
		return scanner.Fetch(ctx, client, ref)
	case ref == "-":
		return scanner.NewFromReader(os.Stdin)
	default:
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("could not open page: %w", err)
		}
		defer f.Close()
		return scanner.NewFromReader(f)
	}
}
