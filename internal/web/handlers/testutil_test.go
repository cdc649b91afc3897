package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/photo-shortcode/internal/messaging"
	"github.com/kozaktomas/photo-shortcode/internal/settings"
)

const testAlbumHTML = `<html><body>
<c-wiz data-media-key="k1" data-width="4000" data-height="3000">
  <div><img src="https://lh3.googleusercontent.com/img=w400-h300" aria-label="Sunset"></div>
</c-wiz>
</body></html>`

// testStore creates a settings store backed by memory
func testStore(values map[string]string) (*settings.Store, *settings.MemoryKV) {
	kv := settings.NewMemoryKV(values)
	return settings.NewStore(kv), kv
}

// testPageManager creates a page manager without host clipboard or notifier
func testPageManager(t *testing.T) (*PageManager, *messaging.Bus) {
	t.Helper()
	bus := messaging.NewBus()
	store, _ := testStore(nil)
	pm := NewPageManager(bus, store, nil, nil)
	t.Cleanup(pm.CloseAll)
	return pm, bus
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonBody wraps a JSON literal as a request body
func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}
