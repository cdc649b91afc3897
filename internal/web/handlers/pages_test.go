package handlers

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/photo-shortcode/internal/menu"
	"github.com/kozaktomas/photo-shortcode/internal/scanner"
)

func attachRequest(tabID, query, html string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/pages/"+tabID+query, strings.NewReader(html))
	return requestWithChiParams(req, map[string]string{"tabId": tabID})
}

func TestPagesHandler_AttachAndDetach(t *testing.T) {
	pm, bus := testPageManager(t)
	h := NewPagesHandler(pm)

	recorder := httptest.NewRecorder()
	h.Attach(recorder, attachRequest("5", "", testAlbumHTML))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	var status map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if status["tab_id"] != float64(5) || status["focused"] != true {
		t.Errorf("unexpected status %+v", status)
	}
	if bus.Tabs() != 1 {
		t.Errorf("expected page to listen on the bus, got %d tabs", bus.Tabs())
	}

	// Re-attaching updates the same page context.
	first := pm.Get(5)
	h.Attach(httptest.NewRecorder(), attachRequest("5", "?focused=false", testAlbumHTML))
	if pm.Get(5) != first || first.focused.Load() {
		t.Error("expected re-attach to update the existing page")
	}

	recorder = httptest.NewRecorder()
	h.Detach(recorder, requestWithChiParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"tabId": "5"}))
	if recorder.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", recorder.Code)
	}
	if bus.Tabs() != 0 {
		t.Errorf("expected no listeners after detach, got %d", bus.Tabs())
	}

	recorder = httptest.NewRecorder()
	h.Detach(recorder, requestWithChiParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"tabId": "5"}))
	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown page, got %d", recorder.Code)
	}
}

func TestPagesHandler_EventsNotAttached(t *testing.T) {
	pm, _ := testPageManager(t)
	recorder := httptest.NewRecorder()

	NewPagesHandler(pm).Events(recorder, requestWithChiParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"tabId": "9"}))

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", recorder.Code)
	}
}

// readEvent returns the next SSE event type and data.
func readEvent(t *testing.T, sc *bufio.Scanner) (string, string) {
	t.Helper()
	var typ, data string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			typ = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && typ != "":
			return typ, data
		}
	}
	t.Fatalf("event stream ended: %v", sc.Err())
	return "", ""
}

func TestPagesHandler_ClickFlowStreamsEvents(t *testing.T) {
	pm, bus := testPageManager(t)
	pages := NewPagesHandler(pm)
	menuHandler := NewMenuHandler(menu.NewBackground(bus))

	r := chi.NewRouter()
	r.Put("/pages/{tabId}", pages.Attach)
	r.Get("/pages/{tabId}/events", pages.Events)
	r.Post("/menu/click", menuHandler.Click)
	srv := httptest.NewServer(r)
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/pages/1", strings.NewReader(testAlbumHTML))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	resp.Body.Close()

	// The client timeout bounds the whole stream read.
	client := &http.Client{Timeout: 5 * time.Second}
	stream, err := client.Get(srv.URL + "/pages/1/events")
	if err != nil {
		t.Fatalf("events failed: %v", err)
	}
	defer stream.Body.Close()
	if ct := stream.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event stream, got %q", ct)
	}

	sc := bufio.NewScanner(stream.Body)
	if typ, _ := readEvent(t, sc); typ != EventAttached {
		t.Fatalf("expected attached event first, got %q", typ)
	}

	click, err := http.Post(srv.URL+"/menu/click", "application/json",
		strings.NewReader(`{"tabId":1,"menuItemId":"single-image","srcUrl":"https://lh3.googleusercontent.com/img=w10"}`))
	if err != nil {
		t.Fatalf("click failed: %v", err)
	}
	click.Body.Close()
	if click.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", click.StatusCode)
	}

	var clipboardData, toastData string
	for clipboardData == "" || toastData == "" {
		typ, data := readEvent(t, sc)
		switch typ {
		case EventClipboard:
			clipboardData = data
		case EventToast:
			toastData = data
		}
	}

	var ev PageEvent
	if err := json.Unmarshal([]byte(clipboardData), &ev); err != nil {
		t.Fatalf("failed to decode clipboard event: %v", err)
	}
	text, _ := ev.Data.(map[string]any)["text"].(string)
	if !strings.Contains(text, `caption="Sunset"`) {
		t.Errorf("unexpected clipboard text %q", text)
	}
	if !strings.Contains(toastData, "Markdown copied to clipboard!") {
		t.Errorf("unexpected toast %s", toastData)
	}
}

func TestPageManager_DetachClosesStreams(t *testing.T) {
	pm, _ := testPageManager(t)
	doc, err := scanner.NewFromReader(strings.NewReader(testAlbumHTML))
	if err != nil {
		t.Fatalf("failed to parse page: %v", err)
	}
	s := pm.Attach(2, doc, true)
	ch := s.AddListener()

	pm.Detach(2)

	var last PageEvent
	for ev := range ch {
		last = ev
	}
	if last.Type != EventDetached {
		t.Errorf("expected detached event before close, got %+v", last)
	}

	if pm.Get(2) != nil {
		t.Error("expected page to be removed")
	}
}
