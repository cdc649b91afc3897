package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kozaktomas/photo-shortcode/internal/clipboard"
	"github.com/kozaktomas/photo-shortcode/internal/messaging"
	"github.com/kozaktomas/photo-shortcode/internal/notify"
	"github.com/kozaktomas/photo-shortcode/internal/page"
	"github.com/kozaktomas/photo-shortcode/internal/scanner"
)

// maxSnapshotSize bounds the HTML snapshot of a page.
const maxSnapshotSize = 32 << 20

// PageSession is the page context of one attached tab.
type PageSession struct {
	EventBroadcaster

	TabID      int       `json:"tab_id"`
	AttachedAt time.Time `json:"attached_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	page    *page.Page
	host    clipboard.Writer
	focused atomic.Bool
	stop    func()
	done    chan struct{}
	mu      sync.RWMutex
}

// WriteText implements clipboard.Writer. The text is pushed to the page and,
// when a host clipboard is configured, written there as well.
func (s *PageSession) WriteText(ctx context.Context, text string) error {
	if s.host != nil {
		if err := s.host.WriteText(ctx, text); err != nil {
			return err
		}
	}
	s.SendEvent(PageEvent{Type: EventClipboard, Data: map[string]string{"text": text}})
	return nil
}

// Notify implements notify.Notifier.
func (s *PageSession) Notify(t notify.Toast) {
	s.SendEvent(PageEvent{
		Type:    EventToast,
		Message: t.Message,
		Data:    ToastData{Warning: t.Warning, DurationMS: t.Duration().Milliseconds()},
	})
}

func (s *PageSession) status() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"tab_id":      s.TabID,
		"focused":     s.focused.Load(),
		"attached_at": s.AttachedAt,
		"updated_at":  s.UpdatedAt,
	}
}

// PageManager keeps the page contexts of attached tabs.
type PageManager struct {
	bus      *messaging.Bus
	settings page.SettingsLoader
	host     clipboard.Writer
	notifier notify.Notifier

	sessions map[int]*PageSession
	mu       sync.RWMutex
}

// NewPageManager creates a page manager. host and notifier mirror clipboard
// writes and toasts on the machine running the service; both may be nil.
func NewPageManager(bus *messaging.Bus, store page.SettingsLoader, host clipboard.Writer, notifier notify.Notifier) *PageManager {
	return &PageManager{
		bus:      bus,
		settings: store,
		host:     host,
		notifier: notifier,
		sessions: make(map[int]*PageSession),
	}
}

// Attach creates the page context of tabID or updates its document.
func (m *PageManager) Attach(tabID int, doc *scanner.Scanner, focused bool) *PageSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if s, ok := m.sessions[tabID]; ok {
		s.page.SetFinder(doc)
		s.focused.Store(focused)
		s.mu.Lock()
		s.UpdatedAt = now
		s.mu.Unlock()
		return s
	}

	s := &PageSession{
		TabID:      tabID,
		AttachedAt: now,
		UpdatedAt:  now,
		host:       m.host,
		done:       make(chan struct{}),
	}
	s.focused.Store(focused)

	var toasts notify.Notifier = s
	if m.notifier != nil {
		host := m.notifier
		toasts = notify.Func(func(t notify.Toast) {
			s.Notify(t)
			host.Notify(t)
		})
	}
	s.page = page.New(doc, m.settings, s, clipboard.FocusFunc(s.focused.Load), toasts)

	msgs, stop := m.bus.Listen(tabID)
	s.stop = stop
	go func() {
		defer close(s.done)
		s.page.Run(context.Background(), msgs)
	}()

	m.sessions[tabID] = s
	log.Printf("Page attached for tab %d", tabID)
	return s
}

// Detach removes the page context of tabID. It returns false when no page
// was attached.
func (m *PageManager) Detach(tabID int) bool {
	m.mu.Lock()
	s, ok := m.sessions[tabID]
	delete(m.sessions, tabID)
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.stop()
	<-s.done
	s.Close(PageEvent{Type: EventDetached})
	log.Printf("Page detached for tab %d", tabID)
	return true
}

// Get returns the page context of tabID or nil.
func (m *PageManager) Get(tabID int) *PageSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[tabID]
}

// CloseAll detaches every page.
func (m *PageManager) CloseAll() {
	m.mu.RLock()
	ids := make([]int, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.Detach(id)
	}
}

// PagesHandler handles page attachment endpoints
type PagesHandler struct {
	pages *PageManager
}

// NewPagesHandler creates a new pages handler
func NewPagesHandler(pm *PageManager) *PagesHandler {
	return &PagesHandler{pages: pm}
}

// Attach stores the HTML snapshot of a tab. The optional focused query
// parameter reports whether the page has focus (default true).
func (h *PagesHandler) Attach(w http.ResponseWriter, r *http.Request) {
	tabID, ok := tabIDParam(w, r)
	if !ok {
		return
	}

	doc, err := scanner.NewFromReader(io.LimitReader(r.Body, maxSnapshotSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid page snapshot")
		return
	}

	focused := r.URL.Query().Get("focused") != "false"
	s := h.pages.Attach(tabID, doc, focused)

	respondJSON(w, http.StatusOK, s.status())
}

// Detach removes the page context of a tab
func (h *PagesHandler) Detach(w http.ResponseWriter, r *http.Request) {
	tabID, ok := tabIDParam(w, r)
	if !ok {
		return
	}

	if !h.pages.Detach(tabID) {
		respondError(w, http.StatusNotFound, "page not attached")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Events streams toast and clipboard events of a tab via SSE
func (h *PagesHandler) Events(w http.ResponseWriter, r *http.Request) {
	lookup := func(tabID int) SSESource {
		if s := h.pages.Get(tabID); s != nil {
			return s
		}
		return nil
	}
	streamSSEEvents(w, r, lookup, func(src SSESource) any {
		return src.(*PageSession).status()
	})
}
