package handlers

import (
	"sync"

	"github.com/kozaktomas/photo-shortcode/internal/constants"
)

// Page event types.
const (
	EventToast     = "toast"
	EventClipboard = "clipboard"
	EventAttached  = "attached"
	EventDetached  = "detached"
)

// PageEvent represents an event pushed to the page of a tab.
type PageEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ToastData is the payload of a toast event.
type ToastData struct {
	Warning    bool  `json:"warning"`
	DurationMS int64 `json:"duration_ms"`
}

// EventBroadcaster provides listener management and event broadcasting.
// Embed this in structs to get AddListener, RemoveListener, and SendEvent methods.
type EventBroadcaster struct {
	listeners []chan PageEvent
	closed    bool
	mu        sync.RWMutex
}

// AddListener adds an event listener. Listeners added after Close get an
// already closed channel.
func (b *EventBroadcaster) AddListener() chan PageEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan PageEvent, constants.EventChannelBuffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes an event listener.
func (b *EventBroadcaster) RemoveListener(ch chan PageEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// SendEvent sends an event to all listeners.
func (b *EventBroadcaster) SendEvent(event PageEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// Close sends a final event and closes every listener.
func (b *EventBroadcaster) Close(final PageEvent) {
	b.SendEvent(final)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, listener := range b.listeners {
		close(listener)
	}
	b.listeners = nil
}
