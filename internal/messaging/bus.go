// Package messaging delivers one-shot messages from the background context
// to page contexts identified by tab.
package messaging

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/kozaktomas/photo-shortcode/internal/constants"
)

// ErrNoReceiver is returned when no page context listens on the tab or its
// inbox is full.
var ErrNoReceiver = errors.New("could not establish connection: receiving end does not exist")

// MenuInfo is the context-menu event relayed to the page.
type MenuInfo struct {
	MenuItemID string `json:"menuItemId"`
	SrcURL     string `json:"srcUrl"`
}

// Message is a single delivery. Senders do not wait for a reply.
type Message struct {
	ID       string    `json:"id"`
	MenuInfo *MenuInfo `json:"menuInfo,omitempty"`
}

// NewMessage creates a message with a fresh ID.
func NewMessage(info MenuInfo) Message {
	return Message{ID: uuid.NewString(), MenuInfo: &info}
}

// Bus routes messages to at most one listener per tab.
type Bus struct {
	mu        sync.RWMutex
	listeners map[int]chan Message
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[int]chan Message)}
}

// Listen registers the page context of tabID, replacing any previous one.
// The returned function unregisters it and closes the channel.
func (b *Bus) Listen(tabID int) (<-chan Message, func()) {
	ch := make(chan Message, constants.EventChannelBuffer)

	b.mu.Lock()
	if old, ok := b.listeners[tabID]; ok {
		close(old)
	}
	b.listeners[tabID] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if cur, ok := b.listeners[tabID]; ok && cur == ch {
				delete(b.listeners, tabID)
				close(ch)
			}
		})
	}
}

// Send delivers msg without blocking. The only feedback is ErrNoReceiver.
func (b *Bus) Send(tabID int, msg Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.listeners[tabID]
	if !ok {
		return ErrNoReceiver
	}
	select {
	case ch <- msg:
		return nil
	default:
		return ErrNoReceiver
	}
}

// Tabs returns the number of registered page contexts.
func (b *Bus) Tabs() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
