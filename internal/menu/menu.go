// Package menu defines the context-menu entries and relays clicks from the
// background context to the page that was clicked.
package menu

import (
	"fmt"

	"github.com/kozaktomas/photo-shortcode/internal/messaging"
)

// Action identifiers.
const (
	ActionSingleImage  = "single-image"
	ActionGalleryImage = "single-image-gal"
	// ActionAllImages is defined but not registered as a menu entry.
	ActionAllImages = "all-images"
)

// ContextImage scopes an entry to right-clicks on images.
const ContextImage = "image"

// Item is a context-menu entry.
type Item struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Contexts   []string `json:"contexts"`
	Registered bool     `json:"registered"`
}

var items = []Item{
	{ID: ActionSingleImage, Title: "Copy Photo Markdown", Contexts: []string{ContextImage}, Registered: true},
	{ID: ActionGalleryImage, Title: "Copy Markdown for Gallery item", Contexts: []string{ContextImage}, Registered: true},
	{ID: ActionAllImages, Title: "Copy Markdown for all available images", Contexts: []string{ContextImage}},
}

// All returns every defined entry, registered or not.
func All() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Registered returns the entries shown to the user.
func Registered() []Item {
	var out []Item
	for _, it := range items {
		if it.Registered {
			out = append(out, it)
		}
	}
	return out
}

// Lookup returns the entry with id.
func Lookup(id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Sender delivers one-shot messages to a tab.
type Sender interface {
	Send(tabID int, msg messaging.Message) error
}

// Background is the host-side half of the router. It holds no state.
type Background struct {
	sender Sender
}

// NewBackground creates a background router on top of sender.
func NewBackground(sender Sender) *Background {
	return &Background{sender: sender}
}

// HandleClick relays a menu click to the page in tabID. Unknown action IDs
// are rejected; delivery failures are returned as-is.
func (b *Background) HandleClick(info messaging.MenuInfo, tabID int) error {
	if _, ok := Lookup(info.MenuItemID); !ok {
		return fmt.Errorf("unknown menu item %q", info.MenuItemID)
	}
	if err := b.sender.Send(tabID, messaging.NewMessage(info)); err != nil {
		return fmt.Errorf("relaying %s to tab %d: %w", info.MenuItemID, tabID, err)
	}
	return nil
}
