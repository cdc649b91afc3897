package menu

import (
	"errors"
	"testing"

	"github.com/kozaktomas/photo-shortcode/internal/messaging"
)

func TestRegistered(t *testing.T) {
	reg := Registered()

	if len(reg) != 2 {
		t.Fatalf("expected 2 registered entries, got %d", len(reg))
	}
	if reg[0].Title != "Copy Photo Markdown" || reg[1].Title != "Copy Markdown for Gallery item" {
		t.Errorf("unexpected titles: %q, %q", reg[0].Title, reg[1].Title)
	}
	for _, it := range reg {
		if len(it.Contexts) != 1 || it.Contexts[0] != ContextImage {
			t.Errorf("%s: expected image context, got %v", it.ID, it.Contexts)
		}
	}
}

func TestAllImagesDefinedButNotRegistered(t *testing.T) {
	it, ok := Lookup(ActionAllImages)
	if !ok {
		t.Fatal("expected all-images to be defined")
	}
	if it.Registered {
		t.Error("expected all-images not to be registered")
	}
	if len(All()) != 3 {
		t.Errorf("expected 3 defined entries, got %d", len(All()))
	}
}

func TestHandleClick_Relays(t *testing.T) {
	bus := messaging.NewBus()
	ch, stop := bus.Listen(4)
	defer stop()

	bg := NewBackground(bus)
	info := messaging.MenuInfo{MenuItemID: ActionGalleryImage, SrcURL: "https://x/img=w10"}

	if err := bg.HandleClick(info, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := <-ch
	if msg.MenuInfo == nil || *msg.MenuInfo != info {
		t.Errorf("expected relayed menu info %+v, got %+v", info, msg.MenuInfo)
	}
}

func TestHandleClick_DeliveryFailure(t *testing.T) {
	bg := NewBackground(messaging.NewBus())

	err := bg.HandleClick(messaging.MenuInfo{MenuItemID: ActionSingleImage}, 9)
	if !errors.Is(err, messaging.ErrNoReceiver) {
		t.Errorf("expected ErrNoReceiver, got %v", err)
	}
}

func TestHandleClick_UnknownAction(t *testing.T) {
	bg := NewBackground(messaging.NewBus())

	if err := bg.HandleClick(messaging.MenuInfo{MenuItemID: "nope"}, 1); err == nil {
		t.Error("expected error for unknown action")
	}
}
