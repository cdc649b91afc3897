// Package page is the page-side half of the router: it resolves a menu
// event against the current document, generates the shortcode and copies it.
package page

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/kozaktomas/photo-shortcode/internal/clipboard"
	"github.com/kozaktomas/photo-shortcode/internal/menu"
	"github.com/kozaktomas/photo-shortcode/internal/messaging"
	"github.com/kozaktomas/photo-shortcode/internal/notify"
	"github.com/kozaktomas/photo-shortcode/internal/scanner"
	"github.com/kozaktomas/photo-shortcode/internal/settings"
	"github.com/kozaktomas/photo-shortcode/internal/shortcode"
)

// Finder looks images up in a document.
type Finder interface {
	FindBySrc(srcURL string) (shortcode.Image, error)
	FindAll() ([]shortcode.Image, error)
}

// SettingsLoader reads the current settings.
type SettingsLoader interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// Page holds everything a copy flow needs.
type Page struct {
	settings  SettingsLoader
	clipboard clipboard.Writer
	focus     clipboard.FocusChecker
	notifier  notify.Notifier

	mu     sync.RWMutex
	finder Finder
}

// New creates a page context. focus may be nil when focus is not observable.
func New(finder Finder, store SettingsLoader, cb clipboard.Writer, focus clipboard.FocusChecker, n notify.Notifier) *Page {
	if n == nil {
		n = notify.Discard
	}
	return &Page{
		finder:    finder,
		settings:  store,
		clipboard: cb,
		focus:     focus,
		notifier:  n,
	}
}

// SetFinder swaps the document, e.g. after the page re-rendered.
func (p *Page) SetFinder(f Finder) {
	p.mu.Lock()
	p.finder = f
	p.mu.Unlock()
}

func (p *Page) currentFinder() Finder {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.finder
}

// Run handles messages until ctx is done or msgs is closed. Each message is
// handled to completion before the next one.
func (p *Page) Run(ctx context.Context, msgs <-chan messaging.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if msg.MenuInfo != nil {
				p.Dispatch(ctx, *msg.MenuInfo)
			}
		}
	}
}

// Dispatch routes a menu event to its copy flow. Unknown actions are ignored.
func (p *Page) Dispatch(ctx context.Context, info messaging.MenuInfo) {
	switch info.MenuItemID {
	case menu.ActionAllImages:
		_, _ = p.CopyAll(ctx)
	case menu.ActionSingleImage:
		_, _ = p.CopyImage(ctx, info.SrcURL, shortcode.Single)
	case menu.ActionGalleryImage:
		_, _ = p.CopyImage(ctx, info.SrcURL, shortcode.GalleryRow)
	default:
		log.Printf("page: ignoring unknown menu item %q", info.MenuItemID)
	}
}

// CopyImage copies the shortcode of the image behind srcURL. The outcome is
// always reported as a toast; the returned values are for callers that also
// want to print the result.
func (p *Page) CopyImage(ctx context.Context, srcURL string, layout shortcode.Layout) (string, error) {
	s, err := p.settings.Load(ctx)
	if err != nil {
		return "", p.fail(fmt.Errorf("loading settings: %w", err))
	}

	finder := p.currentFinder()
	if finder == nil {
		return "", p.fail(scanner.ErrNotFound)
	}
	img, err := finder.FindBySrc(srcURL)
	if err != nil {
		return "", p.fail(err)
	}

	text := shortcode.Generate(img, s.Options(), layout)
	return text, p.copy(ctx, text)
}

// CopyAll copies the shortcodes of every image on the page, separated by
// blank lines.
func (p *Page) CopyAll(ctx context.Context) (string, error) {
	s, err := p.settings.Load(ctx)
	if err != nil {
		return "", p.fail(fmt.Errorf("loading settings: %w", err))
	}

	finder := p.currentFinder()
	if finder == nil {
		return "", p.failAll(scanner.ErrNotFound)
	}
	images, err := finder.FindAll()
	if err != nil {
		return "", p.failAll(err)
	}

	text := shortcode.GenerateAll(images, s.Options(), shortcode.Single)
	return text, p.copy(ctx, text)
}

func (p *Page) copy(ctx context.Context, text string) error {
	if err := clipboard.Copy(ctx, p.clipboard, p.focus, text); err != nil {
		return p.fail(err)
	}
	p.notifier.Notify(notify.Info(notify.MsgCopied))
	return nil
}

func (p *Page) fail(err error) error {
	p.notifier.Notify(ToastFor(err))
	return err
}

func (p *Page) failAll(err error) error {
	if errors.Is(err, scanner.ErrNotFound) {
		p.notifier.Notify(notify.Warn(notify.MsgNoImages))
		return err
	}
	return p.fail(err)
}

// ToastFor maps a flow error to the warning shown to the user.
func ToastFor(err error) notify.Toast {
	switch {
	case errors.Is(err, scanner.ErrNotFound):
		return notify.Warn(notify.MsgImageNotFound)
	case errors.Is(err, clipboard.ErrUnfocused):
		return notify.Warn(notify.MsgUnfocused)
	case errors.Is(err, clipboard.ErrClipboard):
		return notify.Warn("Failed to copy to clipboard: %v 👉 Click on the page and try again.", causeOf(err, clipboard.ErrClipboard))
	case errors.Is(err, settings.ErrStorage):
		return notify.Warn("Failed to get options: %v", causeOf(err, settings.ErrStorage))
	default:
		return notify.Warn("Error: %v", err)
	}
}

// causeOf returns the error joined with sentinel by fmt.Errorf("%w: %w"),
// dropping the wrapping context around both. err is returned as is when no
// such cause exists.
func causeOf(err, sentinel error) error {
	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		errs := e.Unwrap()
		for i, inner := range errs {
			if inner == sentinel && len(errs) == 2 {
				return errs[1-i]
			}
		}
		for _, inner := range errs {
			if errors.Is(inner, sentinel) {
				return causeOf(inner, sentinel)
			}
		}
	case interface{ Unwrap() error }:
		if inner := e.Unwrap(); inner != nil {
			return causeOf(inner, sentinel)
		}
	}
	return err
}
