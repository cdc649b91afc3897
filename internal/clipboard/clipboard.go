// Package clipboard writes generated shortcodes to a text clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

var (
	// ErrUnfocused is returned when the target does not have focus.
	ErrUnfocused = errors.New("the page is out of focus")
	// ErrClipboard wraps clipboard write failures.
	ErrClipboard = errors.New("failed to copy to clipboard")
)

// Writer writes text to a clipboard.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// FocusChecker reports whether the clipboard target currently has focus.
type FocusChecker interface {
	HasFocus() bool
}

// FocusFunc adapts a function to FocusChecker.
type FocusFunc func() bool

// HasFocus implements FocusChecker.
func (f FocusFunc) HasFocus() bool { return f() }

// AlwaysFocused is used where focus is not observable, e.g. a terminal.
var AlwaysFocused FocusChecker = FocusFunc(func() bool { return true })

// System writes to the operating system clipboard.
type System struct{}

// Available reports whether a clipboard utility was found on this system.
func (System) Available() bool {
	return !clipboard.Unsupported
}

// WriteText implements Writer.
func (System) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrClipboard, err)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", ErrClipboard, err)
	}
	return nil
}

// Memory keeps the last written text. Err, when set, fails every write.
type Memory struct {
	mu   sync.Mutex
	text string
	Err  error
}

// WriteText implements Writer.
func (m *Memory) WriteText(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return fmt.Errorf("%w: %w", ErrClipboard, m.Err)
	}
	m.text = text
	return nil
}

// Text returns the last written text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Copy checks focus and writes text. It is the single entry point flows use
// so that the two failure kinds stay distinct.
func Copy(ctx context.Context, w Writer, focus FocusChecker, text string) error {
	if focus != nil && !focus.HasFocus() {
		return ErrUnfocused
	}
	if err := w.WriteText(ctx, text); err != nil {
		if errors.Is(err, ErrClipboard) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrClipboard, err)
	}
	return nil
}
