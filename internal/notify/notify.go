// Package notify shows short-lived confirmation and warning messages.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/kozaktomas/photo-shortcode/internal/constants"
)

// Toast is a transient message.
type Toast struct {
	Message string `json:"message"`
	Warning bool   `json:"warning"`
}

// Duration returns how long the toast stays visible.
func (t Toast) Duration() time.Duration {
	if t.Warning {
		return constants.WarningToastDuration
	}
	return constants.ToastDuration
}

// Notifier displays toasts. Implementations must not block for the
// lifetime of the toast.
type Notifier interface {
	Notify(t Toast)
}

// Func adapts a function to Notifier.
type Func func(Toast)

// Notify implements Notifier.
func (f Func) Notify(t Toast) { f(t) }

// Discard drops every toast.
var Discard Notifier = Func(func(Toast) {})

// Info builds a normal toast.
func Info(msg string) Toast {
	return Toast{Message: msg}
}

// Warn builds a warning toast.
func Warn(format string, args ...any) Toast {
	return Toast{Message: "⚠️ " + fmt.Sprintf(format, args...), Warning: true}
}

// Messages shown by the copy flows.
const (
	MsgCopied        = "Markdown copied to clipboard!"
	MsgUnfocused     = "The page is out of focus. 👉 Click on the page and try again."
	MsgImageNotFound = "Failed to find image"
	MsgNoImages      = "No images found"
	MsgSaved         = "Options saved"
	MsgThumbRequired = "[!] Thumbnail is required when using preview thumbnails"
)

// Recorder keeps every toast, for tests.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// Notify implements Notifier.
func (r *Recorder) Notify(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

// Toasts returns a copy of the recorded toasts.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Last returns the most recent toast.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}
