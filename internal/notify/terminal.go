package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1b5e20")).
			Background(lipgloss.Color("#c8e6c9")).
			Padding(0, 1)
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7f0000")).
			Background(lipgloss.Color("#ffe0b2")).
			Bold(true).
			Padding(0, 1)
)

// Terminal prints toasts as styled lines. A terminal cannot retract a
// line, so the toast duration is not used.
type Terminal struct {
	mu    sync.Mutex
	out   io.Writer
	plain bool
}

// NewTerminal writes to out. With plain set no styling is applied.
func NewTerminal(out io.Writer, plain bool) *Terminal {
	return &Terminal{out: out, plain: plain}
}

// Notify implements Notifier.
func (t *Terminal) Notify(toast Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()

	line := toast.Message
	if !t.plain {
		style := infoStyle
		if toast.Warning {
			style = warningStyle
		}
		line = style.Render(line)
	}
	fmt.Fprintln(t.out, line)
}
