//go:build !linux

package notify

// NewDesktop returns a notifier that discards toasts; desktop notifications
// are only supported on Linux via D-Bus.
func NewDesktop() Notifier {
	return Discard
}
