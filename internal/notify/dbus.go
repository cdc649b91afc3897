//go:build linux

package notify

import (
	"log"

	"github.com/godbus/dbus/v5"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"

	urgencyNormal   byte = 1
	urgencyCritical byte = 2
)

// desktopNotifier sends toasts as freedesktop notifications over D-Bus.
type desktopNotifier struct {
	obj dbus.BusObject
}

// NewDesktop returns a D-Bus notifier, or a notifier that discards toasts
// when no session bus is available.
func NewDesktop() Notifier {
	conn, err := dbus.SessionBus()
	if err != nil {
		log.Printf("desktop notifications unavailable: %v", err)
		return Discard
	}
	return &desktopNotifier{obj: conn.Object(dbusNotifyDest, dbusNotifyPath)}
}

// Notify implements Notifier. The notification server expires the toast
// after its duration.
func (n *desktopNotifier) Notify(t Toast) {
	urgency := urgencyNormal
	if t.Warning {
		urgency = urgencyCritical
	}
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(urgency),
		"desktop-entry": dbus.MakeVariant("photo-shortcode"),
	}

	// Notify(app_name, replaces_id, icon, summary, body, actions, hints, timeout) -> id
	call := n.obj.Call(
		dbusNotifyInterface+".Notify",
		0,
		"Photo Shortcode",
		uint32(0),
		"edit-copy",
		"Photo Shortcode",
		t.Message,
		[]string{},
		hints,
		int32(t.Duration().Milliseconds()),
	)
	if call.Err != nil {
		log.Printf("desktop notification failed: %v", call.Err)
	}
}
