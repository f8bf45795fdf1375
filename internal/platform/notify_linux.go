//go:build linux

package platform

import (
	"context"

	"github.com/godbus/dbus/v5"
)

// Notify sends n through the freedesktop.org notification service.
func Notify(ctx context.Context, n Notification) error {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return err
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	return obj.CallWithContext(ctx, "org.freedesktop.Notifications.Notify", 0,
		n.AppName, uint32(0), n.IconPath, n.Title, n.Body, []string{},
		map[string]dbus.Variant{"category": dbus.MakeVariant("transfer.complete")},
		n.timeoutMillis()).Err
}
