//go:build !linux && !darwin

package platform

import "context"

// Notify is a no-op on platforms without a supported notification service.
func Notify(context.Context, Notification) error { return nil }
