// Package platform talks to the host desktop.
package platform

import "time"

// Notification is a desktop notification.
type Notification struct {
	AppName string
	Title   string
	Body    string
	// IconPath, when non-empty, points to an image shown alongside the
	// notification where the desktop supports it.
	IconPath string
	Timeout  time.Duration
}

func (n Notification) timeoutMillis() int32 {
	if n.Timeout <= 0 {
		return -1
	}
	return int32(n.Timeout / time.Millisecond)
}
