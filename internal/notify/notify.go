// Package notify tells the desktop about finished exports.
package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/storycraft/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires when an edited image is written to disk.
	EventSave Event = "save"
	// EventShare fires when an image is handed to a share target.
	EventShare Event = "share"
)

const appName = "storycraft"

// Preferences holds the title and per-event body templates. Templates
// take a single %s verb.
type Preferences struct {
	Title     string
	Templates map[Event]string
	Timeout   time.Duration
}

// DefaultPreferences returns the built-in notification text.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: appName,
		Templates: map[Event]string{
			EventSave:  "Saved %s",
			EventShare: "Shared to %s",
		},
		Timeout: 5 * time.Second,
	}
}

// LoadPreferences overlays STORYCRAFT_NOTIFY_* variables read through
// getenv onto the defaults. A nil getenv reads the process environment.
func LoadPreferences(getenv func(string) string) Preferences {
	if getenv == nil {
		getenv = os.Getenv
	}
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(getenv("STORYCRAFT_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for key, event := range map[string]Event{
		"STORYCRAFT_NOTIFY_SAVE_TEXT":  EventSave,
		"STORYCRAFT_NOTIFY_SHARE_TEXT": EventShare,
	} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			prefs.Templates[event] = v
		}
	}
	return prefs
}

var send = platform.Notify

// Notifier sends desktop notifications for enabled events. The zero
// value and a nil *Notifier send nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	log     zerolog.Logger
}

// New returns a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	templates := make(map[Event]string, len(prefs.Templates))
	for k, v := range prefs.Templates {
		templates[k] = v
	}
	prefs.Templates = templates
	return &Notifier{
		prefs:   prefs,
		enabled: map[Event]bool{},
		log:     log.Logger.With().Str("component", "notify").Logger(),
	}
}

// Enable toggles notifications for event.
func (n *Notifier) Enable(event Event, on bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = map[Event]bool{}
	}
	n.enabled[event] = on
}

// Enabled reports whether event will produce a notification.
func (n *Notifier) Enabled(event Event) bool {
	return n != nil && n.enabled[event]
}

// Save announces a written file. The file doubles as the icon.
func (n *Notifier) Save(ctx context.Context, path string) {
	if !n.Enabled(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	var icon string
	if abs, err := filepath.Abs(detail); err == nil {
		detail = abs
		if _, err := os.Stat(abs); err == nil {
			icon = abs
		}
	}
	n.dispatch(ctx, EventSave, detail, icon)
}

// Share announces a completed share to target.
func (n *Notifier) Share(ctx context.Context, target, path string) {
	if !n.Enabled(EventShare) {
		return
	}
	if strings.TrimSpace(target) == "" {
		target = "clipboard"
	}
	n.dispatch(ctx, EventShare, target, path)
}

func (n *Notifier) dispatch(ctx context.Context, event Event, detail, icon string) {
	tmpl := strings.TrimSpace(n.prefs.Templates[event])
	if tmpl == "" {
		return
	}
	body := tmpl
	if strings.Contains(tmpl, "%s") {
		body = fmt.Sprintf(tmpl, detail)
	}
	err := send(ctx, platform.Notification{
		AppName:  appName,
		Title:    n.prefs.Title,
		Body:     strings.TrimSpace(body),
		IconPath: icon,
		Timeout:  n.prefs.Timeout,
	})
	if err != nil {
		n.log.Warn().Err(err).Str("event", string(event)).Msg("notification failed")
	}
}
