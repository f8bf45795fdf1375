package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storycraft/internal/platform"
)

func capture(t *testing.T) *[]platform.Notification {
	t.Helper()
	var got []platform.Notification
	old := send
	send = func(_ context.Context, n platform.Notification) error {
		got = append(got, n)
		return nil
	}
	t.Cleanup(func() { send = old })
	return &got
}

func quiet(n *Notifier) *Notifier {
	n.log = zerolog.Nop()
	return n
}

func TestDisabledByDefault(t *testing.T) {
	got := capture(t)
	n := quiet(New(DefaultPreferences()))
	n.Save(context.Background(), "a.png")
	n.Share(context.Background(), "clipboard", "")
	assert.Empty(t, *got)

	var nilNotifier *Notifier
	nilNotifier.Enable(EventSave, true)
	nilNotifier.Save(context.Background(), "a.png")
	assert.Empty(t, *got)
}

func TestSaveUsesAbsolutePathAndIcon(t *testing.T) {
	got := capture(t)
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	n := quiet(New(DefaultPreferences()))
	n.Enable(EventSave, true)
	n.Save(context.Background(), path)

	require.Len(t, *got, 1)
	assert.Equal(t, "storycraft", (*got)[0].Title)
	assert.Equal(t, "Saved "+path, (*got)[0].Body)
	assert.Equal(t, path, (*got)[0].IconPath)
}

func TestShareDefaultsTarget(t *testing.T) {
	got := capture(t)
	n := quiet(New(DefaultPreferences()))
	n.Enable(EventShare, true)
	n.Share(context.Background(), "", "")
	require.Len(t, *got, 1)
	assert.Equal(t, "Shared to clipboard", (*got)[0].Body)
}

func TestLoadPreferences(t *testing.T) {
	env := map[string]string{
		"STORYCRAFT_NOTIFY_TITLE":      "Stories",
		"STORYCRAFT_NOTIFY_SHARE_TEXT": "Sent!",
	}
	prefs := LoadPreferences(func(k string) string { return env[k] })
	assert.Equal(t, "Stories", prefs.Title)
	assert.Equal(t, "Saved %s", prefs.Templates[EventSave])
	assert.Equal(t, "Sent!", prefs.Templates[EventShare])

	got := capture(t)
	n := quiet(New(prefs))
	n.Enable(EventShare, true)
	n.Share(context.Background(), "dir:/tmp", "")
	require.Len(t, *got, 1)
	assert.Equal(t, "Sent!", (*got)[0].Body)
}

func TestNewCopiesTemplates(t *testing.T) {
	prefs := DefaultPreferences()
	n := New(prefs)
	prefs.Templates[EventSave] = "changed %s"
	assert.Equal(t, "Saved %s", n.prefs.Templates[EventSave])
}

func TestSendFailureIsSwallowed(t *testing.T) {
	old := send
	send = func(context.Context, platform.Notification) error { return errors.New("no bus") }
	t.Cleanup(func() { send = old })

	n := quiet(New(DefaultPreferences()))
	n.Enable(EventShare, true)
	assert.NotPanics(t, func() { n.Share(context.Background(), "clipboard", "") })
}
