// Package share hands an exported image to another application.
package share

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/storycraft/internal/clipboard"
)

// ErrTargetUnavailable is returned when a share target cannot be reached,
// either because it is unknown or because the desktop lacks it.
var ErrTargetUnavailable = errors.New("share target unavailable")

// Item is what gets shared. Path is the exported file, when there is one.
type Item struct {
	Image image.Image
	Path  string
}

// Target delivers an Item somewhere.
type Target interface {
	Name() string
	Share(ctx context.Context, it Item) error
}

// Names lists the built-in target names accepted by Lookup. "dir:PATH"
// is accepted as well.
func Names() []string { return []string{"clipboard", "clipboard-path"} }

// Lookup returns the target called name.
func Lookup(name string) (Target, error) {
	switch n := strings.TrimSpace(name); {
	case n == "clipboard":
		return Clipboard{write: clipboard.WriteImage}, nil
	case n == "clipboard-path":
		return ClipboardPath{write: clipboard.WriteText}, nil
	case strings.HasPrefix(n, "dir:") && len(n) > len("dir:"):
		return Dir{Path: n[len("dir:"):]}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrTargetUnavailable, name)
}

// Clipboard puts the image on the clipboard.
type Clipboard struct{ write func(image.Image) error }

func (Clipboard) Name() string { return "clipboard" }

func (c Clipboard) Share(ctx context.Context, it Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if it.Image == nil {
		return errors.New("share to clipboard: no image")
	}
	return unavailable("clipboard", c.write(it.Image))
}

// ClipboardPath puts the exported file's path on the clipboard as text.
type ClipboardPath struct{ write func(string) error }

func (ClipboardPath) Name() string { return "clipboard-path" }

func (c ClipboardPath) Share(ctx context.Context, it Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if it.Path == "" {
		return errors.New("share path to clipboard: image was not saved")
	}
	abs, err := filepath.Abs(it.Path)
	if err != nil {
		return err
	}
	return unavailable("clipboard-path", c.write(abs))
}

// Dir copies the exported file into a directory, such as a synced folder.
type Dir struct{ Path string }

func (d Dir) Name() string { return "dir:" + d.Path }

func (d Dir) Share(ctx context.Context, it Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if it.Path == "" {
		return errors.New("share to directory: image was not saved")
	}
	st, err := os.Stat(d.Path)
	if err != nil || !st.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrTargetUnavailable, d.Path)
	}
	dst := filepath.Join(d.Path, filepath.Base(it.Path))
	if sameFile(it.Path, dst) {
		return nil
	}
	return copyFile(it.Path, dst)
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	return err == nil && os.SameFile(ai, bi)
}

// copyFile writes src to a temporary file next to dst and renames it into
// place, so dst is never left truncated.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	tmp := out.Name()
	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, 0o644)
	}
	if err == nil {
		err = os.Rename(tmp, dst)
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}

func unavailable(target string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, clipboard.ErrNoDisplay) || errors.Is(err, clipboard.ErrUnsupported) {
		return fmt.Errorf("%w: %s: %v", ErrTargetUnavailable, target, err)
	}
	return fmt.Errorf("share to %s: %w", target, err)
}
