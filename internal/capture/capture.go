// Package capture grabs desktop screenshots to use as photos.
//
// The XDG desktop portal is tried first. When it is unavailable and the
// user does not need to pick a region, the X11 root window is read
// directly.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Options tunes a capture.
type Options struct {
	// Interactive lets the user choose the area through the portal UI.
	Interactive bool
	// IncludeCursor asks the portal to embed the pointer.
	IncludeCursor bool
}

// MonitorInfo describes one monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

var (
	// ErrUnsupported is returned on platforms without a capture backend.
	ErrUnsupported = errors.New("screen capture is not supported on this platform")
	// ErrCancelled is returned when the user dismisses the portal dialog.
	ErrCancelled = errors.New("screen capture cancelled")

	errNoMonitors = errors.New("no monitors available")
)

// Test seams.
var (
	portalScreenshotFn = portalScreenshot
	rootScreenshotFn   = rootScreenshot
	listMonitorsFn     = listMonitors
)

// Screen captures the whole desktop.
func Screen(ctx context.Context, opts Options) (*image.RGBA, error) {
	img, err := portalScreenshotFn(ctx, opts)
	if err == nil {
		return img, nil
	}
	if opts.Interactive || errors.Is(err, ErrCancelled) || ctx.Err() != nil {
		return nil, err
	}
	log.Debug().Err(err).Msg("portal screenshot failed; reading X11 root window")
	img, xerr := rootScreenshotFn()
	if xerr != nil {
		return nil, fmt.Errorf("capture screen: portal: %v; x11: %w", err, xerr)
	}
	return img, nil
}

// Region captures rect, given in global screen coordinates.
func Region(ctx context.Context, rect image.Rectangle) (*image.RGBA, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("capture region: region is empty")
	}
	shot, err := Screen(ctx, Options{})
	if err != nil {
		return nil, err
	}
	return crop(shot, rect)
}

// Monitor captures the monitor matched by selector (see FindMonitor).
func Monitor(ctx context.Context, selector string) (*image.RGBA, error) {
	monitors, err := listMonitorsFn()
	if err != nil {
		return nil, fmt.Errorf("capture monitor %q: %w", selector, err)
	}
	mon, err := FindMonitor(monitors, selector)
	if err != nil {
		return nil, err
	}
	return Region(ctx, mon.Rect)
}

// ListMonitors returns the connected monitors.
func ListMonitors() ([]MonitorInfo, error) { return listMonitorsFn() }

// FindMonitor resolves selector against monitors. An empty selector or
// "primary" picks the primary monitor; a number (optionally prefixed with
// '#') picks by index; anything else matches a name substring.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" || sel == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), sel) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

// ParseRect parses "x,y,w,h" into a rectangle.
func ParseRect(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("region %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("region %q: width and height must be positive", s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

func crop(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
