//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"context"
	"image"
)

func portalScreenshot(context.Context, Options) (*image.RGBA, error) { return nil, ErrUnsupported }

func rootScreenshot() (*image.RGBA, error) { return nil, ErrUnsupported }

func listMonitors() ([]MonitorInfo, error) { return nil, ErrUnsupported }
