package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
)

func stubCapture(t *testing.T, portal func(context.Context, Options) (*image.RGBA, error), root func() (*image.RGBA, error)) {
	t.Helper()
	prevPortal, prevRoot := portalScreenshotFn, rootScreenshotFn
	portalScreenshotFn, rootScreenshotFn = portal, root
	t.Cleanup(func() { portalScreenshotFn, rootScreenshotFn = prevPortal, prevRoot })
}

func TestScreenPrefersPortal(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 2, 2))
	stubCapture(t,
		func(context.Context, Options) (*image.RGBA, error) { return want, nil },
		func() (*image.RGBA, error) { t.Fatal("root grab should not run"); return nil, nil },
	)
	got, err := Screen(context.Background(), Options{})
	if err != nil || got != want {
		t.Fatalf("Screen = %v, %v", got, err)
	}
}

func TestScreenFallsBackToRootWindow(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 1, 1))
	stubCapture(t,
		func(context.Context, Options) (*image.RGBA, error) { return nil, errors.New("no portal") },
		func() (*image.RGBA, error) { return want, nil },
	)
	got, err := Screen(context.Background(), Options{})
	if err != nil || got != want {
		t.Fatalf("Screen = %v, %v", got, err)
	}
}

func TestScreenNoFallback(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		portalErr error
	}{
		{"interactive", Options{Interactive: true}, errors.New("no portal")},
		{"cancelled", Options{}, ErrCancelled},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stubCapture(t,
				func(context.Context, Options) (*image.RGBA, error) { return nil, tc.portalErr },
				func() (*image.RGBA, error) { t.Fatal("root grab should not run"); return nil, nil },
			)
			if _, err := Screen(context.Background(), tc.opts); !errors.Is(err, tc.portalErr) {
				t.Fatalf("expected %v, got %v", tc.portalErr, err)
			}
		})
	}
}

func TestScreenReportsBothFailures(t *testing.T) {
	rootErr := errors.New("no X server")
	stubCapture(t,
		func(context.Context, Options) (*image.RGBA, error) { return nil, errors.New("no portal") },
		func() (*image.RGBA, error) { return nil, rootErr },
	)
	_, err := Screen(context.Background(), Options{})
	if !errors.Is(err, rootErr) {
		t.Fatalf("expected wrapped root error, got %v", err)
	}
}

func TestRegionCrops(t *testing.T) {
	shot := image.NewRGBA(image.Rect(0, 0, 10, 10))
	shot.Set(4, 5, color.RGBA{R: 255, A: 255})
	stubCapture(t,
		func(context.Context, Options) (*image.RGBA, error) { return shot, nil },
		nil,
	)
	got, err := Region(context.Background(), image.Rect(3, 3, 8, 8))
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != image.Rect(0, 0, 5, 5) {
		t.Fatalf("bounds %v", got.Bounds())
	}
	if got.RGBAAt(1, 2).R != 255 {
		t.Fatal("crop lost the marked pixel")
	}
	if _, err := Region(context.Background(), image.Rect(20, 20, 30, 30)); err == nil {
		t.Fatal("expected error for region outside the screen")
	}
}

func TestMonitorUsesLayout(t *testing.T) {
	prev := listMonitorsFn
	listMonitorsFn = func() ([]MonitorInfo, error) {
		return []MonitorInfo{
			{Index: 0, Name: "DP-1", Rect: image.Rect(0, 0, 4, 4)},
			{Index: 1, Name: "HDMI-1", Rect: image.Rect(4, 0, 10, 4), Primary: true},
		}, nil
	}
	t.Cleanup(func() { listMonitorsFn = prev })
	stubCapture(t,
		func(context.Context, Options) (*image.RGBA, error) {
			return image.NewRGBA(image.Rect(0, 0, 10, 4)), nil
		},
		nil,
	)
	img, err := Monitor(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 6 {
		t.Fatalf("expected primary monitor width 6, got %d", img.Bounds().Dx())
	}
}

func TestFindMonitor(t *testing.T) {
	monitors := []MonitorInfo{
		{Index: 0, Name: "eDP-1"},
		{Index: 1, Name: "HDMI-A-1", Primary: true},
	}
	tests := []struct {
		sel     string
		want    int
		wantErr bool
	}{
		{"", 1, false},
		{"primary", 1, false},
		{"0", 0, false},
		{"#1", 1, false},
		{"hdmi", 1, false},
		{"5", 0, true},
		{"vga", 0, true},
	}
	for _, tc := range tests {
		got, err := FindMonitor(monitors, tc.sel)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tc.sel)
			}
			continue
		}
		if err != nil || got.Index != tc.want {
			t.Errorf("%q: got %d, %v; want %d", tc.sel, got.Index, err, tc.want)
		}
	}
	if _, err := FindMonitor(nil, ""); !errors.Is(err, errNoMonitors) {
		t.Errorf("expected errNoMonitors, got %v", err)
	}
}

func TestParseRect(t *testing.T) {
	r, err := ParseRect("10, 20, 30, 40")
	if err != nil || r != image.Rect(10, 20, 40, 60) {
		t.Fatalf("ParseRect = %v, %v", r, err)
	}
	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "0,0,0,5"} {
		if _, err := ParseRect(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}
