// Package photo turns content locators into decoded photos.
//
// A locator is one of:
//
//	/path/to/file.jpg       a local file
//	file:///path/to/file    a file URI
//	clipboard:              the image on the clipboard
//	screen: / screen:NAME   a desktop screenshot, optionally one monitor
//	region: / region:x,y,w,h  an interactively chosen or fixed screen area
package photo

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/storycraft/internal/capture"
	"github.com/example/storycraft/internal/clipboard"
)

var (
	// ErrDecode wraps failures to turn bytes into pixels.
	ErrDecode = errors.New("photo could not be decoded")
	// ErrUnsupportedLocator is returned for locators no source understands.
	ErrUnsupportedLocator = errors.New("unsupported photo locator")
)

// Source produces decoded photos from locators.
type Source interface {
	Load(ctx context.Context, locator string) (image.Image, error)
}

// Loader is the default Source.
type Loader struct {
	log zerolog.Logger

	readClipboard func() (image.Image, error)
	captureScreen func(ctx context.Context, opts capture.Options) (*image.RGBA, error)
	captureRegion func(ctx context.Context, r image.Rectangle) (*image.RGBA, error)
	captureOutput func(ctx context.Context, selector string) (*image.RGBA, error)
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the Loader's logger.
func WithLogger(l zerolog.Logger) Option { return func(ld *Loader) { ld.log = l } }

// WithClipboard replaces the clipboard reader.
func WithClipboard(fn func() (image.Image, error)) Option {
	return func(ld *Loader) { ld.readClipboard = fn }
}

// WithScreen replaces the screen capture function used for "screen:" and
// interactive "region:" locators.
func WithScreen(fn func(ctx context.Context, opts capture.Options) (*image.RGBA, error)) Option {
	return func(ld *Loader) { ld.captureScreen = fn }
}

// NewLoader returns a Loader wired to the clipboard and desktop capture.
func NewLoader(opts ...Option) *Loader {
	ld := &Loader{
		log:           log.Logger.With().Str("component", "photo").Logger(),
		readClipboard: clipboard.ReadImage,
		captureScreen: capture.Screen,
		captureRegion: capture.Region,
		captureOutput: capture.Monitor,
	}
	for _, o := range opts {
		o(ld)
	}
	return ld
}

// Load resolves locator and decodes the photo it names.
func (ld *Loader) Load(ctx context.Context, locator string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scheme, rest := splitLocator(locator)
	ld.log.Debug().Str("locator", locator).Str("scheme", scheme).Msg("loading photo")
	switch scheme {
	case "":
		if rest == "" {
			return nil, fmt.Errorf("load photo: empty locator: %w", ErrUnsupportedLocator)
		}
		return DecodeFile(rest)
	case "file":
		u, err := url.Parse(locator)
		if err != nil {
			return nil, fmt.Errorf("load photo %q: %w", locator, err)
		}
		return DecodeFile(u.Path)
	case "clipboard":
		img, err := ld.readClipboard()
		if err != nil {
			return nil, fmt.Errorf("load photo from clipboard: %w", err)
		}
		return img, nil
	case "screen":
		if rest != "" {
			return ld.captureOutput(ctx, rest)
		}
		return ld.captureScreen(ctx, capture.Options{})
	case "region":
		if rest == "" {
			return ld.captureScreen(ctx, capture.Options{Interactive: true})
		}
		r, err := capture.ParseRect(rest)
		if err != nil {
			return nil, err
		}
		return ld.captureRegion(ctx, r)
	}
	return nil, fmt.Errorf("load photo %q: %w", locator, ErrUnsupportedLocator)
}

// splitLocator separates a "scheme:" prefix. Windows drive letters and
// plain paths have no scheme.
func splitLocator(loc string) (scheme, rest string) {
	loc = strings.TrimSpace(loc)
	i := strings.Index(loc, ":")
	if i <= 1 || strings.ContainsAny(loc[:i], `/\.`) {
		return "", loc
	}
	scheme = strings.ToLower(loc[:i])
	rest = strings.TrimPrefix(loc[i+1:], "//")
	return scheme, rest
}

// DecodeFile decodes the image at path.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode reads an image in any registered format.
func Decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	log.Trace().Str("format", format).Stringer("bounds", img.Bounds()).Msg("decoded photo")
	return img, nil
}
