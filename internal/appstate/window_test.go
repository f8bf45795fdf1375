package appstate

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/storycraft/internal/editor"
	"github.com/example/storycraft/internal/stroke"
)

type cycler []string

func (c cycler) Next(cur string) string {
	for i, id := range c {
		if id == cur {
			return c[(i+1)%len(c)]
		}
	}
	return c[0]
}

type stickerImages struct{}

func (stickerImages) Sticker(string) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

type photoFunc func(ctx context.Context, loc string) (image.Image, error)

func (f photoFunc) Load(ctx context.Context, loc string) (image.Image, error) { return f(ctx, loc) }

// newWindow returns a 100x100 window showing a 50x50 photo, so window
// coordinates are twice photo coordinates.
func newWindow(t *testing.T, opts ...Option) (*Window, *editor.Machine) {
	t.Helper()
	m := editor.New(editor.WithLogger(zerolog.Nop()), editor.WithStickers(stickerImages{}))
	m.Dispatch(editor.AddImage{Photo: image.NewRGBA(image.Rect(0, 0, 50, 50))})
	opts = append([]Option{WithLogger(zerolog.Nop()), WithSize(image.Pt(100, 100))}, opts...)
	return New(m, opts...), m
}

func drawing(t *testing.T, m *editor.Machine) editor.PhotoWithDrawing {
	t.Helper()
	d, ok := m.State().(editor.PhotoWithDrawing)
	require.True(t, ok, "state is %s", editor.Describe(m.State()))
	return d
}

func press(r rune) key.Event { return key.Event{Rune: r, Direction: key.DirPress} }

func TestLeftDragDrawsStroke(t *testing.T) {
	w, m := newWindow(t)
	w.handleMouse(mouse.Event{X: 20, Y: 40, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	w.handleMouse(mouse.Event{X: 40, Y: 40})
	assert.True(t, drawing(t, m).Drawing())
	w.handleMouse(mouse.Event{X: 40, Y: 40, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})

	d := drawing(t, m)
	assert.False(t, d.Drawing())
	require.Equal(t, 1, d.Strokes.Len())
	assert.Equal(t, []stroke.Point{stroke.Pt(10, 20), stroke.Pt(20, 20)}, d.Strokes.At(0).Points())
}

func TestPressOutsidePhotoIsIgnored(t *testing.T) {
	w, m := newWindow(t, WithSize(image.Pt(200, 100)))
	w.handleMouse(mouse.Event{X: 10, Y: 50, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	assert.False(t, drawing(t, m).Drawing())
}

func TestLetterboxedMapping(t *testing.T) {
	w, m := newWindow(t, WithSize(image.Pt(200, 100)))
	p, in := w.toCanvas(drawing(t, m).Photo, 100, 50)
	assert.True(t, in)
	assert.Equal(t, stroke.Pt(25, 25), p)
}

func TestFocusLossCompletesStroke(t *testing.T) {
	w, m := newWindow(t)
	w.handleMouse(mouse.Event{X: 10, Y: 10, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	w.cancelGesture()
	d := drawing(t, m)
	assert.False(t, d.Drawing())
	assert.Equal(t, 1, d.Strokes.Len())
}

func TestRightDragMovesSticker(t *testing.T) {
	w, m := newWindow(t, WithStickers(cycler{"heart"}))
	assert.False(t, w.handleMouse(mouse.Event{X: 10, Y: 10, Button: mouse.ButtonRight, Direction: mouse.DirPress}), "no sticker yet")

	w.handleKey(press('s'))
	require.NotNil(t, drawing(t, m).Sticker)
	assert.True(t, w.handleMouse(mouse.Event{X: 10, Y: 10, Button: mouse.ButtonRight, Direction: mouse.DirPress}))
	assert.True(t, w.handleMouse(mouse.Event{X: 30, Y: 60}))
	w.handleMouse(mouse.Event{Button: mouse.ButtonRight, Direction: mouse.DirRelease})
	assert.False(t, w.handleMouse(mouse.Event{X: 90, Y: 90}))

	require.NotNil(t, w.renderOptions().StickerAt)
	assert.Equal(t, image.Pt(15, 30), *w.renderOptions().StickerAt)
	assert.Zero(t, drawing(t, m).Strokes.Len())
}

func TestKeys(t *testing.T) {
	w, m := newWindow(t, WithStickers(cycler{"heart", "star"}))
	pal := stroke.Palette()

	w.handleKey(press('2'))
	assert.Equal(t, pal[1], drawing(t, m).CurrentColor)
	w.handleKey(press('c'))
	assert.Equal(t, pal[2], drawing(t, m).CurrentColor)
	w.handleKey(key.Event{Rune: 'c', Direction: key.DirRelease})
	assert.Equal(t, pal[2], drawing(t, m).CurrentColor)

	w.handleKey(press('s'))
	assert.Equal(t, "heart", drawing(t, m).Sticker.ID)
	w.handleKey(press('s'))
	assert.Equal(t, "star", drawing(t, m).Sticker.ID)

	w.handleKey(press('x'))
	assert.Nil(t, drawing(t, m).Sticker)

	assert.False(t, w.handleKey(press('d')))
	assert.Equal(t, editor.EmptyCanvas{}, m.State())
	assert.True(t, w.handleKey(key.Event{Code: key.CodeEscape, Direction: key.DirPress}))
}

func TestNextColorWraps(t *testing.T) {
	pal := stroke.Palette()
	assert.Equal(t, pal[0], nextColor(pal[len(pal)-1]))
	assert.Equal(t, pal[0], nextColor(color.RGBA{1, 2, 3, 255}))
}

func TestSelectedPhotoIsLoaded(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 8, 8))
	loaded := make(chan string, 1)
	m := editor.New(editor.WithLogger(zerolog.Nop()))
	w := New(m, WithLogger(zerolog.Nop()), WithPhotos(photoFunc(func(_ context.Context, loc string) (image.Image, error) {
		loaded <- loc
		return want, nil
	})))
	unsubscribe := m.Subscribe(w.onState)
	defer unsubscribe()

	m.Dispatch(editor.SelectImage{URI: "photo.png"})
	assert.Equal(t, "photo.png", <-loaded)
	require.Eventually(t, func() bool {
		d, ok := m.State().(editor.PhotoWithDrawing)
		return ok && d.Photo == image.Image(want)
	}, time.Second, 5*time.Millisecond)
}

func TestExportReportsResult(t *testing.T) {
	var got image.Image
	w, m := newWindow(t, WithExport(func(_ context.Context, img image.Image) (string, error) {
		got = img
		return "/tmp/IMG_1.png", nil
	}))
	w.exportDrawing(context.Background(), drawing(t, m))
	require.NotNil(t, got)
	assert.Equal(t, image.Rect(0, 0, 50, 50), got.Bounds())
	assert.Equal(t, "Saved /tmp/IMG_1.png", w.message)

	w.export = func(context.Context, image.Image) (string, error) { return "", errors.New("disk full") }
	w.exportDrawing(context.Background(), drawing(t, m))
	assert.Equal(t, "Export failed: disk full", w.message)
}

func TestFrame(t *testing.T) {
	m := editor.New(editor.WithLogger(zerolog.Nop()))
	w := New(m, WithLogger(zerolog.Nop()), WithSize(image.Pt(200, 100)))
	f := w.frame()
	assert.Equal(t, image.Rect(0, 0, 200, 100), f.Bounds())
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, f.RGBAAt(0, 0))

	white := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range white.Pix {
		white.Pix[i] = 0xff
	}
	m.Dispatch(editor.AddImage{Photo: white})
	f = w.frame()
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, f.RGBAAt(10, 50), "letterbox")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, f.RGBAAt(100, 50), "photo")
}
