// Package appstate runs the interactive editor window.
//
// Mouse and keyboard input is translated into editor actions; every state
// the Machine publishes is composited and scaled to fit the window.
package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/storycraft/internal/editor"
	"github.com/example/storycraft/internal/photo"
	"github.com/example/storycraft/internal/render"
	"github.com/example/storycraft/internal/stroke"
)

// DefaultSize is the initial window size, a 9:16 story frame.
var DefaultSize = image.Pt(540, 960)

const messageDuration = 3 * time.Second

// StickerCycler picks the sticker after the current one.
type StickerCycler interface {
	Next(current string) string
}

// ExportFunc persists or shares a finished image and returns a short
// description of where it went.
type ExportFunc func(ctx context.Context, img image.Image) (string, error)

// Window is the editor's desktop surface.
type Window struct {
	m        *editor.Machine
	stickers StickerCycler
	photos   photo.Source
	export   ExportFunc
	log      zerolog.Logger
	title    string
	bg       color.Color
	shadow   *render.Shadow

	updateCh chan struct{}

	// Owned by the event loop.
	drawing bool
	moving  bool

	mu           sync.Mutex
	winSize      image.Point
	stickerAt    *image.Point
	loading      string
	message      string
	messageUntil time.Time
}

// Option configures a Window.
type Option func(*Window)

// WithLogger sets the Window's logger.
func WithLogger(l zerolog.Logger) Option { return func(w *Window) { w.log = l } }

// WithStickers enables sticker cycling with the s key.
func WithStickers(c StickerCycler) Option { return func(w *Window) { w.stickers = c } }

// WithPhotos loads photos selected by locator.
func WithPhotos(src photo.Source) Option { return func(w *Window) { w.photos = src } }

// WithExport handles the e key.
func WithExport(fn ExportFunc) Option { return func(w *Window) { w.export = fn } }

// WithSize sets the initial window size.
func WithSize(sz image.Point) Option { return func(w *Window) { w.winSize = sz } }

// WithBackground sets the color around the photo.
func WithBackground(c color.Color) Option { return func(w *Window) { w.bg = c } }

// WithShadow draws stickers with a drop shadow.
func WithShadow(s *render.Shadow) Option { return func(w *Window) { w.shadow = s } }

// WithTitle sets the window title.
func WithTitle(t string) Option { return func(w *Window) { w.title = t } }

// New returns a Window driving m.
func New(m *editor.Machine, opts ...Option) *Window {
	w := &Window{
		m:        m,
		log:      log.Logger.With().Str("component", "window").Logger(),
		title:    "storycraft",
		bg:       color.Black,
		winSize:  DefaultSize,
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(w)
	}
	if w.winSize.X <= 0 || w.winSize.Y <= 0 {
		w.winSize = DefaultSize
	}
	return w
}

// Run opens the window and blocks until it is closed.
func (w *Window) Run() error {
	var err error
	driver.Main(func(s screen.Screen) { err = w.main(s) })
	return err
}

func (w *Window) main(s screen.Screen) error {
	sz := w.size()
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: sz.X, Height: sz.Y, Title: w.title})
	if err != nil {
		return fmt.Errorf("new window: %w", err)
	}
	defer win.Release()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-w.updateCh:
				win.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()

	unsubscribe := w.m.Subscribe(w.onState)
	defer unsubscribe()

	for {
		switch e := win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				w.cancelGesture()
			}
		case size.Event:
			w.mu.Lock()
			w.winSize = e.Size()
			w.mu.Unlock()
		case paint.Event:
			if err := drawFrame(s, win, w.frame()); err != nil {
				w.log.Error().Err(err).Msg("paint")
			}
		case mouse.Event:
			if w.handleMouse(e) {
				w.requestPaint()
			}
		case key.Event:
			if w.handleKey(e) {
				return nil
			}
		case error:
			w.log.Error().Err(e).Msg("window event")
		}
	}
}

func drawFrame(s screen.Screen, win screen.Window, img *image.RGBA) error {
	b, err := s.NewBuffer(img.Bounds().Size())
	if err != nil {
		return fmt.Errorf("new buffer: %w", err)
	}
	defer b.Release()
	draw.Draw(b.RGBA(), b.Bounds(), img, image.Point{}, draw.Src)
	win.Upload(image.Point{}, b, b.Bounds())
	win.Publish()
	return nil
}

// requestPaint schedules a repaint; requests made while one is pending
// collapse into it.
func (w *Window) requestPaint() {
	select {
	case w.updateCh <- struct{}{}:
	default:
	}
}

func (w *Window) onState(st editor.State) {
	switch st := st.(type) {
	case editor.PhotoPicked:
		w.mu.Lock()
		start := w.photos != nil && w.loading != st.URI
		if start {
			w.loading = st.URI
		}
		w.mu.Unlock()
		if start {
			go w.load(context.Background(), st.URI)
		}
	case editor.EmptyCanvas:
		w.mu.Lock()
		w.stickerAt = nil
		w.mu.Unlock()
	}
	w.requestPaint()
}

func (w *Window) load(ctx context.Context, uri string) {
	img, err := w.photos.Load(ctx, uri)
	w.mu.Lock()
	if w.loading == uri {
		w.loading = ""
	}
	w.mu.Unlock()
	if err != nil {
		w.log.Warn().Err(err).Str("locator", uri).Msg("photo load failed")
		w.flash("Could not load photo")
		return
	}
	if cur, ok := w.m.State().(editor.PhotoPicked); ok && cur.URI == uri {
		w.m.Dispatch(editor.AddImage{Photo: img})
	}
}

func (w *Window) flash(msg string) {
	w.mu.Lock()
	w.message = msg
	w.messageUntil = time.Now().Add(messageDuration)
	w.mu.Unlock()
	w.requestPaint()
}

func (w *Window) size() image.Point {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.winSize
}

// view is where the photo sits in the window.
func (w *Window) view(p image.Image) image.Rectangle {
	return render.FitRect(p.Bounds().Size(), image.Rectangle{Max: w.size()})
}

// toCanvas maps window coordinates to photo pixels. in reports whether the
// point lies over the photo.
func (w *Window) toCanvas(p image.Image, x, y float32) (pt stroke.Point, in bool) {
	v := w.view(p)
	if v.Empty() {
		return stroke.Point{}, false
	}
	sz := p.Bounds().Size()
	pt = stroke.Pt(
		(x-float32(v.Min.X))*float32(sz.X)/float32(v.Dx()),
		(y-float32(v.Min.Y))*float32(sz.Y)/float32(v.Dy()),
	)
	return pt, image.Pt(int(x), int(y)).In(v)
}

func (w *Window) handleMouse(e mouse.Event) (repaint bool) {
	st, ok := w.m.State().(editor.PhotoWithDrawing)
	if !ok {
		return false
	}
	p, in := w.toCanvas(st.Photo, e.X, e.Y)
	switch e.Button {
	case mouse.ButtonLeft:
		switch e.Direction {
		case mouse.DirPress:
			if !in {
				return false
			}
			w.drawing = true
			w.m.Dispatch(editor.BeginNewStroke{})
			w.m.Dispatch(editor.DrawStroke{Point: p})
		case mouse.DirRelease:
			if w.drawing {
				w.drawing = false
				w.m.Dispatch(editor.CompleteStroke{})
			}
		}
	case mouse.ButtonRight:
		switch e.Direction {
		case mouse.DirPress:
			if st.Sticker == nil || !in {
				return false
			}
			w.moving = true
			w.moveSticker(p)
			return true
		case mouse.DirRelease:
			w.moving = false
		}
	case mouse.ButtonNone:
		if w.drawing {
			w.m.Dispatch(editor.DrawStroke{Point: p})
		}
		if w.moving {
			w.moveSticker(p)
			return true
		}
	}
	return false
}

func (w *Window) moveSticker(p stroke.Point) {
	at := image.Pt(int(p.X), int(p.Y))
	w.mu.Lock()
	w.stickerAt = &at
	w.mu.Unlock()
}

// cancelGesture ends any drag in progress. A stroke being drawn is kept.
func (w *Window) cancelGesture() {
	w.moving = false
	if w.drawing {
		w.drawing = false
		w.m.Dispatch(editor.CompleteStroke{})
	}
}

// handleKey applies a key press and reports whether the window should
// close.
func (w *Window) handleKey(e key.Event) (quit bool) {
	if e.Direction != key.DirPress {
		return false
	}
	if e.Code == key.CodeEscape {
		return true
	}
	st, drawing := w.m.State().(editor.PhotoWithDrawing)
	switch r := e.Rune; {
	case r >= '1' && r <= '9':
		pal := stroke.Palette()
		if i := int(r - '1'); i < len(pal) {
			w.m.Dispatch(editor.ChangeColor{Color: pal[i]})
		}
	case r == 'c':
		if drawing {
			w.m.Dispatch(editor.ChangeColor{Color: nextColor(st.CurrentColor)})
		}
	case r == 's':
		if drawing && w.stickers != nil {
			cur := ""
			if st.Sticker != nil {
				cur = st.Sticker.ID
			}
			if id := w.stickers.Next(cur); id != "" {
				w.m.Dispatch(editor.AddSticker{ID: id})
			}
		}
	case r == 'x':
		w.m.Dispatch(editor.ClearCanvas{})
		w.mu.Lock()
		w.stickerAt = nil
		w.mu.Unlock()
	case r == 'd':
		w.m.Dispatch(editor.DiscardImage{})
	case r == 'e':
		if drawing {
			go w.exportDrawing(context.Background(), st)
		}
	}
	return false
}

func nextColor(cur color.RGBA) color.RGBA {
	pal := stroke.Palette()
	for i, c := range pal {
		if c == cur {
			return pal[(i+1)%len(pal)]
		}
	}
	return pal[0]
}

func (w *Window) renderOptions() render.Options {
	w.mu.Lock()
	defer w.mu.Unlock()
	opts := render.Options{Shadow: w.shadow}
	if w.stickerAt != nil {
		at := *w.stickerAt
		opts.StickerAt = &at
	}
	return opts
}

func (w *Window) exportDrawing(ctx context.Context, st editor.PhotoWithDrawing) {
	if w.export == nil {
		w.flash("Export is not configured")
		return
	}
	img := render.Composite(st, w.renderOptions())
	where, err := w.export(ctx, img)
	if err != nil {
		w.log.Error().Err(err).Msg("export")
		w.flash("Export failed: " + err.Error())
		return
	}
	w.flash("Saved " + where)
}

// frame renders the current state at window size.
func (w *Window) frame() *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: w.size()})
	draw.Draw(dst, dst.Bounds(), image.NewUniform(w.bg), image.Point{}, draw.Src)
	switch st := w.m.State().(type) {
	case editor.PhotoWithDrawing:
		img := render.Composite(st, w.renderOptions())
		xdraw.ApproxBiLinear.Scale(dst, w.view(st.Photo), img, img.Bounds(), draw.Src, nil)
	case editor.PhotoPicked:
		caption(dst, "Loading "+st.URI)
	default:
		caption(dst, "No photo selected")
	}

	w.mu.Lock()
	msg := w.message
	if time.Now().After(w.messageUntil) {
		msg = ""
	}
	w.mu.Unlock()
	if msg != "" {
		banner(dst, msg)
	}
	return dst
}

func caption(dst *image.RGBA, text string) {
	d := &font.Drawer{Dst: dst, Src: image.White, Face: basicfont.Face7x13}
	tw := d.MeasureString(text).Ceil()
	b := dst.Bounds()
	d.Dot = fixed.P(b.Min.X+(b.Dx()-tw)/2, b.Min.Y+b.Dy()/2)
	d.DrawString(text)
}

func banner(dst *image.RGBA, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: face}
	tw := d.MeasureString(text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	b := dst.Bounds()
	px := b.Min.X + (b.Dx()-tw)/2
	py := b.Max.Y - 24 - descent
	r := image.Rect(px-8, py-ascent-6, px+tw+8, py+descent+6)
	draw.Draw(dst, r, image.NewUniform(color.RGBA{255, 255, 255, 230}), image.Point{}, draw.Over)
	d.Dot = fixed.P(px, py)
	d.DrawString(text)
}
