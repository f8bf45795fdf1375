package editor

import (
	"fmt"
	"image"
	"image/color"

	"github.com/example/storycraft/internal/stroke"
)

// Kind names a State variant.
type Kind int

const (
	KindEmptyCanvas Kind = iota
	KindPhotoPicked
	KindPhotoWithDrawing
)

func (k Kind) String() string {
	switch k {
	case KindEmptyCanvas:
		return "empty-canvas"
	case KindPhotoPicked:
		return "photo-picked"
	case KindPhotoWithDrawing:
		return "photo-with-drawing"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// State is the editor state. Exactly one of EmptyCanvas, PhotoPicked and
// PhotoWithDrawing is active at a time.
type State interface {
	Kind() Kind
	isState()
}

// EmptyCanvas holds neither photo nor drawing. It is the initial state.
type EmptyCanvas struct{}

// PhotoPicked records a chosen photo whose pixels are not loaded yet.
type PhotoPicked struct {
	URI string
}

// Sticker is the overlay chosen from the sticker catalog. Image may be nil
// when the surface resolves the id itself.
type Sticker struct {
	ID    string
	Image image.Image
}

// PhotoWithDrawing holds decoded photo pixels and the drawing over them.
type PhotoWithDrawing struct {
	Photo         image.Image
	Sticker       *Sticker
	CurrentColor  color.RGBA
	CurrentStroke *stroke.Stroke
	Strokes       stroke.Seq[*stroke.Stroke]
}

func (EmptyCanvas) Kind() Kind      { return KindEmptyCanvas }
func (PhotoPicked) Kind() Kind      { return KindPhotoPicked }
func (PhotoWithDrawing) Kind() Kind { return KindPhotoWithDrawing }

func (EmptyCanvas) isState()      {}
func (PhotoPicked) isState()      {}
func (PhotoWithDrawing) isState() {}

func newDrawing(photo image.Image) PhotoWithDrawing {
	return PhotoWithDrawing{Photo: photo, CurrentColor: stroke.DefaultColor()}
}

// Drawing reports whether a stroke is in progress.
func (s PhotoWithDrawing) Drawing() bool { return s.CurrentStroke != nil }

// Committed returns the completed strokes in drawing order.
func (s PhotoWithDrawing) Committed() []*stroke.Stroke { return s.Strokes.Slice() }

// Describe renders a one-line summary of st for logs and the CLI.
func Describe(st State) string {
	switch s := st.(type) {
	case EmptyCanvas:
		return "empty canvas"
	case PhotoPicked:
		return fmt.Sprintf("photo picked: %s", s.URI)
	case PhotoWithDrawing:
		b := s.Photo.Bounds()
		sticker := "none"
		if s.Sticker != nil {
			sticker = s.Sticker.ID
		}
		drawing := ""
		if s.CurrentStroke != nil {
			drawing = fmt.Sprintf(", drawing %d points", s.CurrentStroke.Len())
		}
		return fmt.Sprintf("photo %dx%d, color %s, sticker %s, %d strokes%s",
			b.Dx(), b.Dy(), stroke.ColorName(s.CurrentColor), sticker, s.Strokes.Len(), drawing)
	}
	return "unknown state"
}
