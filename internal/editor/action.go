package editor

import (
	"image"
	"image/color"

	"github.com/example/storycraft/internal/stroke"
)

// Action is an input to the editor. Surfaces translate user gestures into
// actions and dispatch them to a Machine.
type Action interface {
	actionName() string
}

type (
	// SelectImage chooses a photo by locator.
	SelectImage struct{ URI string }
	// AddImage delivers decoded photo pixels.
	AddImage struct{ Photo image.Image }
	// AddSticker overlays a catalog sticker. Image may be left nil for the
	// Machine to resolve through its StickerSource.
	AddSticker struct {
		ID    string
		Image image.Image
	}
	// ChangeColor sets the color of subsequent strokes.
	ChangeColor struct{ Color color.RGBA }
	// BeginNewStroke starts a drag gesture.
	BeginNewStroke struct{}
	// DrawStroke extends the stroke in progress.
	DrawStroke struct{ Point stroke.Point }
	// CompleteStroke commits the stroke in progress.
	CompleteStroke struct{}
	// ClearCanvas removes strokes and sticker and keeps the photo.
	ClearCanvas struct{}
	// DiscardImage returns to the empty canvas.
	DiscardImage struct{}
)

func (SelectImage) actionName() string    { return "select-image" }
func (AddImage) actionName() string       { return "add-image" }
func (AddSticker) actionName() string     { return "add-sticker" }
func (ChangeColor) actionName() string    { return "change-color" }
func (BeginNewStroke) actionName() string { return "begin-stroke" }
func (DrawStroke) actionName() string     { return "draw-stroke" }
func (CompleteStroke) actionName() string { return "complete-stroke" }
func (ClearCanvas) actionName() string    { return "clear-canvas" }
func (DiscardImage) actionName() string   { return "discard-image" }

// ActionName returns a stable, human readable name for a.
func ActionName(a Action) string {
	if a == nil {
		return "nil"
	}
	return a.actionName()
}
