// Package render draws editor states into RGBA images.
package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/storycraft/internal/editor"
)

// Options controls Composite.
type Options struct {
	// Size is the canvas size. Zero means the photo's own size, in which
	// case stroke coordinates are photo pixels.
	Size image.Point
	// Background fills the canvas around a letterboxed photo. Nil means
	// opaque black.
	Background color.Color
	// StickerAt is the centre of the sticker on the canvas. Nil centres it.
	StickerAt *image.Point
	// Shadow, when set, gives the sticker a drop shadow.
	Shadow *Shadow
	// Scaler resamples the photo when it does not match the canvas. Nil
	// means Catmull-Rom.
	Scaler xdraw.Scaler
}

// CanvasSize returns the canvas size Composite will produce for photo.
func (o Options) CanvasSize(photo image.Image) image.Point {
	if o.Size.X > 0 && o.Size.Y > 0 {
		return o.Size
	}
	if photo == nil {
		return image.Point{}
	}
	return photo.Bounds().Size()
}

// FitRect returns the largest rectangle with src's aspect ratio that fits
// inside area, centred in it.
func FitRect(src image.Point, area image.Rectangle) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 || area.Empty() {
		return image.Rectangle{}
	}
	w, h := area.Dx(), area.Dy()
	if src.X*h > src.Y*w {
		h = max(src.Y*w/src.X, 1)
	} else {
		w = max(src.X*h/src.Y, 1)
	}
	origin := area.Min.Add(image.Pt((area.Dx()-w)/2, (area.Dy()-h)/2))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}
}

// StickerRect returns where Composite places a sticker of size sz on a
// canvas of the given size.
func StickerRect(canvas image.Point, sz image.Point, at *image.Point) image.Rectangle {
	sz = stickerSize(canvas, sz)
	centre := image.Pt(canvas.X/2, canvas.Y/2)
	if at != nil {
		centre = *at
	}
	origin := centre.Sub(image.Pt(sz.X/2, sz.Y/2))
	return image.Rectangle{Min: origin, Max: origin.Add(sz)}
}

// stickerSize shrinks sz to at most half the canvas in each direction.
func stickerSize(canvas, sz image.Point) image.Point {
	limit := image.Pt(max(canvas.X/2, 1), max(canvas.Y/2, 1))
	if sz.X <= limit.X && sz.Y <= limit.Y {
		return sz
	}
	return FitRect(sz, image.Rectangle{Max: limit}).Size()
}

// Composite renders d: the photo fitted and centred, the sticker, the
// committed strokes in order and finally the stroke in progress.
func Composite(d editor.PhotoWithDrawing, opts Options) *image.RGBA {
	size := opts.CanvasSize(d.Photo)
	dst := image.NewRGBA(image.Rectangle{Max: size})
	bg := opts.Background
	if bg == nil {
		bg = color.Black
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	if d.Photo != nil {
		drawPhoto(dst, d.Photo, opts.Scaler)
	}
	if d.Sticker != nil && d.Sticker.Image != nil {
		drawSticker(dst, d.Sticker.Image, opts)
	}
	for _, s := range d.Strokes.All() {
		PaintStroke(dst, s)
	}
	PaintStroke(dst, d.CurrentStroke)
	return dst
}

func drawPhoto(dst *image.RGBA, photo image.Image, scaler xdraw.Scaler) {
	pb := photo.Bounds()
	fit := FitRect(pb.Size(), dst.Bounds())
	if fit.Size() == pb.Size() {
		draw.Draw(dst, fit, photo, pb.Min, draw.Over)
		return
	}
	if scaler == nil {
		scaler = xdraw.CatmullRom
	}
	scaler.Scale(dst, fit, photo, pb, xdraw.Over, nil)
}

func drawSticker(dst *image.RGBA, img image.Image, opts Options) {
	rect := StickerRect(dst.Bounds().Size(), img.Bounds().Size(), opts.StickerAt)
	if rect.Size() != img.Bounds().Size() {
		scaled := image.NewRGBA(image.Rectangle{Max: rect.Size()})
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img = scaled
	}
	if opts.Shadow != nil {
		shaded, shift := DropShadow(img, *opts.Shadow)
		origin := rect.Min.Sub(shift)
		draw.Draw(dst, shaded.Bounds().Add(origin), shaded, image.Point{}, draw.Over)
		return
	}
	draw.Draw(dst, rect, img, img.Bounds().Min, draw.Over)
}
