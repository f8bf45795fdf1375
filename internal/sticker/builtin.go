package sticker

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

type builtin struct {
	id   string
	draw func(size int) (image.Image, error)
}

var builtins = []builtin{
	{"heart", shape(colornames.Crimson, heartPath)},
	{"star", shape(colornames.Gold, starPath)},
	{"circle", shape(colornames.Deepskyblue, circlePath)},
	{"wow", badge("WOW!", colornames.Darkorange)},
	{"love", badge("LOVE", colornames.Hotpink)},
	{"omg", badge("OMG", colornames.Mediumpurple)},
}

// path adds a closed outline, in units of the sticker size, to z.
type path func(z *vector.Rasterizer, s float32)

func shape(col color.RGBA, p path) func(int) (image.Image, error) {
	return func(size int) (image.Image, error) {
		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		z := vector.NewRasterizer(size, size)
		p(z, float32(size))
		z.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{})
		return dst, nil
	}
}

func heartPath(z *vector.Rasterizer, s float32) {
	z.MoveTo(0.5*s, 0.92*s)
	z.CubeTo(0.08*s, 0.62*s, 0.02*s, 0.28*s, 0.27*s, 0.13*s)
	z.CubeTo(0.40*s, 0.06*s, 0.50*s, 0.16*s, 0.50*s, 0.27*s)
	z.CubeTo(0.50*s, 0.16*s, 0.60*s, 0.06*s, 0.73*s, 0.13*s)
	z.CubeTo(0.98*s, 0.28*s, 0.92*s, 0.62*s, 0.50*s, 0.92*s)
	z.ClosePath()
}

func starPath(z *vector.Rasterizer, s float32) {
	c := s / 2
	for i := 0; i < 10; i++ {
		r := 0.48 * s
		if i%2 == 1 {
			r = 0.2 * s
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		x, y := c+r*float32(math.Cos(a)), c+r*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

func circlePath(z *vector.Rasterizer, s float32) {
	// Four cubic arcs; k places the control points.
	const k = 0.5523
	c, r := s/2, 0.46*s
	z.MoveTo(c+r, c)
	z.CubeTo(c+r, c+k*r, c+k*r, c+r, c, c+r)
	z.CubeTo(c-k*r, c+r, c-r, c+k*r, c-r, c)
	z.CubeTo(c-r, c-k*r, c-k*r, c-r, c, c-r)
	z.CubeTo(c+k*r, c-r, c+r, c-k*r, c+r, c)
	z.ClosePath()
}

var (
	boldOnce sync.Once
	boldFont *opentype.Font
	boldErr  error
)

func boldFace(size float64) (font.Face, error) {
	boldOnce.Do(func() { boldFont, boldErr = opentype.Parse(gobold.TTF) })
	if boldErr != nil {
		return nil, fmt.Errorf("parse badge font: %w", boldErr)
	}
	return opentype.NewFace(boldFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// badge renders text in white on a rounded pill of the given color.
func badge(text string, bg color.RGBA) func(int) (image.Image, error) {
	return func(size int) (image.Image, error) {
		h := max(size/2, 8)
		face, err := boldFace(float64(h) * 0.55)
		if err != nil {
			return nil, err
		}
		defer face.Close()

		d := &font.Drawer{Face: face}
		w := min(d.MeasureString(text).Ceil()+h, size*2)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))

		z := vector.NewRasterizer(w, h)
		pill(z, float32(w), float32(h))
		z.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{})

		m := face.Metrics()
		d.Dst = dst
		d.Src = image.NewUniform(color.White)
		textW := d.MeasureString(text)
		baseline := (fixed.I(h) + m.Ascent - m.Descent) / 2
		d.Dot = fixed.Point26_6{X: (fixed.I(w) - textW) / 2, Y: baseline}
		d.DrawString(text)
		return dst, nil
	}
}

// pill outlines a w×h rectangle with fully rounded ends.
func pill(z *vector.Rasterizer, w, h float32) {
	const k = 0.5523
	r := h / 2
	z.MoveTo(r, 0)
	z.LineTo(w-r, 0)
	z.CubeTo(w-r+k*r, 0, w, r-k*r, w, r)
	z.CubeTo(w, r+k*r, w-r+k*r, h, w-r, h)
	z.LineTo(r, h)
	z.CubeTo(r-k*r, h, 0, r+k*r, 0, r)
	z.CubeTo(0, r-k*r, r-k*r, 0, r, 0)
	z.ClosePath()
}
