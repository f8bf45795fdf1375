package render

import (
	"image"
	"math"

	"golang.org/x/image/vector"

	"github.com/example/storycraft/internal/stroke"
)

// PaintStroke draws s onto dst: consecutive points joined by a line of the
// stroke's thickness, with round caps and joins. A single point paints a
// dot of that diameter; a stroke without points paints nothing.
func PaintStroke(dst *image.RGBA, s *stroke.Stroke) {
	if s == nil || s.Len() == 0 {
		return
	}
	area := s.Bounds().Intersect(dst.Bounds())
	if area.Empty() {
		return
	}
	z := vector.NewRasterizer(area.Dx(), area.Dy())
	off := stroke.Pt(float32(area.Min.X), float32(area.Min.Y))
	r := s.Thickness() / 2

	// Every sub-path is wound the same way so that overlaps saturate
	// instead of cancelling.
	var prev stroke.Point
	for i, p := range s.Path().All() {
		p = stroke.Pt(p.X-off.X, p.Y-off.Y)
		disc(z, p, r)
		if i > 0 {
			segment(z, prev, p, r)
		}
		prev = p
	}
	z.Draw(dst, area, image.NewUniform(s.Color()), image.Point{})
}

func disc(z *vector.Rasterizer, c stroke.Point, r float32) {
	n := discSides(r)
	z.MoveTo(c.X+r, c.Y)
	for i := 1; i < n; i++ {
		a := -2 * math.Pi * float64(i) / float64(n)
		z.LineTo(c.X+r*float32(math.Cos(a)), c.Y+r*float32(math.Sin(a)))
	}
	z.ClosePath()
}

func discSides(r float32) int {
	n := int(math.Ceil(float64(r) * 2))
	return min(max(n, 12), 96)
}

func segment(z *vector.Rasterizer, a, b stroke.Point, r float32) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*r, dx/l*r
	z.MoveTo(a.X+nx, a.Y+ny)
	z.LineTo(b.X+nx, b.Y+ny)
	z.LineTo(b.X-nx, b.Y-ny)
	z.LineTo(a.X-nx, a.Y-ny)
	z.ClosePath()
}
