// Package stroke models freehand strokes drawn over a photo.
//
// Every value in this package is immutable once constructed. Operations
// such as AppendPoint return new values, which lets the editor publish
// snapshots to other goroutines without copying.
package stroke

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/google/uuid"
)

// DefaultThickness is the line width, in canvas pixels, used for new strokes.
const DefaultThickness float32 = 12

// newID generates stroke identifiers.
var newID = uuid.NewString

// Point is a position on the canvas.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Stroke is one continuous drag gesture.
type Stroke struct {
	id        string
	color     color.RGBA
	thickness float32
	points    Seq[Point]
	final     bool
}

// Begin starts an empty stroke in color c with the default thickness.
func Begin(c color.RGBA) *Stroke {
	return BeginWithThickness(c, DefaultThickness)
}

// BeginWithThickness starts an empty stroke in color c. Non-positive
// thickness falls back to DefaultThickness.
func BeginWithThickness(c color.RGBA, thickness float32) *Stroke {
	if thickness <= 0 {
		thickness = DefaultThickness
	}
	return &Stroke{id: newID(), color: c, thickness: thickness}
}

// AppendPoint returns a copy of s with p added to the end of its points.
// A nil stroke stays nil.
func AppendPoint(s *Stroke, p Point) *Stroke {
	if s == nil {
		return nil
	}
	next := *s
	next.points = s.points.Append(p)
	return &next
}

// Finalize marks s as complete. Geometry is unchanged.
func Finalize(s *Stroke) *Stroke {
	if s == nil || s.final {
		return s
	}
	next := *s
	next.final = true
	return &next
}

// ID returns the unique identifier assigned when the stroke began.
func (s *Stroke) ID() string { return s.id }

// Color returns the color captured when the stroke began.
func (s *Stroke) Color() color.RGBA { return s.color }

// Thickness returns the line width.
func (s *Stroke) Thickness() float32 { return s.thickness }

// Final reports whether the stroke has been finalized.
func (s *Stroke) Final() bool { return s.final }

// Len returns the number of points.
func (s *Stroke) Len() int { return s.points.Len() }

// At returns the i-th point.
func (s *Stroke) At(i int) Point { return s.points.At(i) }

// Points returns a copy of the points in drawing order.
func (s *Stroke) Points() []Point { return s.points.Slice() }

// Path exposes the underlying point sequence without copying.
func (s *Stroke) Path() Seq[Point] { return s.points }

// Bounds returns the pixel rectangle the rendered stroke can touch,
// including half the thickness on every side. It is empty for a stroke
// without points.
func (s *Stroke) Bounds() image.Rectangle {
	if s.points.Len() == 0 {
		return image.Rectangle{}
	}
	first := s.points.At(0)
	minX, minY, maxX, maxY := first.X, first.Y, first.X, first.Y
	for _, p := range s.points.All() {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	r := s.thickness / 2
	return image.Rect(
		int(math.Floor(float64(minX-r))), int(math.Floor(float64(minY-r))),
		int(math.Ceil(float64(maxX+r))), int(math.Ceil(float64(maxY+r))),
	)
}

func (s *Stroke) String() string {
	return fmt.Sprintf("stroke %s (%d points, #%02x%02x%02x, %g px)", s.id, s.points.Len(), s.color.R, s.color.G, s.color.B, s.thickness)
}
