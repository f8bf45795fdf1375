package editor

import (
	"github.com/example/storycraft/internal/stroke"
)

// Rules holds the tunables the reducer consults.
type Rules struct {
	// Thickness is the line width given to strokes started by
	// BeginNewStroke. Zero means stroke.DefaultThickness.
	Thickness float32
}

// Reduce computes the state that follows st when a is applied, using
// default Rules.
func Reduce(st State, a Action) State {
	return Rules{}.Reduce(st, a)
}

// Reduce computes the state that follows st when a is applied.
//
// Reduce is total: an action whose precondition does not hold returns st
// unchanged. The transitions are:
//
//	SelectImage     any state          -> PhotoPicked
//	AddImage        nil photo          -> unchanged
//	                PhotoWithDrawing   -> same drawing, photo replaced
//	                otherwise          -> fresh PhotoWithDrawing
//	DiscardImage    any state          -> EmptyCanvas
//	AddSticker      PhotoWithDrawing   -> sticker replaced
//	ChangeColor     PhotoWithDrawing   -> current color replaced
//	BeginNewStroke  PhotoWithDrawing   -> new current stroke
//	DrawStroke      stroke in progress -> point appended
//	CompleteStroke  stroke in progress -> stroke committed
//	ClearCanvas     PhotoWithDrawing   -> strokes and sticker removed
func (r Rules) Reduce(st State, a Action) State {
	if st == nil {
		st = EmptyCanvas{}
	}
	switch a := a.(type) {
	case SelectImage:
		return PhotoPicked{URI: a.URI}
	case AddImage:
		if a.Photo == nil {
			return st
		}
		if d, ok := st.(PhotoWithDrawing); ok {
			d.Photo = a.Photo
			return d
		}
		return newDrawing(a.Photo)
	case DiscardImage:
		return EmptyCanvas{}
	}

	d, ok := st.(PhotoWithDrawing)
	if !ok {
		return st
	}
	switch a := a.(type) {
	case AddSticker:
		d.Sticker = &Sticker{ID: a.ID, Image: a.Image}
	case ChangeColor:
		d.CurrentColor = a.Color
	case BeginNewStroke:
		d.CurrentStroke = stroke.BeginWithThickness(d.CurrentColor, r.Thickness)
	case DrawStroke:
		if d.CurrentStroke == nil {
			return st
		}
		d.CurrentStroke = stroke.AppendPoint(d.CurrentStroke, a.Point)
	case CompleteStroke:
		if d.CurrentStroke == nil {
			return st
		}
		d.Strokes = d.Strokes.Append(stroke.Finalize(d.CurrentStroke))
		d.CurrentStroke = nil
	case ClearCanvas:
		d.Strokes = stroke.Seq[*stroke.Stroke]{}
		d.CurrentStroke = nil
		d.Sticker = nil
	default:
		return st
	}
	return d
}
