package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Shadow configures the drop shadow cast by a sticker.
type Shadow struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadow returns a soft shadow suited to stickers of a few hundred
// pixels.
func DefaultShadow() Shadow {
	return Shadow{Radius: 6, Offset: image.Pt(4, 6), Opacity: 0.45}
}

// DropShadow returns img over a blurred copy of its alpha channel. The
// result has a zero origin; shift is where img's top-left corner landed
// inside it, so callers draw the result at their intended position minus
// shift.
func DropShadow(img image.Image, opts Shadow) (out *image.RGBA, shift image.Point) {
	src := toRGBA(img)
	if src == nil || src.Bounds().Empty() || opts.Opacity <= 0 {
		return src, image.Point{}
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	sb := src.Bounds()
	padded := sb.Inset(-radius)
	shadowAt := padded.Add(opts.Offset)
	all := sb.Union(shadowAt)

	mask := image.NewGray(padded.Sub(padded.Min))
	for y := sb.Min.Y; y < sb.Max.Y; y++ {
		for x := sb.Min.X; x < sb.Max.X; x++ {
			if a := src.RGBAAt(x, y).A; a != 0 {
				mask.SetGray(x-padded.Min.X, y-padded.Min.Y, color.Gray{Y: a})
			}
		}
	}
	mask = boxBlur(mask, radius)

	out = image.NewRGBA(all.Sub(all.Min))
	shade := image.NewUniform(color.RGBA{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(out, mask.Bounds().Add(shadowAt.Min.Sub(all.Min)), shade, image.Point{}, mask, image.Point{}, draw.Over)
	draw.Draw(out, sb.Sub(all.Min), src, sb.Min, draw.Over)
	return out, sb.Min.Sub(all.Min)
}

// boxBlur runs a separable box filter of the given radius over src.
func boxBlur(src *image.Gray, radius int) *image.Gray {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	tmp := image.NewGray(src.Bounds())
	dst := image.NewGray(src.Bounds())
	if radius <= 0 {
		copy(dst.Pix, src.Pix)
		return dst
	}
	for y := 0; y < h; y++ {
		blurLine(src.Pix[y*src.Stride:], tmp.Pix[y*tmp.Stride:], w, 1, radius)
	}
	for x := 0; x < w; x++ {
		blurLine(tmp.Pix[x:], dst.Pix[x:], h, tmp.Stride, radius)
	}
	return dst
}

// blurLine averages n samples spaced stride apart using a prefix sum.
func blurLine(in, out []uint8, n, stride, radius int) {
	prefix := make([]int, n+1)
	for i := 0; i < n; i++ {
		prefix[i+1] = prefix[i] + int(in[i*stride])
	}
	for i := 0; i < n; i++ {
		lo, hi := max(i-radius, 0), min(i+radius, n-1)
		out[i*stride] = uint8((prefix[hi+1] - prefix[lo]) / (hi - lo + 1))
	}
}

func toRGBA(img image.Image) *image.RGBA {
	if img == nil {
		return nil
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}
