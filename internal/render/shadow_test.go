package render

import (
	"image"
	"image/color"
	"testing"
)

func TestDropShadowExpandsBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	subject := image.Pt(5, 5)
	img.Set(subject.X, subject.Y, color.RGBA{R: 255, A: 255})

	opts := Shadow{Radius: 4, Offset: image.Pt(8, 6), Opacity: 0.5}
	out, shift := DropShadow(img, opts)
	if out == nil {
		t.Fatal("expected output image")
	}
	if want := image.Rect(0, 0, 22, 20); !out.Bounds().Eq(want) {
		t.Fatalf("unexpected bounds %v, want %v", out.Bounds(), want)
	}
	if shift != (image.Point{}) {
		t.Fatalf("positive offsets should not move the subject, got %v", shift)
	}
	p := subject.Add(opts.Offset)
	if out.RGBAAt(p.X, p.Y).A == 0 {
		t.Fatalf("expected shadow alpha at %v", p)
	}
}

func TestDropShadowNegativeOffsetShiftsSubject(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	_, shift := DropShadow(img, Shadow{Radius: 1, Offset: image.Pt(-3, -2), Opacity: 1})
	if want := image.Pt(4, 3); shift != want {
		t.Fatalf("shift %v, want %v", shift, want)
	}
}

func TestDropShadowZeroOpacityIsIdentity(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, fill)
		}
	}
	out, _ := DropShadow(img, Shadow{Radius: 12, Offset: image.Pt(20, 10), Opacity: 0})
	if out != img {
		t.Fatal("expected the input image back")
	}
}

func TestDropShadowBlurSpreads(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{A: 255})
	opts := Shadow{Radius: 2, Offset: image.Pt(3, 0), Opacity: 1}

	out, _ := DropShadow(img, opts)
	base := opts.Offset
	if out.RGBAAt(base.X, base.Y).A == 0 {
		t.Fatal("expected alpha at base shadow location")
	}
	if out.RGBAAt(base.X+1, base.Y).A == 0 {
		t.Fatal("expected blurred alpha to reach neighbour")
	}
}

func TestDropShadowAcceptsNonRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	img.Set(1, 1, color.NRGBA{G: 255, A: 255})
	out, _ := DropShadow(img, DefaultShadow())
	if out == nil || out.Bounds().Dx() <= 3 {
		t.Fatalf("unexpected output %v", out)
	}
}
