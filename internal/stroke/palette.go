package stroke

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// PaletteColor is a palette entry with its display name.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var palette = []PaletteColor{
	{"Yellow", colornames.Yellow},
	{"Blue", colornames.Blue},
	{"LightGray", colornames.Lightgray},
	{"Black", colornames.Black},
	{"Green", colornames.Lime},
	{"Red", colornames.Red},
	{"Magenta", colornames.Magenta},
}

// Palette returns a copy of the selectable stroke colors in display order.
// The first entry is the default color of a fresh drawing.
func Palette() []color.RGBA {
	out := make([]color.RGBA, len(palette))
	for i, p := range palette {
		out[i] = p.Color
	}
	return out
}

// PaletteColors returns palette entries annotated with their names.
func PaletteColors() []PaletteColor {
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

// DefaultColor is the color a fresh drawing starts with.
func DefaultColor() color.RGBA { return palette[0].Color }

// LookupColor resolves a palette name, an SVG color name or a hex value
// (#rgb, #rrggbb or #rrggbbaa).
func LookupColor(value string) (color.RGBA, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	for _, p := range palette {
		if strings.EqualFold(p.Name, s) {
			return p.Color, nil
		}
	}
	lower := strings.ToLower(s)
	if c, ok := colornames.Map[lower]; ok {
		return c, nil
	}
	if !strings.HasPrefix(lower, "#") {
		return color.RGBA{}, fmt.Errorf("invalid color %q", value)
	}
	alpha := uint8(255)
	if len(lower) == 9 {
		a, err := strconv.ParseUint(lower[7:9], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", value)
		}
		alpha = uint8(a)
		lower = lower[:7]
	}
	c, err := colorful.Hex(lower)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", value, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// ColorName returns the palette name for c, or its hex form.
func ColorName(c color.RGBA) string {
	for _, p := range palette {
		if p.Color == c {
			return p.Name
		}
	}
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
