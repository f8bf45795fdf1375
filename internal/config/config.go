// Package config loads storycraft settings from rc or YAML files.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/storycraft/internal/export"
	"github.com/example/storycraft/internal/stroke"
)

// Notify holds notification settings.
type Notify struct {
	Save  bool `yaml:"save"`
	Share bool `yaml:"share"`
}

// Canvas describes the editing surface. A zero size means the photo's own
// size.
type Canvas struct {
	Width      int   `yaml:"width"`
	Height     int   `yaml:"height"`
	Background Color `yaml:"background"`
}

// Share selects the default share target.
type Share struct {
	Target string `yaml:"target"`
}

// Config holds the application configuration.
type Config struct {
	SaveDir    string  `yaml:"save_dir"`
	StickerDir string  `yaml:"sticker_dir"`
	Format     string  `yaml:"format"`
	Quality    int     `yaml:"quality"`
	Thickness  float64 `yaml:"thickness"`
	Canvas     Canvas  `yaml:"canvas"`
	Notify     Notify  `yaml:"notify"`
	Share      Share   `yaml:"share"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Format:    string(export.PNG),
		Quality:   export.DefaultQuality,
		Thickness: float64(stroke.DefaultThickness),
		Canvas:    Canvas{Background: Color{A: 255}},
		Share:     Share{Target: "clipboard"},
	}
}

// Color is a color.RGBA written as #RRGGBB[AA] or a color name.
type Color color.RGBA

// Value returns c as a color.RGBA.
func (c Color) Value() color.RGBA { return color.RGBA(c) }

func (c Color) String() string { return stroke.ColorName(color.RGBA(c)) }

func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := stroke.LookupColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = Color(v)
	return nil
}

func (c Color) MarshalYAML() (interface{}, error) { return c.String(), nil }

// ExportOptions returns the configured export settings.
func (c *Config) ExportOptions() (export.Options, error) {
	f, err := export.ParseFormat(c.Format)
	if err != nil {
		return export.Options{}, err
	}
	return export.Options{Format: f, Quality: c.Quality}, nil
}

// ResolvedSaveDir returns SaveDir, or ~/Pictures/storycraft when unset.
func (c *Config) ResolvedSaveDir() string {
	if c.SaveDir != "" {
		return expandHome(c.SaveDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Pictures", "storycraft")
}

// ApplyEnv overrides settings from STORYCRAFT_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("STORYCRAFT_SAVE_DIR"); v != "" {
		c.SaveDir = v
	}
	if v := getenv("STORYCRAFT_SHARE_TARGET"); v != "" {
		c.Share.Target = v
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if _, err := export.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("quality %d out of range 0-100", c.Quality)
	}
	if c.Thickness < 0 {
		return fmt.Errorf("thickness must not be negative")
	}
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return fmt.Errorf("canvas size must not be negative")
	}
	return nil
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.StickerDir != "" {
		fmt.Fprintf(&sb, "sticker_dir = %s\n", c.StickerDir)
	}
	fmt.Fprintf(&sb, "format = %s\n", c.Format)
	fmt.Fprintf(&sb, "quality = %d\n", c.Quality)
	fmt.Fprintf(&sb, "thickness = %g\n", c.Thickness)
	sb.WriteString("\n[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "background = %s\n", c.Canvas.Background)
	sb.WriteString("\n[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "share = %v\n", c.Notify.Share)
	sb.WriteString("\n[share]\n")
	fmt.Fprintf(&sb, "target = %s\n", c.Share.Target)
	return sb.String()
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}
