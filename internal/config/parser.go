package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/storycraft/internal/stroke"
)

// Parse reads configuration in RC format from r. Unknown keys are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			key, value, ok = strings.Cut(line, ":")
		}
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section {
		case "":
			err = setRootField(cfg, key, value)
		case "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case "share":
			if key == "target" {
				cfg.Share.Target = value
			}
		}
		if err != nil {
			name := section
			if name == "" {
				name = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, name, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseYAML reads configuration in YAML format from r. Missing keys keep
// their defaults.
func ParseYAML(r io.Reader) (*Config, error) {
	cfg := New()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse yaml config: %w", err)
	}
	return cfg, nil
}

func setRootField(cfg *Config, key, value string) error {
	var err error
	switch key {
	case "save_dir":
		cfg.SaveDir = value
	case "sticker_dir":
		cfg.StickerDir = value
	case "format":
		cfg.Format = value
	case "quality":
		cfg.Quality, err = strconv.Atoi(value)
	case "thickness":
		cfg.Thickness, err = strconv.ParseFloat(value, 64)
	}
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

func setCanvasField(c *Canvas, key, value string) error {
	var err error
	switch key {
	case "width":
		c.Width, err = strconv.Atoi(value)
	case "height":
		c.Height, err = strconv.Atoi(value)
	case "background":
		var col Color
		col, err = parseColor(value)
		if err == nil {
			c.Background = col
		}
	}
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch key {
	case "save":
		n.Save = b
	case "share":
		n.Share = b
	}
	return nil
}

func parseColor(s string) (Color, error) {
	c, err := stroke.LookupColor(s)
	return Color(c), err
}
