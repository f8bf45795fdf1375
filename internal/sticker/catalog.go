// Package sticker provides the catalog of overlay images.
package sticker

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/storycraft/internal/photo"
)

// DefaultSize is the edge length, in pixels, of built-in stickers.
const DefaultSize = 220

// ErrUnknown is returned for ids missing from the catalog.
var ErrUnknown = errors.New("unknown sticker")

type entry struct {
	id   string
	load func() (image.Image, error)
}

// Catalog is an ordered set of stickers. Pixels are produced the first
// time an id is requested and cached afterwards. A Catalog is safe for
// concurrent use.
type Catalog struct {
	log     zerolog.Logger
	size    int
	dir     string
	entries []entry

	mu    sync.Mutex
	cache map[string]image.Image
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithSize sets the edge length of built-in stickers.
func WithSize(px int) Option { return func(c *Catalog) { c.size = px } }

// WithDir adds PNG, JPEG and other decodable images from dir, named by
// their file name without extension.
func WithDir(dir string) Option { return func(c *Catalog) { c.dir = dir } }

// WithLogger sets the Catalog's logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Catalog) { c.log = l } }

// New builds a catalog of the built-in stickers followed by any found in
// the configured directory.
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{
		log:   log.Logger.With().Str("component", "sticker").Logger(),
		size:  DefaultSize,
		cache: map[string]image.Image{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.size <= 0 {
		c.size = DefaultSize
	}
	for _, b := range builtins {
		draw := b.draw
		size := c.size
		c.entries = append(c.entries, entry{id: b.id, load: func() (image.Image, error) { return draw(size) }})
	}
	if c.dir != "" {
		if err := c.scanDir(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) scanDir() error {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("sticker dir: %w", err)
	}
	for _, f := range files {
		if f.IsDir() || strings.HasPrefix(f.Name(), ".") {
			continue
		}
		ext := filepath.Ext(f.Name())
		if !slices.Contains(imageExts, strings.ToLower(ext)) {
			continue
		}
		id := strings.TrimSuffix(f.Name(), ext)
		if c.index(id) >= 0 {
			c.log.Warn().Str("sticker", id).Str("file", f.Name()).Msg("duplicate sticker id; skipping file")
			continue
		}
		path := filepath.Join(c.dir, f.Name())
		c.entries = append(c.entries, entry{id: id, load: func() (image.Image, error) { return photo.DecodeFile(path) }})
	}
	return nil
}

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

func (c *Catalog) index(id string) int {
	return slices.IndexFunc(c.entries, func(e entry) bool { return e.id == id })
}

// IDs returns the sticker identifiers in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.id
	}
	return ids
}

// Sticker returns the pixels for id.
func (c *Catalog) Sticker(id string) (image.Image, error) {
	i := c.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.cache[id]; ok {
		return img, nil
	}
	img, err := c.entries[i].load()
	if err != nil {
		return nil, fmt.Errorf("sticker %q: %w", id, err)
	}
	c.log.Debug().Str("sticker", id).Stringer("bounds", img.Bounds()).Msg("sticker loaded")
	c.cache[id] = img
	return img, nil
}

// Preload decodes every sticker into the cache so later Sticker calls do
// no I/O. Stickers that fail to load are skipped and reported together.
func (c *Catalog) Preload() error {
	var errs []error
	for _, e := range c.entries {
		if _, err := c.Sticker(e.id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Next returns the id after current, wrapping around. An unknown or empty
// current yields the first id.
func (c *Catalog) Next(current string) string {
	if len(c.entries) == 0 {
		return ""
	}
	return c.entries[(c.index(current)+1)%len(c.entries)].id
}
