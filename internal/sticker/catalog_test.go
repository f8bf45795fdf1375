package sticker

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T, opts ...Option) *Catalog {
	t.Helper()
	c, err := New(append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestBuiltinIDs(t *testing.T) {
	c := newTestCatalog(t)
	assert.Equal(t, []string{"heart", "star", "circle", "wow", "love", "omg"}, c.IDs())
}

func TestBuiltinShapesAreOpaqueInTheMiddle(t *testing.T) {
	c := newTestCatalog(t, WithSize(64))
	for _, id := range []string{"heart", "star", "circle"} {
		img, err := c.Sticker(id)
		require.NoError(t, err, id)
		assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds(), id)
		_, _, _, a := img.At(32, 36).RGBA()
		assert.Equal(t, uint32(0xffff), a, "%s centre alpha", id)
		_, _, _, a = img.At(0, 63).RGBA()
		assert.Zero(t, a, "%s corner alpha", id)
	}
}

func TestBadgeHasText(t *testing.T) {
	c := newTestCatalog(t, WithSize(100))
	img, err := c.Sticker("wow")
	require.NoError(t, err)
	b := img.Bounds()
	assert.Equal(t, 50, b.Dy())
	assert.Greater(t, b.Dx(), b.Dy())

	white := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, g, bl, _ := img.At(x, y).RGBA(); r == 0xffff && g == 0xffff && bl == 0xffff {
				white++
			}
		}
	}
	assert.Greater(t, white, 20, "expected white glyph pixels")
}

func TestStickerIsCached(t *testing.T) {
	c := newTestCatalog(t)
	a, err := c.Sticker("star")
	require.NoError(t, err)
	b, err := c.Sticker("star")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestUnknownSticker(t *testing.T) {
	_, err := newTestCatalog(t).Sticker("unicorn")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestDirectoryStickers(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	for _, name := range []string{"cat.png", "heart.png"} {
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("junk"), 0o644))

	c := newTestCatalog(t, WithDir(dir))
	ids := c.IDs()
	assert.Contains(t, ids, "cat")
	assert.Contains(t, ids, "broken")
	assert.NotContains(t, ids, "notes")
	assert.Equal(t, 1, countOf(ids, "heart"), "built-in ids win")

	cat, err := c.Sticker("cat")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), cat.Bounds())

	_, err = c.Sticker("broken")
	assert.Error(t, err)
}

func TestPreload(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	f, err := os.Create(filepath.Join(dir, "cat.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("junk"), 0o644))

	c := newTestCatalog(t, WithDir(dir), WithSize(16))
	err = c.Preload()
	assert.ErrorContains(t, err, "broken")

	require.NoError(t, os.Remove(filepath.Join(dir, "cat.png")))
	cat, err := c.Sticker("cat")
	require.NoError(t, err, "served from the cache after the file is gone")
	assert.Equal(t, image.Rect(0, 0, 2, 2), cat.Bounds())
	assert.Len(t, c.cache, len(c.IDs())-1)
}

func TestMissingDirectory(t *testing.T) {
	_, err := New(WithDir(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, err)
}

func TestNext(t *testing.T) {
	c := newTestCatalog(t)
	assert.Equal(t, "heart", c.Next(""))
	assert.Equal(t, "star", c.Next("heart"))
	assert.Equal(t, "heart", c.Next("omg"))
}

func countOf(ids []string, id string) int {
	n := 0
	for _, v := range ids {
		if v == id {
			n++
		}
	}
	return n
}
