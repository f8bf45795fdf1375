package export

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storycraft/internal/photo"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 30), uint8(y * 40), 90, 255})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": PNG, "PNG": PNG, ".jpg": JPEG, "jpeg": JPEG, "bmp": BMP, "tif": TIFF, ".tiff": TIFF}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("gif")
	assert.Error(t, err)
}

func TestSaveNamesAndRoundTrips(t *testing.T) {
	prev := now
	now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local) }
	t.Cleanup(func() { now = prev })

	dir := filepath.Join(t.TempDir(), "out")
	for _, f := range []Format{PNG, JPEG, BMP, TIFF} {
		t.Run(string(f), func(t *testing.T) {
			path, err := Save(testImage(), dir, Options{Format: f})
			require.NoError(t, err)
			pattern := `^IMG_20240309_140507_\d+\` + f.Ext() + `$`
			assert.Regexp(t, regexp.MustCompile(pattern), filepath.Base(path))

			img, err := photo.DecodeFile(path)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())
		})
	}
}

func TestSaveTwiceGivesDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	a, err := Save(testImage(), dir, Options{})
	require.NoError(t, err)
	b, err := Save(testImage(), dir, Options{})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestWriteFileInfersFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.bmp")
	require.NoError(t, WriteFile(testImage(), path, Options{}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BM", string(data[:2]))

	assert.Error(t, WriteFile(testImage(), filepath.Join(t.TempDir(), "shot.xyz"), Options{}))
}

func TestPNGIsLossless(t *testing.T) {
	src := testImage()
	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, WriteFile(src, path, Options{}))
	img, err := photo.DecodeFile(path)
	require.NoError(t, err)
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			r1, g1, b1, a1 := src.At(x, y).RGBA()
			r2, g2, b2, a2 := img.At(x, y).RGBA()
			assert.Equal(t, [4]uint32{r1, g1, b1, a1}, [4]uint32{r2, g2, b2, a2})
		}
	}
}
