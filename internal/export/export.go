// Package export writes composited images to disk.
package export

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output image encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 95

var now = time.Now

// ParseFormat accepts a format name or file extension, with or without
// the leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png", "":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tiff", "tif":
		return TIFF, nil
	}
	return "", fmt.Errorf("unknown image format %q", s)
}

// Ext returns the file extension, including the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// Options controls encoding.
type Options struct {
	Format  Format
	Quality int
}

// Encode writes img to w.
func Encode(w io.Writer, img image.Image, opts Options) error {
	switch opts.Format {
	case PNG, "":
		return png.Encode(w, img)
	case JPEG:
		q := opts.Quality
		if q <= 0 || q > 100 {
			q = DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unknown image format %q", opts.Format)
}

// Save writes img into dir under a fresh IMG_yyyyMMdd_HHmmss_<n> name and
// returns the path. The directory is created when missing.
func Save(img image.Image, dir string, opts Options) (string, error) {
	if opts.Format == "" {
		opts.Format = PNG
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}
	prefix := "IMG_" + now().Format("20060102_150405") + "_"
	f, err := os.CreateTemp(dir, prefix+"*"+opts.Format.Ext())
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if err := write(f, img, opts); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// WriteFile writes img to path. An empty opts.Format is inferred from the
// path's extension.
func WriteFile(img image.Image, path string, opts Options) error {
	if opts.Format == "" {
		f, err := ParseFormat(filepath.Ext(path))
		if err != nil {
			return err
		}
		opts.Format = f
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	return write(f, img, opts)
}

func write(f *os.File, img image.Image, opts Options) error {
	w := bufio.NewWriter(f)
	err := Encode(w, img, opts)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", f.Name(), err)
	}
	return nil
}
