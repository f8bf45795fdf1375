//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"image"
	"sync"

	"golang.design/x/clipboard"
)

// backend is the system clipboard; tests replace it.
var backend = struct {
	init  func() error
	read  func(clipboard.Format) []byte
	write func(clipboard.Format, []byte)
}{
	init:  clipboard.Init,
	read:  clipboard.Read,
	write: func(f clipboard.Format, b []byte) { clipboard.Write(f, b) },
}

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = ErrNoDisplay
			return
		}
		initErr = backend.init()
	})
	return initErr
}

// WriteImage puts img on the clipboard as PNG.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := encodeImage(img)
	if err != nil {
		return err
	}
	backend.write(clipboard.FmtImage, data)
	return nil
}

// ReadImage decodes the image on the clipboard.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return decodeImage(backend.read(clipboard.FmtImage))
}

// WriteText places text on the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	backend.write(clipboard.FmtText, []byte(text))
	return nil
}
