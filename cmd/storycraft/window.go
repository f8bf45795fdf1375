package main

import (
	"image"

	"github.com/example/storycraft/internal/appstate"
	"github.com/example/storycraft/internal/editor"
)

var runWindow = func(w *appstate.Window) error { return w.Run() }

// WindowCommand opens the editor window.
type WindowCommand struct {
	Width  int `long:"width" description:"Initial window width" default:"540"`
	Height int `long:"height" description:"Initial window height" default:"960"`
	Args   struct {
		Photo string `positional-arg-name:"PHOTO" description:"Photo locator to open"`
	} `positional-args:"yes"`
}

// Execute implements flags.Commander.
func (c *WindowCommand) Execute([]string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	w := appstate.New(a.machine,
		appstate.WithSize(image.Pt(c.Width, c.Height)),
		appstate.WithStickers(a.catalog),
		appstate.WithPhotos(a.photos),
		appstate.WithExport(a.exportAndShare),
		appstate.WithBackground(a.cfg.Canvas.Background.Value()),
		appstate.WithShadow(a.shadow()),
	)
	if c.Args.Photo != "" {
		a.machine.Dispatch(editor.SelectImage{URI: c.Args.Photo})
	}
	return runWindow(w)
}
