package main

import (
	"fmt"

	"github.com/example/storycraft/internal/sticker"
	"github.com/example/storycraft/internal/stroke"
)

// StickersCommand lists sticker ids in catalog order.
type StickersCommand struct {
	Dir string `long:"dir" description:"Also list stickers from this directory" value-name:"<dir>"`
}

// Execute implements flags.Commander.
func (c *StickersCommand) Execute([]string) error {
	dir := c.Dir
	if dir == "" {
		cfg, err := currentConfig()
		if err != nil {
			return err
		}
		dir = cfg.StickerDir
	}
	catalog, err := sticker.New(sticker.WithDir(dir))
	if err != nil {
		return err
	}
	for _, id := range catalog.IDs() {
		fmt.Fprintln(stdout, id)
	}
	return nil
}

// ColorsCommand prints the stroke palette.
type ColorsCommand struct{}

// Execute implements flags.Commander.
func (*ColorsCommand) Execute([]string) error {
	for i, p := range stroke.PaletteColors() {
		c := p.Color
		fmt.Fprintf(stdout, "%d  %-10s #%02x%02x%02x\n", i+1, p.Name, c.R, c.G, c.B)
	}
	return nil
}
