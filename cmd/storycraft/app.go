package main

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"

	"github.com/example/storycraft/internal/config"
	"github.com/example/storycraft/internal/editor"
	"github.com/example/storycraft/internal/export"
	"github.com/example/storycraft/internal/notify"
	"github.com/example/storycraft/internal/photo"
	"github.com/example/storycraft/internal/render"
	"github.com/example/storycraft/internal/share"
	"github.com/example/storycraft/internal/sticker"
)

var errNothingToExport = errors.New("no photo to export")

var (
	loadConfig = func(path string) (*config.Config, error) {
		return config.NewLoader(version, path).Load()
	}
	newPhotoSource = func() photo.Source { return photo.NewLoader() }
	lookupTarget   = share.Lookup
)

// app wires the editor to its collaborators for one command invocation.
type app struct {
	cfg      *config.Config
	machine  *editor.Machine
	catalog  *sticker.Catalog
	photos   photo.Source
	notifier *notify.Notifier

	stickerAt *image.Point

	// Result of the last export; dirty is set by any edit made after it.
	lastPath  string
	lastImage image.Image
	dirty     bool
}

func currentConfig() (*config.Config, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err == nil {
		return cfg, nil
	}
	if opts.ConfigPath != "" {
		return nil, err
	}
	log.Warn().Err(err).Msg("using default configuration")
	return config.New(), nil
}

func newApp() (*app, error) {
	cfg, err := currentConfig()
	if err != nil {
		return nil, err
	}
	catalog, err := sticker.New(sticker.WithDir(cfg.StickerDir))
	if err != nil {
		return nil, err
	}
	if err := catalog.Preload(); err != nil {
		log.Warn().Err(err).Msg("some stickers could not be loaded")
	}
	n := notify.New(notify.LoadPreferences(nil))
	n.Enable(notify.EventSave, cfg.Notify.Save)
	n.Enable(notify.EventShare, cfg.Notify.Share)

	return &app{
		cfg:      cfg,
		machine:  editor.New(editor.WithStickers(catalog), editor.WithThickness(float32(cfg.Thickness))),
		catalog:  catalog,
		photos:   newPhotoSource(),
		notifier: n,
		dirty:    true,
	}, nil
}

func (a *app) shadow() *render.Shadow {
	s := render.DefaultShadow()
	return &s
}

func (a *app) renderOptions() render.Options {
	return render.Options{
		Size:       image.Pt(a.cfg.Canvas.Width, a.cfg.Canvas.Height),
		Background: a.cfg.Canvas.Background.Value(),
		StickerAt:  a.stickerAt,
		Shadow:     a.shadow(),
	}
}

// load decodes the picked photo and hands it to the editor.
func (a *app) load(ctx context.Context) error {
	picked, ok := a.machine.State().(editor.PhotoPicked)
	if !ok {
		return errors.New("no photo selected")
	}
	img, err := a.photos.Load(ctx, picked.URI)
	if err != nil {
		return err
	}
	a.machine.Dispatch(editor.AddImage{Photo: img})
	return nil
}

// export renders the drawing to path, or to a fresh file in the save
// directory when path is empty.
func (a *app) export(ctx context.Context, path string) (string, error) {
	st, ok := a.machine.State().(editor.PhotoWithDrawing)
	if !ok {
		return "", errNothingToExport
	}
	return a.save(ctx, render.Composite(st, a.renderOptions()), path)
}

func (a *app) save(ctx context.Context, img image.Image, path string) (string, error) {
	eo, err := a.cfg.ExportOptions()
	if err != nil {
		return "", err
	}
	if path == "" {
		path, err = export.Save(img, a.cfg.ResolvedSaveDir(), eo)
	} else {
		err = export.WriteFile(img, path, export.Options{Quality: eo.Quality})
	}
	if err != nil {
		return "", err
	}
	log.Debug().Str("path", path).Msg("exported")
	a.lastPath, a.lastImage, a.dirty = path, img, false
	a.notifier.Save(ctx, path)
	return path, nil
}

// share sends the current drawing to the named target, exporting it first
// when it changed since the last export. An empty name uses the configured
// target.
func (a *app) share(ctx context.Context, name string) (share.Target, error) {
	if name == "" {
		name = a.cfg.Share.Target
	}
	t, err := lookupTarget(name)
	if err != nil {
		return nil, err
	}
	if a.dirty || a.lastImage == nil {
		if _, err := a.export(ctx, ""); err != nil {
			return nil, err
		}
	}
	if err := t.Share(ctx, share.Item{Image: a.lastImage, Path: a.lastPath}); err != nil {
		return nil, fmt.Errorf("share to %s: %w", t.Name(), err)
	}
	a.notifier.Share(ctx, t.Name(), a.lastPath)
	return t, nil
}

// exportAndShare saves img and passes it to the configured share target.
// Share failures are logged; the saved path is still returned.
func (a *app) exportAndShare(ctx context.Context, img image.Image) (string, error) {
	path, err := a.save(ctx, img, "")
	if err != nil {
		return "", err
	}
	if a.cfg.Share.Target == "" {
		return path, nil
	}
	t, err := lookupTarget(a.cfg.Share.Target)
	if err == nil {
		err = t.Share(ctx, share.Item{Image: img, Path: path})
	}
	if err != nil {
		log.Warn().Err(err).Str("target", a.cfg.Share.Target).Msg("share failed")
		return path, nil
	}
	a.notifier.Share(ctx, t.Name(), path)
	return path, nil
}
