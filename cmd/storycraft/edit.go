package main

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/storycraft/internal/editor"
	"github.com/example/storycraft/internal/stroke"
)

// EditCommand runs an edit script. Each line holds one command:
//
//	select LOCATOR     choose a photo
//	load [LOCATOR]     decode the chosen (or given) photo
//	color NAME|#HEX    set the stroke color
//	begin              start a stroke
//	draw X Y           add a point to the stroke
//	end                finish the stroke
//	sticker ID         overlay a sticker
//	move X Y           centre the sticker at X,Y
//	clear              remove strokes and sticker
//	discard            drop the photo
//	export [PATH]      write the result
//	share [TARGET]     export if needed and share
//	state              print the editor state
//
// Blank lines and lines starting with # are ignored.
type EditCommand struct {
	Photo       string `short:"p" long:"photo" description:"Load this photo before running the script" value-name:"<locator>"`
	Interactive bool   `short:"i" long:"interactive" description:"Prompt for each command"`
	Args        struct {
		Script string `positional-arg-name:"SCRIPT" description:"Script file; empty or - reads standard input"`
	} `positional-args:"yes"`
}

// Execute implements flags.Commander.
func (c *EditCommand) Execute(args []string) error {
	if len(args) > 0 {
		return &UsageError{Command: "edit", Msg: "unexpected argument " + strconv.Quote(args[0])}
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	in := stdin
	if p := c.Args.Script; p != "" && p != "-" {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	ctx := context.Background()
	s := &script{app: a, out: stdout}
	if c.Photo != "" {
		if err := s.exec(ctx, "load", c.Photo); err != nil {
			return err
		}
	}
	return s.run(ctx, in, c.Interactive)
}

type script struct {
	app *app
	out io.Writer
}

func (s *script) run(ctx context.Context, r io.Reader, prompt bool) error {
	sc := bufio.NewScanner(r)
	for n := 1; ; n++ {
		if prompt {
			fmt.Fprint(s.out, "> ")
		}
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		verb, rest, _ := strings.Cut(line, " ")
		if err := s.exec(ctx, strings.ToLower(verb), strings.TrimSpace(rest)); err != nil {
			if prompt {
				fmt.Fprintf(s.out, "error: %v\n", err)
				continue
			}
			return fmt.Errorf("line %d: %s: %w", n, verb, err)
		}
	}
	return sc.Err()
}

func (s *script) exec(ctx context.Context, verb, arg string) error {
	m := s.app.machine
	switch verb {
	case "select":
		if arg == "" {
			return fmt.Errorf("missing photo locator")
		}
		m.Dispatch(editor.SelectImage{URI: arg})
	case "load":
		if arg != "" {
			m.Dispatch(editor.SelectImage{URI: arg})
		}
		if err := s.app.load(ctx); err != nil {
			return err
		}
	case "color":
		c, err := stroke.LookupColor(arg)
		if err != nil {
			return err
		}
		m.Dispatch(editor.ChangeColor{Color: c})
	case "begin":
		m.Dispatch(editor.BeginNewStroke{})
	case "draw":
		x, y, err := parseXY(arg)
		if err != nil {
			return err
		}
		m.Dispatch(editor.DrawStroke{Point: stroke.Pt(x, y)})
	case "end":
		m.Dispatch(editor.CompleteStroke{})
	case "sticker":
		if arg == "" {
			return fmt.Errorf("missing sticker id")
		}
		if _, err := s.app.catalog.Sticker(arg); err != nil {
			return err
		}
		m.Dispatch(editor.AddSticker{ID: arg})
	case "move":
		x, y, err := parseXY(arg)
		if err != nil {
			return err
		}
		at := image.Pt(int(x), int(y))
		s.app.stickerAt = &at
	case "clear":
		m.Dispatch(editor.ClearCanvas{})
		s.app.stickerAt = nil
	case "discard":
		m.Dispatch(editor.DiscardImage{})
		s.app.stickerAt = nil
	case "export":
		path, err := s.app.export(ctx, arg)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, path)
		return nil
	case "share":
		t, err := s.app.share(ctx, arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "shared to %s\n", t.Name())
		return nil
	case "state":
		fmt.Fprintln(s.out, editor.Describe(m.State()))
		return nil
	default:
		return fmt.Errorf("unknown command")
	}
	s.app.dirty = true
	return nil
}

func parseXY(arg string) (x, y float32, err error) {
	f := strings.Fields(strings.ReplaceAll(arg, ",", " "))
	if len(f) != 2 {
		return 0, 0, fmt.Errorf("want X Y, got %q", arg)
	}
	fx, err := strconv.ParseFloat(f[0], 32)
	if err != nil {
		return 0, 0, err
	}
	fy, err := strconv.ParseFloat(f[1], 32)
	if err != nil {
		return 0, 0, err
	}
	return float32(fx), float32(fy), nil
}
