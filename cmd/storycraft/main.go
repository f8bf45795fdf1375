// Command storycraft decorates photos with strokes and stickers.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	version = "dev"
	commit  = ""
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// Options holds the global flags and the command tree.
type Options struct {
	ConfigPath string `short:"c" long:"config" description:"Read configuration from this file" value-name:"<file>"`
	LogLevel   string `long:"log-level" description:"Minimum level of log messages" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"warn"`
	Verbose    bool   `short:"v" long:"verbose" description:"Log at debug level"`

	Edit     EditCommand     `command:"edit" description:"Run an edit script against a photo"`
	Window   WindowCommand   `command:"window" description:"Open the interactive editor window"`
	Stickers StickersCommand `command:"stickers" description:"List the sticker catalog"`
	Colors   ColorsCommand   `command:"colors" description:"List the stroke palette"`
	Config   ConfigCommand   `command:"config" description:"Show or save the configuration"`
	Version  VersionCommand  `command:"version" description:"Print the program version"`
}

var opts Options

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr})
	opts = Options{}

	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "storycraft"
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		setupLogging(stderr)
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}

	_, err := parser.ParseArgs(args)
	if err == nil {
		return 0
	}
	if flags.WroteHelp(err) {
		fmt.Fprintln(stdout, err)
		return 0
	}
	var ferr *flags.Error
	var uerr *UsageError
	switch {
	case errors.As(err, &uerr), errors.As(err, &ferr):
		fmt.Fprintln(stderr, err)
		return 2
	}
	fmt.Fprintf(stderr, "storycraft: %v\n", err)
	return 1
}

func setupLogging(w io.Writer) {
	level, err := zerolog.ParseLevel(opts.LogLevel)
	if err != nil || opts.LogLevel == "" {
		level = zerolog.WarnLevel
	}
	if opts.Verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
}

// UsageError reports a command invoked with the wrong arguments.
type UsageError struct {
	Command string
	Msg     string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s\nRun 'storycraft %s --help' for usage.", e.Command, e.Msg, e.Command)
}

// VersionCommand prints the build version.
type VersionCommand struct{}

// Execute implements flags.Commander.
func (*VersionCommand) Execute([]string) error {
	if commit != "" {
		fmt.Fprintf(stdout, "storycraft version %s (%s)\n", version, commit)
		return nil
	}
	fmt.Fprintf(stdout, "storycraft version %s\n", version)
	return nil
}
