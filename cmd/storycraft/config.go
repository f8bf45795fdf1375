package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/example/storycraft/internal/config"
)

// ConfigCommand groups configuration subcommands.
type ConfigCommand struct {
	Print ConfigPrintCommand `command:"print" description:"Print the effective configuration"`
	Save  ConfigSaveCommand  `command:"save" description:"Write the effective configuration to disk"`
}

// ConfigPrintCommand prints the configuration after file and environment
// overrides are applied.
type ConfigPrintCommand struct {
	YAML bool `long:"yaml" description:"Print YAML instead of rc format"`
}

// Execute implements flags.Commander.
func (c *ConfigPrintCommand) Execute([]string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	if !c.YAML {
		fmt.Fprint(stdout, cfg.String())
		return nil
	}
	out, err := cfg.YAML()
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, out)
	return nil
}

// ConfigSaveCommand writes the configuration. The format follows the file
// extension.
type ConfigSaveCommand struct {
	Args struct {
		Path string `positional-arg-name:"PATH" description:"Destination; defaults to the loaded or standard config file"`
	} `positional-args:"yes"`
}

// Execute implements flags.Commander.
func (c *ConfigSaveCommand) Execute([]string) error {
	cfg, err := currentConfig()
	if errors.Is(err, os.ErrNotExist) {
		// -c names the file being created.
		cfg, err = config.New(), nil
	}
	if err != nil {
		return err
	}
	path := c.Args.Path
	if path == "" {
		loader := config.NewLoader(version, opts.ConfigPath)
		if path = loader.GetConfigPath(); path == "" {
			path = loader.DefaultPath()
		}
	}
	if err := config.WriteFile(cfg, path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintf(stdout, "configuration saved to %s\n", path)
	return nil
}
