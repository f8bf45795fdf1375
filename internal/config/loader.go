package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Loader finds and reads the configuration file.
type Loader struct {
	Version      string // Build version; "dev" enables ./.storycraftrc
	OverridePath string // Explicit path from the command line
	Getenv       func(string) string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
		Getenv:       os.Getenv,
	}
}

// Load reads the first configuration file found, applies environment
// overrides and validates the result. With no file, defaults are used.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	if path := l.GetConfigPath(); path != "" {
		var err error
		cfg, err = ReadFile(path)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("path", path).Msg("loaded config")
	} else if l.OverridePath != "" {
		return nil, fmt.Errorf("config %s: %w", l.OverridePath, os.ErrNotExist)
	}
	cfg.ApplyEnv(l.getenv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ReadFile parses path as YAML when it ends in .yaml or .yml and as RC
// otherwise.
func ReadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := parseByExt(path, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func parseByExt(path string, r io.Reader) (*Config, error) {
	if isYAML(path) {
		return ParseYAML(r)
	}
	return Parse(r)
}

// WriteFile stores cfg at path in the format its extension selects,
// creating parent directories.
func WriteFile(cfg *Config, path string) error {
	out := cfg.String()
	if isYAML(path) {
		var err error
		if out, err = cfg.YAML(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out), 0o644)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Dir returns the storycraft directory under the XDG config home.
func (l *Loader) Dir() string {
	if x := l.getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, "storycraft")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "storycraft")
}

// DefaultPath is where `config save` writes when no path is given.
func (l *Loader) DefaultPath() string {
	if l.OverridePath != "" {
		return l.OverridePath
	}
	return filepath.Join(l.Dir(), "config.rc")
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
		return ""
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".storycraftrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	dir := l.Dir()
	for _, name := range []string{"config.rc", "storycraft.rc", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (l *Loader) getenv(key string) string {
	if l.Getenv == nil {
		return os.Getenv(key)
	}
	return l.Getenv(key)
}
