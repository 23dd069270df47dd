// Package config loads stickies settings.
//
// Priority: flags > environment (STICKIES_*) > TOML file > defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "STICKIES_"

type Config struct {
	// SaveDirectory is where bare file names are saved and opened.
	SaveDirectory string `koanf:"save_directory"`
	LogFile       string `koanf:"log_file"`
	LogLevel      string `koanf:"log_level"`
	Watch         bool   `koanf:"watch"`

	// Terminal cell size in device pixels.
	CellWidth  float64 `koanf:"cell_width"`
	CellHeight float64 `koanf:"cell_height"`

	ZoomStep      float64 `koanf:"zoom_step"`
	GripMargin    float64 `koanf:"grip_margin"`
	LinkThreshold float64 `koanf:"link_threshold"`
	NodeWidth     float64 `koanf:"node_width"`
	NodeHeight    float64 `koanf:"node_height"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"save_directory": "",
		"log_file":       "",
		"log_level":      "info",
		"watch":          false,
		"cell_width":     8.0,
		"cell_height":    16.0,
		"zoom_step":      1.1,
		"grip_margin":    10.0,
		"link_threshold": 8.0,
		"node_width":     160.0,
		"node_height":    96.0,
	}
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "stickies", "config.toml")
}

// Load reads configuration from path (DefaultPath when empty) and f. A
// missing file is not an error; an unreadable or invalid one is.
func Load(path string, f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&mapProvider{m: defaults()}, nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.ProviderWithFlag(f, ".", k, func(fl *pflag.Flag) (string, interface{}) {
			return strings.ReplaceAll(fl.Name, "-", "_"), posflag.FlagVal(f, fl)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.SaveDirectory = expandHome(cfg.SaveDirectory)
	cfg.LogFile = expandHome(cfg.LogFile)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"cell_width", c.CellWidth},
		{"cell_height", c.CellHeight},
		{"grip_margin", c.GripMargin},
		{"link_threshold", c.LinkThreshold},
		{"node_width", c.NodeWidth},
		{"node_height", c.NodeHeight},
	} {
		if v.val <= 0 {
			return fmt.Errorf("%s must be positive, got %v", v.name, v.val)
		}
	}
	if c.ZoomStep <= 1 {
		return fmt.Errorf("zoom_step must be greater than 1, got %v", c.ZoomStep)
	}
	return nil
}

// SavePath resolves a bare file name into SaveDirectory. Paths with a
// directory component are returned unchanged.
func (c *Config) SavePath(name string) string {
	name = expandHome(name)
	if c.SaveDirectory == "" || filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	_ = os.MkdirAll(c.SaveDirectory, 0o755)
	return filepath.Join(c.SaveDirectory, name)
}

// LogPath is the log file to use: LogFile if set, else a file under the
// user's state directory.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "stickies", "stickies.log")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

type mapProvider struct {
	m map[string]interface{}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
