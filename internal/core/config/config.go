// Package config handles configuration loading and validation for giantt.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gianttproject/giantt/internal/core/styles"
)

// ItemsFileName is the default items file inside the data directory.
const ItemsFileName = "GIANTT_ITEMS.txt"

// Config holds the application configuration.
type Config struct {
	ItemsFile string      `yaml:"items_file"` // overrides <data-dir>/GIANTT_ITEMS.txt
	Chart     ChartConfig `yaml:"chart"`
	TUI       TUIConfig   `yaml:"tui"`
	Clean     CleanConfig `yaml:"clean"`
	DataDir   string      `yaml:"-"` // set by caller, not from config file
}

// ChartConfig controls chart rendering.
type ChartConfig struct {
	// Width is the render width in columns. 0 means detect from the
	// terminal, falling back to 80.
	Width int `yaml:"width"`
}

// TUIConfig holds interactive viewer settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
	// Watch reloads the view when the items file changes on disk.
	Watch *bool `yaml:"watch"`
}

// CleanConfig controls backup cleanup.
type CleanConfig struct {
	// KeepBackups is how many numbered backups clean leaves per file.
	KeepBackups int `yaml:"keep_backups"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	watch := true
	return Config{
		Chart: ChartConfig{Width: 0},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
			Watch: &watch,
		},
		Clean: CleanConfig{KeepBackups: 3},
	}
}

// Load reads configuration from the given path and sets the data
// directory. If configPath is empty or doesn't exist, returns defaults
// with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.TUI.Theme == "" {
		c.TUI.Theme = styles.DefaultTheme
	}
	if c.TUI.Watch == nil {
		watch := true
		c.TUI.Watch = &watch
	}
	if c.Clean.KeepBackups == 0 {
		c.Clean.KeepBackups = 3
	}
}

// ItemsPath returns the effective items file path: the configured
// override, or GIANTT_ITEMS.txt in the data directory.
func (c *Config) ItemsPath() string {
	if c.ItemsFile != "" {
		return c.ItemsFile
	}
	return filepath.Join(c.DataDir, ItemsFileName)
}

// WatchEnabled reports whether the TUI should watch the items file.
func (c *Config) WatchEnabled() bool {
	return c.TUI.Watch == nil || *c.TUI.Watch
}
