package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
	assert.True(t, cfg.WatchEnabled())
	assert.Equal(t, 3, cfg.Clean.KeepBackups)
	assert.Zero(t, cfg.Chart.Width)
}

func TestLoad(t *testing.T) {
	t.Run("missing config file uses defaults", func(t *testing.T) {
		dataDir := t.TempDir()
		cfg, err := Load(filepath.Join(dataDir, "nope.yaml"), dataDir)
		require.NoError(t, err)

		assert.Equal(t, dataDir, cfg.DataDir)
		assert.Equal(t, filepath.Join(dataDir, ItemsFileName), cfg.ItemsPath())
	})

	t.Run("empty path uses defaults", func(t *testing.T) {
		cfg, err := Load("", "/tmp/giantt-data")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/giantt-data", cfg.DataDir)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := `
items_file: /srv/items.txt
chart:
  width: 120
tui:
  theme: gruvbox
  watch: false
clean:
  keep_backups: 5
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path, dir)
		require.NoError(t, err)

		assert.Equal(t, "/srv/items.txt", cfg.ItemsPath())
		assert.Equal(t, 120, cfg.Chart.Width)
		assert.Equal(t, "gruvbox", cfg.TUI.Theme)
		assert.False(t, cfg.WatchEnabled())
		assert.Equal(t, 5, cfg.Clean.KeepBackups)
		assert.Equal(t, dir, cfg.DataDir)
	})

	t.Run("partial file keeps defaults for the rest", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("chart:\n  width: 40\n"), 0o644))

		cfg, err := Load(path, dir)
		require.NoError(t, err)

		assert.Equal(t, 40, cfg.Chart.Width)
		assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
		assert.True(t, cfg.WatchEnabled())
		assert.Equal(t, 3, cfg.Clean.KeepBackups)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("chart: [broken\n"), 0o644))

		_, err := Load(path, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config file")
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: neon-mistake\n"), 0o644))

		_, err := Load(path, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown theme")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "negative chart width",
			mutate:  func(c *Config) { c.Chart.Width = -1 },
			wantErr: "chart.width",
		},
		{
			name:    "zero keep_backups",
			mutate:  func(c *Config) { c.Clean.KeepBackups = 0 },
			wantErr: "clean.keep_backups",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.TUI.Theme = "missing" },
			wantErr: "tui.theme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDeep(t *testing.T) {
	t.Run("clean environment passes", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		assert.NoError(t, cfg.ValidateDeep(""))
	})

	t.Run("data dir is a file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "notadir")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		cfg := DefaultConfig()
		cfg.DataDir = path
		err := cfg.ValidateDeep("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("items file is a directory", func(t *testing.T) {
		dir := t.TempDir()
		cfg := DefaultConfig()
		cfg.DataDir = dir
		cfg.ItemsFile = dir

		err := cfg.ValidateDeep("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})
}
