package commands

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/gianttproject/giantt/internal/core/config"
	"github.com/gianttproject/giantt/internal/data/itemfile"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	ItemsFile  string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// ItemsPath returns the effective items file: the --file flag wins,
// then the config override, then <data-dir>/GIANTT_ITEMS.txt.
func (f *Flags) ItemsPath() string {
	if f.ItemsFile != "" {
		return f.ItemsFile
	}
	return f.Config.ItemsPath()
}

// LoadItems loads the items file and its includes. Load warnings are
// logged but don't abort the command.
func (f *Flags) LoadItems() (*itemfile.File, error) {
	file, err := itemfile.Load(f.ItemsPath())
	if err != nil {
		return nil, err
	}

	for _, w := range file.Warnings {
		log.Warn().
			Str("kind", string(w.Kind)).
			Str("source", w.Source.String()).
			Msg(w.Detail)
	}

	return file, nil
}

// SaveItems sorts and writes the items file back to disk.
func (f *Flags) SaveItems(file *itemfile.File) error {
	if err := itemfile.Save(file); err != nil {
		return err
	}
	log.Debug().Str("path", file.Path).Int("items", file.Store.Len()).Msg("saved items file")
	return nil
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "giantt", "config.yaml")
}

// DefaultDataDir returns the data directory: a .giantt directory in the
// current working directory if one exists (dev layout), otherwise
// ~/.giantt.
func DefaultDataDir() string {
	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ".giantt")
		if info, err := os.Stat(local); err == nil && info.IsDir() {
			return local
		}
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".giantt")
}
