package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/gianttproject/giantt/internal/core/config"
	"github.com/gianttproject/giantt/internal/data/itemfile"
)

type InitCmd struct {
	flags *Flags

	// flags
	dev     bool
	dataDir string
}

// NewInitCmd creates a new init command
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize the giantt directory structure and items file",
		UsageText: "giantt init [--dev] [--data-dir PATH]",
		Description: `Creates the data directory with an include/ subdirectory and an empty
items file.

By default the data directory is ~/.giantt. With --dev a .giantt
directory is created in the current working directory instead, which
takes precedence over the home directory on subsequent runs.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "dev",
				Usage:       "initialize a .giantt directory in the current directory",
				Destination: &cmd.dev,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "custom data directory location",
				Destination: &cmd.dataDir,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *InitCmd) run(_ context.Context, c *cli.Command) error {
	base := cmd.baseDir()

	if err := os.MkdirAll(filepath.Join(base, "include"), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	itemsPath := filepath.Join(base, config.ItemsFileName)
	err := itemfile.Init(itemsPath)
	if errors.Is(err, os.ErrExist) {
		fmt.Fprintf(c.Root().Writer, "Giantt is already initialized at %s. Enjoy!\n", base)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create items file: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Initialized Giantt at %s\n", base)
	return nil
}

func (cmd *InitCmd) baseDir() string {
	if cmd.dataDir != "" {
		return cmd.dataDir
	}
	if cmd.dev {
		cwd, _ := os.Getwd()
		return filepath.Join(cwd, ".giantt")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".giantt")
}
