package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/gianttproject/giantt/internal/tui"
)

type TuiCmd struct {
	flags *Flags

	// flags
	noWatch bool
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "no-watch",
			Usage:       "disable live reload when the items file changes",
			Destination: &cmd.noWatch,
		},
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Browse items interactively",
		UsageText: "giantt tui [--no-watch]",
		Flags:     cmd.Flags(),
		Action:    cmd.Run,
	})

	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(_ context.Context, _ *cli.Command) error {
	path := cmd.flags.ItemsPath()

	var watcher *tui.Watcher
	if cmd.flags.Config.WatchEnabled() && !cmd.noWatch {
		var err error
		watcher, err = tui.NewWatcher(path)
		if err != nil {
			log.Warn().Err(err).Msg("file watching unavailable")
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	p := tea.NewProgram(tui.New(path, watcher), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
