package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/gianttproject/giantt/internal/core/chart"
)

type ChartCmd struct {
	flags *Flags

	// flags
	width int
}

// NewChartCmd creates a new chart command
func NewChartCmd(flags *Flags) *ChartCmd {
	return &ChartCmd{flags: flags}
}

// Register adds the chart command to the application
func (cmd *ChartCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "chart",
		Usage:     "Render a chart's items as duration bars",
		UsageText: "giantt chart [--width N] [<name>]",
		Description: `Draws every item of the matching charts as a horizontal bar scaled
to its duration. Without a name, all charts are drawn.

The width comes from --width, the config file, or the terminal.`,
		ArgsUsage: "[<name>]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "width",
				Usage:       "render width in columns",
				Destination: &cmd.width,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ChartCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() > 1 {
		return fmt.Errorf("expected at most one chart name")
	}

	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}

	width := cmd.width
	if width == 0 {
		width = cmd.flags.Config.Chart.Width
	}
	detected := 0
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		detected = w
	}

	fmt.Fprint(c.Root().Writer, chart.Render(file.Store.All(), c.Args().First(), chart.Width(width, detected)))
	return nil
}
