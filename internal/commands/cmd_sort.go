package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type SortCmd struct {
	flags *Flags
}

// NewSortCmd creates a new sort command
func NewSortCmd(flags *Flags) *SortCmd {
	return &SortCmd{flags: flags}
}

// Register adds the sort command to the application
func (cmd *SortCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "sort",
		Usage:     "Rewrite the items file in dependency order",
		UsageText: "giantt sort",
		Description: `Loads the items file and saves it back in stable topological order.
Items with no ordering between them keep their current relative
positions, so sorting an already-sorted file changes nothing.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *SortCmd) run(_ context.Context, c *cli.Command) error {
	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}

	if err := cmd.flags.SaveItems(file); err != nil {
		return fmt.Errorf("sort failed, file unchanged: %w", err)
	}

	fmt.Fprintln(c.Root().Writer, "Successfully sorted and saved items.")
	return nil
}
