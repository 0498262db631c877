package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
)

type RemoveCmd struct {
	flags *Flags

	// flags
	force         bool
	keepRelations bool
}

// NewRemoveCmd creates a new remove command
func NewRemoveCmd(flags *Flags) *RemoveCmd {
	return &RemoveCmd{flags: flags}
}

// Register adds the remove command to the application
func (cmd *RemoveCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "remove",
		Usage:     "Remove an item",
		UsageText: "giantt remove [--force] [--keep-relations] <id>",
		Description: `Removes an item after confirmation. References to the removed item
in other items are stripped as well, unless --keep-relations is set.`,
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "remove without confirmation",
				Destination: &cmd.force,
			},
			&cli.BoolFlag{
				Name:        "keep-relations",
				Usage:       "leave references to the removed item in place",
				Destination: &cmd.keepRelations,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RemoveCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected a single item id")
	}
	id := c.Args().First()

	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}

	it, ok := file.Store.Get(id)
	if !ok {
		return fmt.Errorf("item %q not found", id)
	}

	if !cmd.force {
		var dependents []string
		for _, other := range file.Store.All() {
			if other.ID != id && other.Related(id) {
				dependents = append(dependents, other.ID)
			}
		}

		message := fmt.Sprintf("Remove %q (%s)?", it.ID, it.Title)
		if len(dependents) > 0 {
			message = fmt.Sprintf("Remove %q (%s)? Referenced by: %s", it.ID, it.Title, strings.Join(dependents, ", "))
		}

		var confirmed bool
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Value(&confirmed),
		)).Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(c.Root().Writer, "Aborted.")
			return nil
		}
	}

	if err := file.Store.Remove(id, cmd.keepRelations); err != nil {
		return err
	}

	if err := cmd.flags.SaveItems(file); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Removed item %q\n", id)
	return nil
}
