package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gianttproject/giantt/internal/core/item"
)

type SetStatusCmd struct {
	flags *Flags
}

// NewSetStatusCmd creates a new set-status command
func NewSetStatusCmd(flags *Flags) *SetStatusCmd {
	return &SetStatusCmd{flags: flags}
}

// Register adds the set-status command to the application
func (cmd *SetStatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "set-status",
		Usage:     "Change the status of an item",
		UsageText: "giantt set-status <substring> <status>",
		ArgsUsage: "<substring> <" + strings.Join(item.StatusNames(), "|") + ">",
		Action:    cmd.run,
	})

	return app
}

func (cmd *SetStatusCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <substring> <status>")
	}

	status, err := item.ParseStatus(c.Args().Get(1))
	if err != nil {
		return err
	}

	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}

	it, err := file.Store.Resolve(c.Args().First())
	if err != nil {
		return err
	}

	err = file.Store.Update(it.ID, func(target *item.Item) error {
		target.Status = status
		return nil
	})
	if err != nil {
		return err
	}

	if err := cmd.flags.SaveItems(file); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Set status of %q to %s\n", it.ID, status)
	return nil
}
