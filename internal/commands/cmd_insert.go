package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gianttproject/giantt/internal/core/item"
)

type InsertCmd struct {
	flags *Flags

	// flags
	title    string
	duration string
	priority string
	charts   string
	tags     string
}

// NewInsertCmd creates a new insert command
func NewInsertCmd(flags *Flags) *InsertCmd {
	return &InsertCmd{flags: flags}
}

// Register adds the insert command to the application
func (cmd *InsertCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "insert",
		Usage:     "Insert a new item between two existing items",
		UsageText: "giantt insert <new-id> <before-id> <after-id> [options]",
		Description: `Splices a new item into the dependency chain: the new item requires
<before-id> and blocks <after-id>, and the direct links between the two
existing items are rewired through it.`,
		ArgsUsage: "<new-id> <before-id> <after-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Usage:       "title for the new item (defaults to the id)",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "duration",
				Usage:       "duration (e.g., 1d, 2w, 3mo2w5d)",
				Value:       "1d",
				Destination: &cmd.duration,
			},
			&cli.StringFlag{
				Name:        "priority",
				Usage:       "priority (" + strings.Join(item.PriorityNames(), ", ") + ")",
				Value:       "neutral",
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "charts",
				Usage:       "comma-separated chart names",
				Destination: &cmd.charts,
			},
			&cli.StringFlag{
				Name:        "tags",
				Usage:       "comma-separated tags",
				Destination: &cmd.tags,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *InsertCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 3 {
		return fmt.Errorf("expected <new-id> <before-id> <after-id>")
	}
	newID, beforeID, afterID := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)

	title := cmd.title
	if title == "" {
		title = newID
	}

	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}

	it := item.New(newID, title)
	if it.Duration, err = item.ParseDuration(cmd.duration); err != nil {
		return err
	}
	if it.Priority, err = item.ParsePriority(cmd.priority); err != nil {
		return err
	}
	it.Charts = splitList(cmd.charts)
	it.Tags = splitList(cmd.tags)

	if err := file.Store.InsertBetween(it, beforeID, afterID); err != nil {
		return err
	}

	if err := cmd.flags.SaveItems(file); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Inserted %q between %q and %q\n", newID, beforeID, afterID)
	return nil
}
