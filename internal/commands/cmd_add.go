package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gianttproject/giantt/internal/core/item"
	"github.com/gianttproject/giantt/internal/data/itemfile"
)

type AddCmd struct {
	flags *Flags

	// flags
	duration string
	priority string
	status   string
	charts   string
	tags     string
	requires string
	anyOf    string
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags) *AddCmd {
	return &AddCmd{flags: flags}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a new item",
		UsageText: `giantt add <id> <title> [options]`,
		Description: `Creates a new item and saves the file in dependency order.

The id must be unique across the items file and everything it
includes. Dependencies named with --requires must already exist.`,
		ArgsUsage: "<id> <title>",
		Flags: []cli.Flag{
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
				Name:        "status",
				Usage:       "status (" + strings.Join(item.StatusNames(), ", ") + ")",
				Value:       "not_started",
				Destination: &cmd.status,
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
			&cli.StringFlag{
				Name:        "requires",
				Usage:       "comma-separated ids this item requires",
				Destination: &cmd.requires,
			},
			&cli.StringFlag{
				Name:        "any-of",
				Usage:       "comma-separated ids that are individually sufficient",
				Destination: &cmd.anyOf,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <id> <title>, got %d argument(s)", c.Args().Len())
	}
	id, title := c.Args().Get(0), c.Args().Get(1)

	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}

	it, err := cmd.buildItem(file.Store, id, title)
	if err != nil {
		return err
	}

	if err := file.Store.Add(it, itemfile.Source{Path: file.Path}); err != nil {
		return err
	}

	if err := cmd.flags.SaveItems(file); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Added item %q\n", id)
	return nil
}

func (cmd *AddCmd) buildItem(store *itemfile.Store, id, title string) (item.Item, error) {
	it := item.New(id, title)

	// Warn-level duplicate check happens in Add; a same-title item under
	// a different id is almost always a mistake, so reject it here.
	for _, other := range store.All() {
		if strings.EqualFold(other.Title, title) {
			return it, fmt.Errorf("item %q already has title %q", other.ID, other.Title)
		}
	}

	var err error
	if it.Duration, err = item.ParseDuration(cmd.duration); err != nil {
		return it, err
	}
	if it.Status, err = item.ParseStatus(cmd.status); err != nil {
		return it, err
	}
	if it.Priority, err = item.ParsePriority(cmd.priority); err != nil {
		return it, err
	}
	it.Charts = splitList(cmd.charts)
	it.Tags = splitList(cmd.tags)

	for rel, raw := range map[item.Relation]string{
		item.RelationRequires: cmd.requires,
		item.RelationAnyOf:    cmd.anyOf,
	} {
		targets := splitList(raw)
		if len(targets) == 0 {
			continue
		}
		for _, target := range targets {
			if _, ok := store.Get(target); !ok {
				return it, fmt.Errorf("unknown item %q in %s", target, strings.ToLower(string(rel)))
			}
		}
		it.Relations[rel] = targets
	}

	return it, nil
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
