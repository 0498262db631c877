package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/gianttproject/giantt/internal/core/styles"
)

type OccludeCmd struct {
	flags *Flags

	// flags
	tags   []string
	dryRun bool
}

// NewOccludeCmd creates a new occlude command
func NewOccludeCmd(flags *Flags) *OccludeCmd {
	return &OccludeCmd{flags: flags}
}

// Register adds the occlude command group to the application
func (cmd *OccludeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "occlude",
		Usage: "Archive items out of the working file",
		Commands: []*cli.Command{
			{
				Name:      "items",
				Usage:     "Move items to the occlude archive",
				UsageText: "giantt occlude items [--tag <tag>]... [--dry-run] [<id>...]",
				Description: `Moves items to the occlude archive next to the items file. Archived
items are still merged on every load, so relations pointing at them
keep resolving; they just stop cluttering the working file.`,
				ArgsUsage: "[<id>...]",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:        "tag",
						Aliases:     []string{"t"},
						Usage:       "occlude every item carrying this tag (repeatable)",
						Destination: &cmd.tags,
					},
					&cli.BoolFlag{
						Name:        "dry-run",
						Usage:       "show what would be occluded without changing anything",
						Destination: &cmd.dryRun,
					},
				},
				Action: cmd.runItems,
			},
		},
	})

	return app
}

func (cmd *OccludeCmd) runItems(_ context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 && len(cmd.tags) == 0 {
		return fmt.Errorf("expected item ids or --tag filters")
	}

	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}
	out := c.Root().Writer

	toOcclude := map[string]bool{}
	for _, id := range c.Args().Slice() {
		if _, ok := file.Store.Get(id); !ok || file.Occluded(id) {
			fmt.Fprintf(out, "Warning: item %q not found among included items\n", id)
			continue
		}
		toOcclude[id] = true
	}
	for _, tag := range cmd.tags {
		for _, it := range file.Store.All() {
			if file.Occluded(it.ID) {
				continue
			}
			if contains(it.Tags, tag) {
				toOcclude[it.ID] = true
			}
		}
	}

	if len(toOcclude) == 0 {
		fmt.Fprintln(out, "No included items found to occlude")
		return nil
	}

	ids := make([]string, 0, len(toOcclude))
	for id := range toOcclude {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if cmd.dryRun {
		fmt.Fprintln(out, "The following items would be occluded:")
		for _, id := range ids {
			it, _ := file.Store.Get(id)
			fmt.Fprintf(out, "  • %s: %s\n", styles.TitleStyle.Render(id), it.Title)
		}
		return nil
	}

	for _, id := range ids {
		if err := file.Occlude(id); err != nil {
			return err
		}
	}
	if err := cmd.flags.SaveItems(file); err != nil {
		return err
	}

	plural := "s"
	if len(ids) == 1 {
		plural = ""
	}
	fmt.Fprintf(out, "Occluded %d item%s\n", len(ids), plural)
	return nil
}
