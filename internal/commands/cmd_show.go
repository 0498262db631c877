package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gianttproject/giantt/internal/core/chart"
	"github.com/gianttproject/giantt/internal/core/item"
	"github.com/gianttproject/giantt/internal/core/styles"
	"github.com/gianttproject/giantt/internal/data/itemfile"
)

type ShowCmd struct {
	flags *Flags

	// flags
	chartSearch bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show details of an item, or the items of a chart",
		UsageText: "giantt show [--chart] <substring>",
		Description: `Looks up an item by exact id first, then by case-insensitive
substring of ids and titles. The match must be unique.

With --chart the substring matches chart names instead and every item
of each matching chart is listed.`,
		ArgsUsage: "<substring>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "chart",
				Usage:       "search in chart names",
				Destination: &cmd.chartSearch,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected a single search term")
	}
	query := c.Args().First()

	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.chartSearch {
		fmt.Fprint(out, chart.Summary(file.Store.All(), query))
		return nil
	}

	it, err := file.Store.Resolve(query)
	if err != nil {
		return err
	}
	printItem(out, file, it)
	return nil
}

func printItem(w io.Writer, file *itemfile.File, it item.Item) {
	fmt.Fprintf(w, "%s %s\n", styles.TitleStyle.Render(it.Title), styles.MutedStyle.Render("("+it.ID+")"))
	fmt.Fprintf(w, "%s %s %s\n",
		styles.HeaderStyle.Render("Status:"),
		styles.StatusStyle(it.Status).Render(it.Status.Glyph()),
		string(it.Status),
	)
	fmt.Fprintf(w, "%s %s\n", styles.HeaderStyle.Render("Priority:"), styles.PriorityStyle(it.Priority).Render(string(it.Priority)))
	fmt.Fprintf(w, "%s %s\n", styles.HeaderStyle.Render("Duration:"), it.Duration.String())
	fmt.Fprintf(w, "%s %s\n", styles.HeaderStyle.Render("Charts:"), orNone(strings.Join(it.Charts, ", ")))
	fmt.Fprintf(w, "%s %s\n", styles.HeaderStyle.Render("Tags:"), orNone(strings.Join(it.Tags, ", ")))

	if it.Constraint != nil {
		fmt.Fprintf(w, "%s %s\n", styles.HeaderStyle.Render("Constraint:"), it.Constraint.String())
	}

	if len(it.Relations) > 0 {
		fmt.Fprintf(w, "%s\n", styles.HeaderStyle.Render("Relations:"))
		for _, rel := range item.RelationNames() {
			targets := it.Relations[item.Relation(rel)]
			if len(targets) == 0 {
				continue
			}
			fmt.Fprintf(w, "    %s %s: %s\n", item.Relation(rel).Glyph(), rel, strings.Join(targets, ", "))
		}
	}

	if it.Comment != "" {
		fmt.Fprintf(w, "%s %s\n", styles.HeaderStyle.Render("Comment:"), it.Comment)
	}
	if it.AutoComment != "" {
		fmt.Fprintf(w, "%s %s\n", styles.HeaderStyle.Render("Auto Comment:"), styles.MutedStyle.Render(it.AutoComment))
	}

	if src, ok := file.Store.Origin(it.ID); ok && src.Path != "" && src.Path != file.Path {
		fmt.Fprintf(w, "%s %s\n", styles.HeaderStyle.Render("From:"), src.String())
	}
}

func orNone(s string) string {
	if s == "" {
		return styles.MutedStyle.Render("none")
	}
	return s
}
