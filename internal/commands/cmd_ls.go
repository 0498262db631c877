package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"

	"github.com/gianttproject/giantt/internal/core/item"
	"github.com/gianttproject/giantt/internal/core/styles"
)

type LsCmd struct {
	flags *Flags

	// flags
	status string
	chart  string
	tag    string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List items in dependency order",
		UsageText: "giantt ls [--status NAME] [--chart GLOB] [--tag GLOB]",
		Description: `Displays a table of items sorted in dependency order.

--chart and --tag accept glob patterns, so 'giantt ls --chart "release*"'
matches every chart starting with "release".`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Usage:       "only items with this status (" + strings.Join(item.StatusNames(), ", ") + ")",
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "chart",
				Usage:       "only items on charts matching this glob",
				Destination: &cmd.chart,
			},
			&cli.StringFlag{
				Name:        "tag",
				Usage:       "only items with tags matching this glob",
				Destination: &cmd.tag,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(_ context.Context, c *cli.Command) error {
	var status item.Status
	if cmd.status != "" {
		var err error
		if status, err = item.ParseStatus(cmd.status); err != nil {
			return err
		}
	}
	if cmd.chart != "" {
		if !doublestar.ValidatePattern(cmd.chart) {
			return fmt.Errorf("invalid chart pattern %q", cmd.chart)
		}
	}
	if cmd.tag != "" {
		if !doublestar.ValidatePattern(cmd.tag) {
			return fmt.Errorf("invalid tag pattern %q", cmd.tag)
		}
	}

	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}

	items, err := file.Store.Sorted()
	if err != nil {
		// A cycle blocks sorting but not listing; fall back to file order.
		items = file.Store.All()
		fmt.Fprintf(os.Stderr, "%s\n", err)
	}

	var visible []item.Item
	for _, it := range items {
		if cmd.keep(it, status) {
			visible = append(visible, it)
		}
	}

	if len(visible) == 0 {
		fmt.Fprintln(os.Stderr, "No items found")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tID\tSTATUS\tPRIORITY\tDURATION\tCHARTS")

	for _, it := range visible {
		glyph := styles.StatusStyle(it.Status).Render(it.Status.Glyph())
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			glyph,
			it.ID+it.Priority.Marks(),
			strings.ToLower(string(it.Status)),
			strings.ToLower(string(it.Priority)),
			it.Duration.String(),
			strings.Join(it.Charts, ","),
		)
	}

	return w.Flush()
}

func (cmd *LsCmd) keep(it item.Item, status item.Status) bool {
	if cmd.status != "" && it.Status != status {
		return false
	}
	if cmd.chart != "" && !matchAny(cmd.chart, it.Charts) {
		return false
	}
	if cmd.tag != "" && !matchAny(cmd.tag, it.Tags) {
		return false
	}
	return true
}

func matchAny(pattern string, values []string) bool {
	for _, v := range values {
		if ok, _ := doublestar.Match(pattern, v); ok {
			return true
		}
	}
	return false
}
