package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/gianttproject/giantt/internal/data/itemfile"
)

type CleanCmd struct {
	flags *Flags

	// flags
	yes  bool
	keep int
}

// NewCleanCmd creates a new clean command
func NewCleanCmd(flags *Flags) *CleanCmd {
	return &CleanCmd{flags: flags}
}

// Register adds the clean command to the application
func (cmd *CleanCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "clean",
		Usage:     "Delete old numbered backups",
		UsageText: "giantt clean [--yes] [--keep N]",
		Description: `Scans the data directory for numbered .backup files and keeps only
the most recent ones per file, renumbering the survivors from 1.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
			&cli.IntFlag{
				Name:        "keep",
				Aliases:     []string{"k"},
				Usage:       "number of recent backups to keep per file (defaults from config)",
				Destination: &cmd.keep,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CleanCmd) run(_ context.Context, c *cli.Command) error {
	keep := cmd.keep
	if keep == 0 {
		keep = cmd.flags.Config.Clean.KeepBackups
	}
	if keep < 1 {
		return fmt.Errorf("--keep must be at least 1")
	}

	dir := filepath.Dir(cmd.flags.ItemsPath())
	plan, err := itemfile.PlanClean(dir, keep)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if plan.Empty() {
		fmt.Fprintln(out, "Nothing to clean.")
		return nil
	}

	for _, path := range plan.Delete {
		fmt.Fprintf(out, "delete %s\n", path)
	}
	froms := make([]string, 0, len(plan.Rename))
	for from := range plan.Rename {
		froms = append(froms, from)
	}
	sort.Strings(froms)
	for _, from := range froms {
		if to := plan.Rename[from]; to != from {
			fmt.Fprintf(out, "rename %s -> %s\n", from, to)
		}
	}

	if !cmd.yes {
		var confirmed bool
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %d backup(s)?", len(plan.Delete))).
				Value(&confirmed),
		)).Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := plan.Apply(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Removed %d backup(s), kept the %d most recent per file.\n", len(plan.Delete), keep)
	return nil
}
