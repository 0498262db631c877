package commands

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/gianttproject/giantt/internal/core/doctor"
	"github.com/gianttproject/giantt/internal/core/item"
	"github.com/gianttproject/giantt/internal/core/styles"
	"github.com/gianttproject/giantt/internal/data/itemfile"
)

type DoctorCmd struct {
	flags *Flags

	// flags
	issueType string
	itemID    string
	all       bool
	dryRun    bool
	yes       bool
}

// NewDoctorCmd creates a new doctor command
func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

// Register adds the doctor command to the application
func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doctor",
		Usage: "Check the health of the item graph and fix issues",
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "Report issues without changing anything",
				Action: cmd.runCheck,
			},
			{
				Name:      "fix",
				Usage:     "Fix issues",
				UsageText: "giantt doctor fix [--type TYPE | --item ID | --all] [--dry-run] [--yes]",
				Description: `Applies automatic fixes: dangling references are removed, and
one-way relation chains get their reciprocal half added. Orphaned items
have no automatic fix.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "type",
						Aliases:     []string{"t"},
						Usage:       "fix only issues of this type",
						Destination: &cmd.issueType,
					},
					&cli.StringFlag{
						Name:        "item",
						Aliases:     []string{"i"},
						Usage:       "fix only issues of this item id",
						Destination: &cmd.itemID,
					},
					&cli.BoolFlag{
						Name:        "all",
						Aliases:     []string{"a"},
						Usage:       "fix all fixable issues",
						Destination: &cmd.all,
					},
					&cli.BoolFlag{
						Name:        "dry-run",
						Usage:       "show what would be fixed without making changes",
						Destination: &cmd.dryRun,
					},
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "skip the confirmation prompt",
						Destination: &cmd.yes,
					},
				},
				Action: cmd.runFix,
			},
			{
				Name:   "list-types",
				Usage:  "List the issue types the doctor knows about",
				Action: cmd.runListTypes,
			},
		},
	})

	return app
}

func (cmd *DoctorCmd) runCheck(_ context.Context, c *cli.Command) error {
	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}

	out := c.Root().Writer
	issues := doctor.New(file.Store.All()).Diagnose()
	if len(issues) == 0 {
		fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Graph is healthy!"))
		return nil
	}

	printIssues(out, issues)
	return nil
}

func (cmd *DoctorCmd) runFix(_ context.Context, c *cli.Command) error {
	if cmd.issueType == "" && cmd.itemID == "" && !cmd.all {
		return fmt.Errorf("specify --type, --item, or --all to indicate which issues to fix")
	}

	var issueType doctor.IssueType
	if cmd.issueType != "" {
		var err error
		if issueType, err = doctor.ParseIssueType(cmd.issueType); err != nil {
			return err
		}
	}

	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}

	out := c.Root().Writer
	issues := doctor.New(file.Store.All()).Diagnose()
	if len(issues) == 0 {
		fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Graph is healthy! No issues to fix."))
		return nil
	}

	selected := doctor.Filter(issues, issueType, cmd.itemID)
	if len(selected) == 0 {
		fmt.Fprintln(out, "No matching issues found.")
		return nil
	}

	var fixable []doctor.Issue
	for _, issue := range selected {
		if issue.Fix != nil {
			fixable = append(fixable, issue)
		}
	}

	printIssues(out, selected)

	if len(fixable) == 0 {
		fmt.Fprintln(out, "None of these issues can be fixed automatically.")
		return nil
	}

	if cmd.dryRun {
		fmt.Fprintf(out, "\nDry run - %d fix(es) not applied.\n", len(fixable))
		return nil
	}

	if !cmd.yes {
		var confirmed bool
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Apply %d fix(es)?", len(fixable))).
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

	for _, issue := range fixable {
		if err := applyFix(file.Store, *issue.Fix); err != nil {
			return fmt.Errorf("fix %s of %q: %w", issue.Type, issue.ItemID, err)
		}
	}

	if err := cmd.flags.SaveItems(file); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nApplied %d fix(es).\n", len(fixable))
	return nil
}

func (cmd *DoctorCmd) runListTypes(_ context.Context, c *cli.Command) error {
	types := doctor.Types()
	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, string(t))
	}
	sort.Strings(names)

	out := c.Root().Writer
	for _, name := range names {
		note := "not automatically fixable"
		if types[doctor.IssueType(name)] {
			note = "fixable"
		}
		fmt.Fprintf(out, "%s  %s\n", name, styles.MutedStyle.Render("("+note+")"))
	}
	return nil
}

// applyFix mutates the relation named by the fix through the store.
func applyFix(store *itemfile.Store, fix doctor.FixOp) error {
	return store.Update(fix.ItemID, func(it *item.Item) error {
		targets := it.Relations[fix.Relation]
		if fix.Add {
			for _, t := range targets {
				if t == fix.Target {
					return nil
				}
			}
			it.Relations[fix.Relation] = append(targets, fix.Target)
			return nil
		}

		var kept []string
		for _, t := range targets {
			if t != fix.Target {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(it.Relations, fix.Relation)
		} else {
			it.Relations[fix.Relation] = kept
		}
		return nil
	})
}

func printIssues(w io.Writer, issues []doctor.Issue) {
	byType := map[doctor.IssueType][]doctor.Issue{}
	var order []doctor.IssueType
	for _, issue := range issues {
		if _, seen := byType[issue.Type]; !seen {
			order = append(order, issue.Type)
		}
		byType[issue.Type] = append(byType[issue.Type], issue)
	}

	plural := "s"
	if len(issues) == 1 {
		plural = ""
	}
	fmt.Fprintln(w, styles.WarningStyle.Render(fmt.Sprintf("Found %d issue%s:", len(issues), plural)))

	for _, t := range order {
		fmt.Fprintf(w, "\n%s (%d):\n", t, len(byType[t]))
		for _, issue := range byType[t] {
			fmt.Fprintf(w, "  • %s: %s\n", issue.ItemID, issue.Message)
			if s := issue.Suggestion(); s != "" {
				fmt.Fprintf(w, "    %s\n", styles.MutedStyle.Render("fix: "+s))
			}
		}
	}
}
