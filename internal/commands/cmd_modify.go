package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gianttproject/giantt/internal/core/graph"
	"github.com/gianttproject/giantt/internal/core/item"
)

type ModifyCmd struct {
	flags *Flags

	// flags
	add    bool
	remove bool
}

// NewModifyCmd creates a new modify command
func NewModifyCmd(flags *Flags) *ModifyCmd {
	return &ModifyCmd{flags: flags}
}

// Register adds the modify command to the application
func (cmd *ModifyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "modify",
		Usage:     "Modify a property or relation of an item",
		UsageText: "giantt modify [--add|--remove] <substring> <property> <value>",
		Description: `Sets a field of an item, or edits one of its relation lists.

Properties: title, duration, priority, status, charts, tags, constraint.
Relations (` + strings.ToLower(strings.Join(item.RelationNames(), ", ")) + `) take
comma-separated target ids and need --add or --remove.

Edits to requires are checked against the dependency graph first; a
change that would create a cycle is rejected before anything is saved.`,
		ArgsUsage: "<substring> <property> <value>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "add",
				Usage:       "add targets to a relation",
				Destination: &cmd.add,
			},
			&cli.BoolFlag{
				Name:        "remove",
				Usage:       "remove targets from a relation",
				Destination: &cmd.remove,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ModifyCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 3 {
		return fmt.Errorf("expected <substring> <property> <value>")
	}
	query, property, value := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)

	if cmd.add && cmd.remove {
		return fmt.Errorf("cannot use --add and --remove together")
	}

	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}

	it, err := file.Store.Resolve(query)
	if err != nil {
		return err
	}

	rel, relErr := item.ParseRelation(property)
	isRelation := relErr == nil

	if (cmd.add || cmd.remove) && !isRelation {
		return fmt.Errorf("--add/--remove apply to relations only (one of: %s)",
			strings.ToLower(strings.Join(item.RelationNames(), ", ")))
	}

	var mutate func(*item.Item) error
	if isRelation {
		mutate = cmd.relationEdit(rel, splitList(value))
	} else {
		mutate = propertyEdit(property, value)
	}

	// Trial run on a copy so a rejected edit leaves the store alone.
	if isRelation && rel == item.RelationRequires {
		trial := it.Clone()
		if err := mutate(&trial); err != nil {
			return err
		}
		if err := cmd.checkAcyclic(file.Store.All(), trial); err != nil {
			return err
		}
	}

	if err := file.Store.Update(it.ID, mutate); err != nil {
		return err
	}

	if err := cmd.flags.SaveItems(file); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Modified %s of item %q\n", strings.ToLower(property), it.ID)
	return nil
}

func (cmd *ModifyCmd) relationEdit(rel item.Relation, targets []string) func(*item.Item) error {
	return func(it *item.Item) error {
		if len(targets) == 0 {
			return fmt.Errorf("no target ids given")
		}

		switch {
		case cmd.add:
			existing := it.Relations[rel]
			for _, target := range targets {
				if target == it.ID {
					return fmt.Errorf("item cannot relate to itself")
				}
				if !contains(existing, target) {
					existing = append(existing, target)
				}
			}
			it.Relations[rel] = existing
		case cmd.remove:
			existing, ok := it.Relations[rel]
			if !ok {
				return fmt.Errorf("no %s relations to remove", strings.ToLower(string(rel)))
			}
			var kept []string
			for _, t := range existing {
				if !contains(targets, t) {
					kept = append(kept, t)
				}
			}
			if len(kept) == 0 {
				delete(it.Relations, rel)
			} else {
				it.Relations[rel] = kept
			}
		default:
			return fmt.Errorf("relation edits need --add or --remove")
		}
		return nil
	}
}

func propertyEdit(property, value string) func(*item.Item) error {
	return func(it *item.Item) error {
		var err error
		switch strings.ToLower(property) {
		case "title":
			it.Title = value
		case "duration":
			it.Duration, err = item.ParseDuration(value)
		case "priority":
			it.Priority, err = item.ParsePriority(value)
		case "status":
			it.Status, err = item.ParseStatus(value)
		case "charts":
			it.Charts = splitList(value)
		case "tags":
			it.Tags = splitList(value)
		case "constraint":
			it.Constraint, err = item.ParseConstraint(value)
		default:
			err = fmt.Errorf("unknown property %q (one of: title, duration, priority, status, charts, tags, constraint, or a relation)", property)
		}
		return err
	}
}

// checkAcyclic validates the dependency graph as it would look with the
// trial item in place.
func (cmd *ModifyCmd) checkAcyclic(items []item.Item, trial item.Item) error {
	for i := range items {
		if items[i].ID == trial.ID {
			items[i] = trial
		}
	}
	if err := graph.New(items).Validate(); err != nil {
		return fmt.Errorf("change rejected: %w", err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
