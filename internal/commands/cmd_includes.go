package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gianttproject/giantt/internal/core/styles"
	"github.com/gianttproject/giantt/internal/data/itemfile"
)

type IncludesCmd struct {
	flags *Flags

	// flags
	recursive bool
}

// NewIncludesCmd creates a new includes command
func NewIncludesCmd(flags *Flags) *IncludesCmd {
	return &IncludesCmd{flags: flags}
}

// Register adds the includes and add-include commands to the application
func (cmd *IncludesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "includes",
			Usage:     "List the include directives of the items file",
			UsageText: "giantt includes [-r]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "recursive",
					Aliases:     []string{"r"},
					Usage:       "follow included files and print the whole include tree",
					Destination: &cmd.recursive,
				},
			},
			Action: cmd.runList,
		},
		&cli.Command{
			Name:      "add-include",
			Usage:     "Add an include directive to the items file",
			UsageText: "giantt add-include <path>",
			Description: `Adds a '#include <path>' directive to the items file header and
saves. Relative paths resolve against the items file's directory. The
included file's items are merged on every load but stay in their own
file on save.`,
			ArgsUsage: "<path>",
			Action:    cmd.runAdd,
		},
	)

	return app
}

func (cmd *IncludesCmd) runList(_ context.Context, c *cli.Command) error {
	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if len(file.Includes) == 0 {
		fmt.Fprintf(out, "%s includes no other files\n", file.Path)
		return nil
	}

	fmt.Fprintf(out, "%s\n", styles.HeaderStyle.Render(file.Path))
	if cmd.recursive {
		directives := map[string][]string{}
		for _, sf := range file.Sources {
			directives[sf.Path] = sf.Includes
		}
		printIncludeTree(out, directives, file.Path, 1, map[string]bool{file.Path: true})
	} else {
		for _, inc := range file.Includes {
			fmt.Fprintf(out, "  %s\n", inc)
		}
	}
	return nil
}

// printIncludeTree walks the loaded include graph depth first, printing
// each directive as written, indented by depth. Directives whose file
// never loaded are marked; seen guards against include cycles.
func printIncludeTree(out io.Writer, directives map[string][]string, path string, depth int, seen map[string]bool) {
	indent := strings.Repeat("  ", depth)
	for _, inc := range directives[path] {
		target := inc
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		_, loaded := directives[target]
		switch {
		case seen[target]:
			fmt.Fprintf(out, "%s%s %s\n", indent, inc, styles.WarningStyle.Render("(cycle)"))
		case !loaded:
			fmt.Fprintf(out, "%s%s %s\n", indent, inc, styles.WarningStyle.Render("(missing)"))
		default:
			fmt.Fprintf(out, "%s%s\n", indent, inc)
			seen[target] = true
			printIncludeTree(out, directives, target, depth+1, seen)
		}
	}
}

func (cmd *IncludesCmd) runAdd(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected a single include path")
	}
	target := c.Args().First()

	file, err := cmd.flags.LoadItems()
	if err != nil {
		return err
	}

	if err := itemfile.AddInclude(file, target); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Added include %q\n", target)
	return nil
}
