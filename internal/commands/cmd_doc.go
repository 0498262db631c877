package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

type DocCmd struct {
	flags *Flags
}

// NewDocCmd creates a new doc command
func NewDocCmd(flags *Flags) *DocCmd {
	return &DocCmd{flags: flags}
}

// Register adds the doc command to the application
func (cmd *DocCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doc",
		Usage: "Documentation",
		Commands: []*cli.Command{
			{
				Name:   "format",
				Usage:  "Show the items file format reference",
				Action: cmd.runFormat,
			},
		},
	})
	return app
}

func (cmd *DocCmd) runFormat(_ context.Context, c *cli.Command) error {
	wrap := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w < wrap {
		wrap = w
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	out, err := r.Render(formatGuide)
	if err != nil {
		return fmt.Errorf("render guide: %w", err)
	}

	fmt.Fprint(c.Root().Writer, out)
	return nil
}

const formatGuide = `# Giantt Items File Format

Each non-blank, non-comment line is one item:

` + "```" + `
<status> <id><priority> <duration> "<title>" {"chart",...} tag1,tag2 >>> <relations> @@@ <constraint> # comment ### auto comment
` + "```" + `

Everything after the chart block is optional.

## Status glyphs

| Glyph | Status |
|-------|--------|
| ○ | not_started |
| ◑ | in_progress |
| ⊘ | blocked |
| ● | completed |

## Priority marks

Priority is written as a suffix on the id, longest match first:

| Marks | Priority |
|-------|----------|
| ` + "`,,,`" + ` | lowest |
| ` + "`...`" + ` | low |
| (none) | neutral |
| ` + "`?`" + ` | unknown |
| ` + "`!`" + ` | high |
| ` + "`!!`" + ` | higher |
| ` + "`!!!`" + ` | highest |

## Duration

Concatenated parts, each an amount and a unit: ` + "`3mo2w5d`" + `.
Units: s, min, h, d, w, mo, y. Each unit may appear once.

## Relations

Relations follow ` + "`>>>`" + `, each as ` + "`<glyph>[id,id,...]`" + `:

| Glyph | Relation | Meaning |
|-------|----------|---------|
| ⊢ | requires | must be done before this item (drives sorting) |
| ⋲ | anyof | any one of these suffices |
| ≫ | supercharges | this item amplifies another |
| ∴ | indicates | completion implies the other |
| ∪ | together | belongs with another |
| ⊟ | conflicts | cannot coexist |
| ► | blocks | the reciprocal of requires |
| ≻ | sufficient | the reciprocal of anyof |

## Constraints

Constraints follow ` + "`@@@`" + `:

- ` + "`due(2026-03-01,severe)`" + ` - deadline with a consequence
- ` + "`window(2w,warn)`" + ` - rolling window
- ` + "`every(1w,escalating,escalate:!,stack)`" + ` - recurring

Consequences: severe, warn, escalating (with optional
` + "`escalate:<marks>`" + ` rate). ` + "`stack`" + ` applies to recurring only.

## Includes

` + "`#include <path>`" + ` lines before the first item merge another file's
items on load. Relative paths resolve against the including file.
Included items are saved back to their own file, never copied.

## Example

` + "```" + `
○ write_tests! 2d "Write the tests" {"release"} testing >>> ⊢[write_code] @@@ due(2026-03-01,warn)
` + "```" + `
`
