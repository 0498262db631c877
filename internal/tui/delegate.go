package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gianttproject/giantt/internal/core/item"
	"github.com/gianttproject/giantt/internal/core/styles"
)

// listEntry wraps an item for the list component.
type listEntry struct {
	it item.Item
}

// FilterValue returns the value used for filtering.
func (e listEntry) FilterValue() string {
	return fmt.Sprintf("%s %s %s", e.it.ID, e.it.Title, strings.Join(e.it.Tags, " "))
}

// itemDelegate renders one item as two lines: glyph, id and title, then
// a muted detail line.
type itemDelegate struct{}

func (d itemDelegate) Height() int  { return 2 }
func (d itemDelegate) Spacing() int { return 1 }

func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	entry, ok := li.(listEntry)
	if !ok {
		return
	}
	it := entry.it

	width := m.Width()
	if width <= 0 {
		width = 80
	}
	contentWidth := width - 4

	glyph := styles.StatusStyle(it.Status).Render(it.Status.Glyph())
	label := it.ID + it.Priority.Marks()
	title := it.Title
	line1 := fmt.Sprintf("%s %s  %s", glyph, label, title)

	detail := it.Duration.String()
	if len(it.Charts) > 0 {
		detail += "  {" + strings.Join(it.Charts, ",") + "}"
	}
	if reqs := it.Requires(); len(reqs) > 0 {
		detail += "  ⊢ " + strings.Join(reqs, ",")
	}
	if runes := []rune(detail); len(runes) > contentWidth && contentWidth > 3 {
		detail = string(runes[:contentWidth-3]) + "..."
	}
	line2 := styles.MutedStyle.Render(detail)

	border := "  "
	if index == m.Index() {
		border = styles.SelectedStyle.Render("┃") + " "
		line1 = styles.SelectedStyle.Render(fmt.Sprintf("%s %s  %s", it.Status.Glyph(), label, title))
	}

	_, _ = fmt.Fprintf(w, "%s%s\n", border, line1)
	_, _ = fmt.Fprintf(w, "%s%s", border, line2)
}
