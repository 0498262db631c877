// Package chart renders text timelines of items grouped by chart name.
package chart

import (
	"fmt"
	"strings"

	"github.com/gianttproject/giantt/internal/core/item"
	"github.com/gianttproject/giantt/internal/core/styles"
)

// DefaultWidth is used when the terminal width cannot be detected.
const DefaultWidth = 80

const minBarWidth = 10

// Render draws every chart whose name contains the query (all charts if
// the query is empty), one bar per item scaled to the longest duration.
func Render(items []item.Item, query string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	groups, order := group(items, query)
	if len(order) == 0 {
		if query != "" {
			return fmt.Sprintf("No items found in chart %q\n", query)
		}
		return "No charted items.\n"
	}

	var b strings.Builder
	for i, name := range order {
		if i > 0 {
			b.WriteByte('\n')
		}
		renderChart(&b, name, groups[name], width)
	}
	return b.String()
}

// group collects items per chart name, preserving item order inside a
// chart and first-seen order across charts.
func group(items []item.Item, query string) (map[string][]item.Item, []string) {
	query = strings.ToLower(query)
	groups := map[string][]item.Item{}
	var order []string

	for _, it := range items {
		for _, chart := range it.Charts {
			if query != "" && !strings.Contains(strings.ToLower(chart), query) {
				continue
			}
			if _, seen := groups[chart]; !seen {
				order = append(order, chart)
			}
			groups[chart] = append(groups[chart], it)
		}
	}
	return groups, order
}

func renderChart(b *strings.Builder, name string, items []item.Item, width int) {
	b.WriteString(styles.TitleStyle.Render(name))
	b.WriteByte('\n')

	labelWidth := 0
	maxSeconds := 0.0
	for _, it := range items {
		if n := len(it.ID) + len(it.Priority.Marks()); n > labelWidth {
			labelWidth = n
		}
		if s := it.Duration.Seconds(); s > maxSeconds {
			maxSeconds = s
		}
	}

	// glyph + space + label + space take the left gutter; bars scale
	// into what remains.
	barWidth := width - labelWidth - 4
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	for _, it := range items {
		label := it.ID + it.Priority.Marks()
		glyph := styles.StatusStyle(it.Status).Render(it.Status.Glyph())

		bar := ""
		if maxSeconds > 0 && !it.Duration.IsZero() {
			n := int(it.Duration.Seconds() / maxSeconds * float64(barWidth))
			if n < 1 {
				n = 1
			}
			bar = styles.StatusStyle(it.Status).Render(strings.Repeat("█", n))
		}

		fmt.Fprintf(b, "%s %-*s %s %s\n",
			glyph,
			labelWidth, label,
			bar,
			styles.MutedStyle.Render(it.Duration.String()),
		)
	}
}

// Summary renders a one-line listing per chart, the compact form used
// by show --chart.
func Summary(items []item.Item, query string) string {
	groups, order := group(items, query)
	if len(order) == 0 {
		return fmt.Sprintf("No items found in chart %q\n", query)
	}

	var b strings.Builder
	for _, name := range order {
		fmt.Fprintf(&b, "Chart %q:\n", name)
		for _, it := range groups[name] {
			fmt.Fprintf(&b, "  - %s %s\n", it.ID, it.Title)
		}
	}
	return b.String()
}

// Width clamps a configured width, applying the fallback for zero.
func Width(configured, detected int) int {
	switch {
	case configured > 0:
		return configured
	case detected > 0:
		return detected
	default:
		return DefaultWidth
	}
}
