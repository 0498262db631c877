// Package styles provides shared lipgloss styles for CLI and TUI output.
package styles

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/gianttproject/giantt/internal/core/item"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Surface    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
	"catppuccin": {
		Primary:    lipgloss.Color("#89b4fa"),
		Secondary:  lipgloss.Color("#94e2d5"),
		Foreground: lipgloss.Color("#cdd6f4"),
		Muted:      lipgloss.Color("#6c7086"),
		Surface:    lipgloss.Color("#313244"),
		Success:    lipgloss.Color("#a6e3a1"),
		Warning:    lipgloss.Color("#f9e2af"),
		Error:      lipgloss.Color("#f38ba8"),
	},
	"onedark": {
		Primary:    lipgloss.Color("#61afef"),
		Secondary:  lipgloss.Color("#56b6c2"),
		Foreground: lipgloss.Color("#abb2bf"),
		Muted:      lipgloss.Color("#5c6370"),
		Surface:    lipgloss.Color("#31353f"),
		Success:    lipgloss.Color("#98c379"),
		Warning:    lipgloss.Color("#e5c07b"),
		Error:      lipgloss.Color("#e06c75"),
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Shared style exports, rebuilt by SetTheme.
var (
	TitleStyle    lipgloss.Style
	HeaderStyle   lipgloss.Style
	MutedStyle    lipgloss.Style
	SuccessStyle  lipgloss.Style
	WarningStyle  lipgloss.Style
	ErrorStyle    lipgloss.Style
	SelectedStyle lipgloss.Style

	statusStyles   map[item.Status]lipgloss.Style
	priorityStyles map[item.Priority]lipgloss.Style
)

func init() {
	SetTheme(themes[DefaultTheme])
}

// SetTheme rebuilds all exported styles from the given palette.
func SetTheme(p Palette) {
	CurrentPalette = p

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Secondary)
	MutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Foreground).Background(p.Surface)

	statusStyles = map[item.Status]lipgloss.Style{
		item.StatusNotStarted: lipgloss.NewStyle().Foreground(p.Muted),
		item.StatusInProgress: lipgloss.NewStyle().Foreground(p.Secondary),
		item.StatusBlocked:    lipgloss.NewStyle().Foreground(p.Error),
		item.StatusCompleted:  lipgloss.NewStyle().Foreground(p.Success),
	}
	priorityStyles = map[item.Priority]lipgloss.Style{
		item.PriorityLowest:   lipgloss.NewStyle().Foreground(p.Muted),
		item.PriorityLow:      lipgloss.NewStyle().Foreground(p.Muted),
		item.PriorityNeutral:  lipgloss.NewStyle().Foreground(p.Foreground),
		item.PriorityUnsure:   lipgloss.NewStyle().Foreground(p.Secondary),
		item.PriorityMedium:   lipgloss.NewStyle().Foreground(p.Warning),
		item.PriorityHigh:     lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		item.PriorityCritical: lipgloss.NewStyle().Foreground(p.Error).Bold(true),
	}
}

// StatusStyle returns the style for a status glyph.
func StatusStyle(s item.Status) lipgloss.Style {
	return statusStyles[s]
}

// PriorityStyle returns the style for a priority rendering.
func PriorityStyle(p item.Priority) lipgloss.Style {
	return priorityStyles[p]
}
