// Package tui is the interactive item browser.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gianttproject/giantt/internal/core/item"
	"github.com/gianttproject/giantt/internal/core/styles"
	"github.com/gianttproject/giantt/internal/data/itemfile"
)

// Model is the root bubbletea model.
type Model struct {
	path  string
	watch *Watcher

	list   list.Model
	footer string
	err    error

	width  int
	height int
}

// New creates the browser for the items file at path. watch may be nil
// to disable live reload.
func New(path string, watch *Watcher) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Giantt"
	l.Styles.Title = styles.TitleStyle
	l.SetShowStatusBar(false)
	l.SetStatusBarItemName("item", "items")

	return Model{
		path:  path,
		watch: watch,
		list:  l,
	}
}

type reloadedMsg struct {
	items    []item.Item
	warnings int
	err      error
}

type fileChangedMsg struct{}

// Init kicks off the initial load and the change listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.reload, m.waitForChange)
}

// reload loads the items file and sorts it for display. A cycle keeps
// file order; the load error itself lands in the footer.
func (m Model) reload() tea.Msg {
	file, err := itemfile.Load(m.path)
	if err != nil {
		return reloadedMsg{err: err}
	}

	items, err := file.Store.Sorted()
	if err != nil {
		items = file.Store.All()
	}
	return reloadedMsg{items: items, warnings: len(file.Warnings)}
}

func (m Model) waitForChange() tea.Msg {
	if m.watch == nil {
		return nil
	}
	if _, ok := <-m.watch.Changes(); !ok {
		return nil
	}
	return fileChangedMsg{}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case reloadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil

		entries := make([]list.Item, len(msg.items))
		for i, it := range msg.items {
			entries[i] = listEntry{it: it}
		}
		cmd := m.list.SetItems(entries)

		m.footer = fmt.Sprintf("%d items", len(msg.items))
		if msg.warnings > 0 {
			m.footer += fmt.Sprintf("  %d warning(s), see log", msg.warnings)
		}
		return m, cmd

	case fileChangedMsg:
		return m, tea.Batch(m.reload, m.waitForChange)

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.reload
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return styles.ErrorStyle.Render("Error: "+m.err.Error()) + "\n\nPress q to quit.\n"
	}

	footer := styles.MutedStyle.Render(m.footer + "  •  r reload  / filter  q quit")
	return m.list.View() + "\n" + footer
}
