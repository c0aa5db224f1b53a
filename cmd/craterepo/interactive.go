package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fbkclanna/craterepo/internal/workspace"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// pickModel is a bubbletea model that selects one entry from a list. Typing
// narrows the list; enter takes the highlighted entry.
type pickModel struct {
	filter  textinput.Model
	title   string
	items   []string
	cursor  int
	choice  string
	done    bool
	aborted bool
}

func newPickModel(title string, items []string) pickModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Focus()
	return pickModel{
		filter: ti,
		title:  title,
		items:  items,
	}
}

func (m pickModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickModel) visible() []string {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if q == "" {
		return m.items
	}
	var out []string
	for _, it := range m.items {
		if strings.Contains(strings.ToLower(it), q) {
			out = append(out, it)
		}
	}
	return out
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down":
			if m.cursor < len(m.visible())-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			vis := m.visible()
			if len(vis) == 0 {
				return m, nil
			}
			m.choice = vis[m.cursor]
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if n := len(m.visible()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	return m, cmd
}

func (m pickModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	b.WriteString(m.filter.View() + "\n")
	vis := m.visible()
	if len(vis) == 0 {
		b.WriteString(dimStyle.Render("  no matches") + "\n")
	}
	for i, it := range vis {
		if i == m.cursor {
			b.WriteString("> " + selectedStyle.Render(it) + "\n")
		} else {
			b.WriteString("  " + it + "\n")
		}
	}
	return b.String()
}

// promptPackage asks the user which workspace package to operate on.
func promptPackage(packages []*workspace.Package) (*workspace.Package, error) {
	names := make([]string, 0, len(packages))
	byName := make(map[string]*workspace.Package, len(packages))
	for _, p := range packages {
		names = append(names, p.Name)
		byName[p.Name] = p
	}

	result, err := tea.NewProgram(newPickModel("Select a package", names)).Run()
	if err != nil {
		return nil, err
	}
	m := result.(pickModel)
	if m.aborted {
		return nil, fmt.Errorf("user aborted")
	}
	return byName[m.choice], nil
}
