package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/sim-vpi/vpi"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	moduleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type row struct {
	n     *node
	depth int
}

// browserModel browses a hierarchy snapshot. It never touches the
// simulator, so it can run on any goroutine after the simulation ended.
type browserModel struct {
	expanded  map[*node]bool
	title     string
	roots     []*node
	rows      []row
	filter    textinput.Model
	selected  int
	filtering bool
}

func newBrowserModel(title string, roots []*node) *browserModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter by hierarchical name"
	ti.Width = 40

	m := &browserModel{
		expanded: make(map[*node]bool),
		title:    title,
		roots:    roots,
		filter:   ti,
	}
	for _, r := range roots {
		m.expanded[r] = true
	}
	m.refresh()
	return m
}

// refresh rebuilds the visible rows. A non-empty filter flattens the tree to
// the matching objects.
func (m *browserModel) refresh() {
	m.rows = m.rows[:0]
	query := m.filter.Value()
	var walk func(ns []*node, depth int)
	walk = func(ns []*node, depth int) {
		for _, n := range ns {
			switch {
			case query != "":
				if strings.Contains(n.FullName, query) {
					m.rows = append(m.rows, row{n: n})
				}
				walk(n.Children, 0)
			default:
				m.rows = append(m.rows, row{n: n, depth: depth})
				if m.expanded[n] {
					walk(n.Children, depth+1)
				}
			}
		}
	}
	walk(m.roots, 0)
	if m.selected >= len(m.rows) {
		m.selected = max(len(m.rows)-1, 0)
	}
}

func (m *browserModel) current() *node {
	if m.selected < len(m.rows) {
		return m.rows[m.selected].n
	}
	return nil
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filtering {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
		case "enter":
			m.filtering = false
			m.filter.Blur()
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.selected = 0
			m.refresh()
			return m, cmd
		}
		m.refresh()
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.rows)-1 {
			m.selected++
		}

	case "enter", "right", "l":
		if n := m.current(); n != nil && len(n.Children) > 0 {
			m.expanded[n] = true
			m.refresh()
		}

	case "left", "h":
		if n := m.current(); n != nil {
			m.expanded[n] = false
			m.refresh()
		}

	case "/":
		m.filtering = true
		return m, m.filter.Focus()

	case "esc":
		m.filter.SetValue("")
		m.refresh()
	}
	return m, nil
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Design Hierarchy"))
	b.WriteString(" ")
	b.WriteString(m.title)
	b.WriteString("\n\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	if len(m.rows) == 0 {
		b.WriteString("No objects.\n")
	}
	for i, r := range m.rows {
		line := strings.Repeat("  ", r.depth) + m.formatNode(r.n)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if n := m.current(); n != nil {
		b.WriteString("\n")
		b.WriteString(typeStyle.Render(n.FullName))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • →/enter expand • ← collapse • / filter • q quit"))
	return b.String()
}

func (m *browserModel) formatNode(n *node) string {
	name := n.Name
	if m.filter.Value() != "" {
		name = n.FullName
	}
	if n.Type == vpi.ObjModule {
		marker := "+"
		if m.expanded[n] {
			marker = "-"
		}
		return fmt.Sprintf("%s %s %s", marker, moduleStyle.Render(name), typeStyle.Render(n.Type.String()))
	}
	s := fmt.Sprintf("%s %s", name, typeStyle.Render(fmt.Sprintf("%s[%d]", n.Type, n.Size)))
	if n.Value != "" {
		s += " = " + valueStyle.Render(n.Value)
	}
	return s
}

func runInteractive(filename string, roots []*node) error {
	p := tea.NewProgram(newBrowserModel(filename, roots), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
