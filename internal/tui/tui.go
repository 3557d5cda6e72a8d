// Package tui is an interactive browser for analysis issues.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xab-mack/mythx-cli/internal/model"
	"github.com/xab-mack/mythx-cli/internal/report"
)

type keyMap struct {
	Up, Down, ScrollUp, ScrollDown, Quit key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "previous issue")),
	Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "next issue")),
	ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll details")),
	ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll details")),
	Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	severityStyle = map[model.Severity]lipgloss.Style{
		model.SeverityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")),
		model.SeverityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107")),
		model.SeverityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3")),
	}
)

type entry struct {
	uuid      string
	issue     model.Issue
	positions []model.Position
}

type modelT struct {
	entries  []entry
	cursor   int
	viewport viewport.Model
	height   int
}

func flatten(items []model.ReportItem) []entry {
	var out []entry
	for _, item := range items {
		for _, r := range item.Issues.Reports {
			for _, issue := range r.Issues {
				out = append(out, entry{
					uuid:      item.Issues.UUID,
					issue:     issue,
					positions: issue.Positions(r.SourceList, item.Input),
				})
			}
		}
	}
	return out
}

func initialModel(items []model.ReportItem) modelT {
	m := modelT{entries: flatten(items), viewport: viewport.New(80, 10), height: 24}
	m.viewport.SetContent(m.details())
	return m
}

func (m modelT) Init() tea.Cmd { return nil }

func (m modelT) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(3, msg.Height/2-2)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.ScrollUp):
			m.viewport.HalfViewUp()
			return m, nil
		case key.Matches(msg, keys.ScrollDown):
			m.viewport.HalfViewDown()
			return m, nil
		}
		m.viewport.SetContent(m.details())
		m.viewport.GotoTop()
	}
	return m, nil
}

func (m modelT) details() string {
	if len(m.entries) == 0 {
		return "No issues found."
	}
	e := m.entries[m.cursor]
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s)\n", e.issue.SWCID, e.issue.Title(), e.issue.Severity)
	fmt.Fprintf(&b, "%s\n\n", report.DashboardLink(e.uuid))
	fmt.Fprintf(&b, "%s\n", e.issue.DescriptionLong())
	for _, p := range e.positions {
		if p.Resolved() {
			fmt.Fprintf(&b, "\n%s:%d\n\t%s\n", p.File, p.Line, p.Code)
		}
	}
	return b.String()
}

func (m modelT) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Issues (%d)", len(m.entries))))
	b.WriteString("\n\n")
	listHeight := max(3, m.height-m.viewport.Height-6)
	start := 0
	if m.cursor >= listHeight {
		start = m.cursor - listHeight + 1
	}
	for i := start; i < len(m.entries) && i < start+listHeight; i++ {
		e := m.entries[i]
		sev := string(e.issue.Severity)
		if st, ok := severityStyle[e.issue.Severity]; ok {
			sev = st.Render(sev)
		}
		line := fmt.Sprintf("%-8s %-10s %s", e.issue.SWCID, sev, e.issue.DescriptionShort())
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + m.viewport.View() + "\n")
	b.WriteString(mutedStyle.Render("↑/↓ select • pgup/pgdn scroll • q quit"))
	return b.String()
}

// Run opens the issue browser on the terminal.
func Run(items []model.ReportItem) error {
	p := tea.NewProgram(initialModel(items), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
