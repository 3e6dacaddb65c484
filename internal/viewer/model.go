// Package viewer is a terminal UI for paging through decoded screenshots.
package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stlalpha/trs80assets/internal/export"
	"github.com/stlalpha/trs80assets/internal/preview"
	"github.com/stlalpha/trs80assets/internal/screenshot"
)

const (
	minWidth  = screenshot.Columns + 2 // screen plus border
	minHeight = screenshot.Rows + 4    // title, border and help line
)

var (
	// Model III green phosphor.
	screenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("4")).
			Bold(true).
			Padding(0, 1)

	positionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

// Model is the BubbleTea model for the screenshot viewer.
type Model struct {
	entries []export.Entry
	cursor  int
	width   int
	height  int
	keys    keyMap
	help    help.Model
}

// New creates a viewer over entries, starting at the first one.
func New(entries []export.Entry) Model {
	return Model{
		entries: entries,
		keys:    defaultKeys(),
		help:    help.New(),
		width:   minWidth,
		height:  minHeight,
	}
}

// Current returns the entry on screen, if any.
func (m Model) Current() (export.Entry, bool) {
	if len(m.entries) == 0 {
		return export.Entry{}, false
	}
	return m.entries[m.cursor], true
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("TRS-80 Screenshots")
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Prev):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.First):
			m.cursor = 0
		case key.Matches(msg, m.keys.Last):
			m.cursor = max(len(m.entries)-1, 0)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func entryTitle(e export.Entry) string {
	if e.Index < 0 {
		return e.Name
	}
	return fmt.Sprintf("%s (%d)", e.Name, e.Index)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	e, ok := m.Current()
	if !ok {
		b.WriteString(errorStyle.Render("No screenshots selected."))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	if m.width < minWidth || m.height < minHeight {
		return errorStyle.Render(fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d",
			minWidth, minHeight, m.width, m.height))
	}

	b.WriteString(titleStyle.Render(entryTitle(e)))
	b.WriteString(" ")
	b.WriteString(positionStyle.Render(fmt.Sprintf("%d/%d", m.cursor+1, len(m.entries))))
	b.WriteString("\n")

	if e.Err != nil {
		b.WriteString(errorStyle.Render("Error: " + e.Err.Error()))
		b.WriteString("\n")
	} else {
		body := strings.Join(preview.Lines(e.Screen, preview.Options{}), "\n")
		b.WriteString(screenStyle.Render(body))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}
