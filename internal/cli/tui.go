package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/archdiagram/pkg/catalog"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// DiagramPicker - Interactive diagram selection
// =============================================================================

// DiagramPicker is the bubbletea model for choosing which diagrams to render.
// Space toggles a diagram, a toggles all, enter confirms.
type DiagramPicker struct {
	Entries   []catalog.Entry
	Cursor    int
	Chosen    map[int]bool
	Confirmed bool
	Height    int
	Offset    int
}

// NewDiagramPicker creates a picker over entries with nothing chosen.
func NewDiagramPicker(entries []catalog.Entry) DiagramPicker {
	return DiagramPicker{
		Entries: entries,
		Chosen:  make(map[int]bool),
		Height:  15,
	}
}

func (m DiagramPicker) Init() tea.Cmd {
	return nil
}

func (m DiagramPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Chosen = map[int]bool{}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
		case "a":
			all := len(m.Selected()) < len(m.Entries)
			for i := range m.Entries {
				m.Chosen[i] = all
			}
		case "enter":
			if len(m.Entries) == 0 {
				return m, tea.Quit
			}
			if len(m.Selected()) == 0 {
				m.Chosen[m.Cursor] = true
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
	}
	return m, nil
}

// Selected returns the chosen diagram names in catalog order.
func (m DiagramPicker) Selected() []string {
	var names []string
	for i, e := range m.Entries {
		if m.Chosen[i] {
			names = append(names, e.Name)
		}
	}
	return names
}

func (m DiagramPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Diagrams"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "○"
		if m.Chosen[i] {
			mark = "●"
		}
		rows = append(rows, []string{cursor, mark, e.Name, e.Description})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Diagram", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case m.Chosen[idx]:
				return lipgloss.NewStyle().Foreground(colorGreen)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d selected · [%d/%d]", len(m.Selected()), m.Cursor+1, len(m.Entries))))

	return b.String()
}

// pickDiagrams runs the picker and returns the confirmed selection, or nil
// when the user quits.
func pickDiagrams(entries []catalog.Entry) ([]string, error) {
	final, err := tea.NewProgram(NewDiagramPicker(entries)).Run()
	if err != nil {
		return nil, fmt.Errorf("diagram picker: %w", err)
	}
	m, ok := final.(DiagramPicker)
	if !ok || !m.Confirmed {
		return nil, nil
	}
	return m.Selected(), nil
}
