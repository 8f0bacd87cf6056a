package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/draddo11/Holiday/pkg/travel"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// LandmarkListModel - Interactive landmark selection
// =============================================================================

// LandmarkListModel is the bubbletea model for interactive landmark selection.
type LandmarkListModel struct {
	Landmarks []travel.Landmark
	Cursor    int
	Selected  *travel.Landmark
	Height    int
	Offset    int
}

// NewLandmarkListModel creates a new landmark list model.
func NewLandmarkListModel(landmarks []travel.Landmark) LandmarkListModel {
	return LandmarkListModel{Landmarks: landmarks, Height: 10}
}

func (m LandmarkListModel) Init() tea.Cmd {
	return nil
}

func (m LandmarkListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Landmarks)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Landmarks) == 0 {
				return m, tea.Quit
			}
			lm := m.Landmarks[m.Cursor]
			m.Selected = &lm
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m LandmarkListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Landmark"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Landmarks))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		lm := m.Landmarks[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, lm.Name, travel.DisplayName(lm.Destination)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Landmark", "Destination").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Landmarks))))

	return b.String()
}

// landmarkTable renders the full landmark table for non-interactive output.
func landmarkTable(landmarks []travel.Landmark) string {
	rows := make([][]string, 0, len(landmarks))
	for _, lm := range landmarks {
		rows = append(rows, []string{lm.ID, lm.Name, travel.DisplayName(lm.Destination)})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Landmark", "Destination").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return listHeaderStyle
			case col == 0:
				return StyleHighlight
			}
			return StyleValue
		}).
		Render()
}
