// Package archiveview renders archived cards grouped by column, day and
// category.
package archiveview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/keys"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/theme"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

// row is one selectable line: a column heading or a card.
type row struct {
	columnID string
	card     *view.CardView
	line     int
}

// Model is the archive view.
type Model struct {
	keys     *keys.KeyMap
	archive  view.ArchiveBoard
	rows     []row
	cursor   int
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new archive view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:     k,
		viewport: viewport.New(width, height),
		width:    width,
		height:   height,
	}
}

// SetArchive replaces the derived archive, keeping the cursor on the same
// card or column when it still exists.
func (m *Model) SetArchive(a view.ArchiveBoard) {
	var keep row
	if m.cursor < len(m.rows) {
		keep = m.rows[m.cursor]
	}
	m.archive = a
	m.render()

	m.cursor = min(m.cursor, len(m.rows)-1)
	for i, r := range m.rows {
		if keep.card != nil && r.card != nil && r.card.Card.ID == keep.card.Card.ID {
			m.cursor = i
			break
		}
		if keep.card == nil && r.card == nil && r.columnID == keep.columnID {
			m.cursor = i
			break
		}
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.render()
}

// SelectedCard returns the archived card under the cursor.
func (m Model) SelectedCard() (view.CardView, bool) {
	if m.cursor >= len(m.rows) || m.rows[m.cursor].card == nil {
		return view.CardView{}, false
	}
	return *m.rows[m.cursor].card, true
}

// SelectedColumnID returns the column the cursor is in.
func (m Model) SelectedColumnID() string {
	if m.cursor >= len(m.rows) {
		return ""
	}
	return m.rows[m.cursor].columnID
}

// Update handles cursor movement and scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
			m.render()
			return m, nil
		case key.Matches(km, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			m.render()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// render rebuilds the document and the selectable rows, then scrolls the
// cursor into view.
func (m *Model) render() {
	var lines []string
	m.rows = m.rows[:0]
	width := m.width - 2

	selectable := func(r row, text string) {
		r.line = len(lines)
		selected := len(m.rows) == m.cursor
		m.rows = append(m.rows, r)
		if selected {
			lines = append(lines, theme.SelectedItemStyle.Render(ansi.Truncate(text, width-2, "…")))
			return
		}
		lines = append(lines, theme.ListItemStyle.Render(ansi.Truncate(text, width-2, "…")))
	}

	for _, col := range m.archive.Columns {
		heading := fmt.Sprintf("%s  %s", theme.ColumnTitleStyle.Render(col.Column.Name), theme.DimmedStyle.Render(col.Summary.Header))
		if col.Filtered {
			heading += theme.DimmedStyle.Render(" • filtered")
		}
		selectable(row{columnID: col.Column.ID}, heading)

		if len(col.Days) == 0 {
			lines = append(lines, theme.ListItemStyle.Render(theme.HelpStyle.Render("  no archived cards")))
		}
		for _, day := range col.Days {
			lines = append(lines, "  "+theme.SectionStyle.Render(day.Label)+"  "+theme.DimmedStyle.Render(day.Summary.Header))
			for _, group := range day.Categories {
				chip := theme.ChipStyle(group.Color, view.ContrastColor(group.Color)).Render(group.Name)
				lines = append(lines, "    "+chip+"  "+theme.DimmedStyle.Render(group.Summary.Header))
				for i := range group.Cards {
					c := &group.Cards[i]
					text := fmt.Sprintf("      %s  %s", c.Card.Title, theme.DimmedStyle.Render(cardMeta(*c)))
					selectable(row{columnID: col.Column.ID, card: c}, text)
				}
			}
		}
		lines = append(lines, "")
	}

	if len(m.archive.Columns) == 0 {
		lines = append(lines, theme.HelpStyle.Render("Nothing archived yet."))
	}

	m.viewport.SetContent(strings.Join(lines, "\n"))
	if m.cursor < len(m.rows) {
		line := m.rows[m.cursor].line
		switch {
		case line < m.viewport.YOffset:
			m.viewport.SetYOffset(line)
		case line >= m.viewport.YOffset+m.viewport.Height:
			m.viewport.SetYOffset(line - m.viewport.Height + 1)
		}
	}
}

func cardMeta(c view.CardView) string {
	parts := []string{c.Duration}
	if c.Card.TimeSpentMs > 0 {
		parts = append(parts, "spent "+view.FormatDuration(c.Card.TimeSpentMs))
	}
	return strings.Join(parts, " • ")
}

// View renders the archive.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Archive")
	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 1
	m.render()
}
