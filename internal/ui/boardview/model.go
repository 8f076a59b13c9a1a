// Package boardview renders the active board as side-by-side columns and
// tracks the card cursor.
package boardview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/keys"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/theme"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

// minColumnWidth is the narrowest a column is drawn before the board
// scrolls horizontally.
const minColumnWidth = 28

// Model is the active board view.
type Model struct {
	keys  *keys.KeyMap
	board view.ActiveBoard

	col int
	row int

	// follow is the card id the cursor sticks to across refreshes.
	follow string

	offset int
	width  int
	height int
}

// New creates a new board view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetBoard replaces the derived board. The cursor stays on the card it was
// on, wherever that card now sits; otherwise it is clamped.
func (m *Model) SetBoard(b view.ActiveBoard) {
	m.board = b
	if m.follow != "" {
		for ci, col := range b.Columns {
			for ri, c := range col.Cards {
				if c.Card.ID == m.follow {
					m.col, m.row = ci, ri
					m.scroll()
					return
				}
			}
		}
	}
	m.clamp()
}

// Follow moves the cursor to id on the next SetBoard.
func (m *Model) Follow(id string) {
	m.follow = id
}

// FocusColumn moves the cursor to the column with id.
func (m *Model) FocusColumn(id string) {
	for i, col := range m.board.Columns {
		if col.Column.ID == id {
			m.col, m.row = i, 0
			m.clamp()
			return
		}
	}
}

// SelectedCard returns the card under the cursor.
func (m Model) SelectedCard() (view.CardView, bool) {
	col, ok := m.SelectedColumn()
	if !ok || m.row < 0 || m.row >= len(col.Cards) {
		return view.CardView{}, false
	}
	return col.Cards[m.row], true
}

// SelectedColumn returns the column under the cursor.
func (m Model) SelectedColumn() (view.ActiveColumn, bool) {
	if m.col < 0 || m.col >= len(m.board.Columns) {
		return view.ActiveColumn{}, false
	}
	return m.board.Columns[m.col], true
}

// Update handles cursor movement.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(km, m.keys.Left):
		if m.col > 0 {
			m.col--
			m.row = 0
		}
	case key.Matches(km, m.keys.Right):
		if m.col < len(m.board.Columns)-1 {
			m.col++
			m.row = 0
		}
	case key.Matches(km, m.keys.Down):
		m.row++
	case key.Matches(km, m.keys.Up):
		m.row--
	default:
		return m, nil
	}
	m.clamp()
	return m, nil
}

func (m *Model) clamp() {
	if m.col >= len(m.board.Columns) {
		m.col = len(m.board.Columns) - 1
	}
	if m.col < 0 {
		m.col = 0
	}
	n := 0
	if col, ok := m.SelectedColumn(); ok {
		n = len(col.Cards)
	}
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
	m.follow = ""
	if c, ok := m.SelectedCard(); ok {
		m.follow = c.Card.ID
	}
	m.scroll()
}

// scroll keeps the focused column inside the visible window.
func (m *Model) scroll() {
	visible := m.visibleColumns()
	if m.col < m.offset {
		m.offset = m.col
	}
	if m.col >= m.offset+visible {
		m.offset = m.col - visible + 1
	}
	if last := len(m.board.Columns) - visible; m.offset > last {
		m.offset = last
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) visibleColumns() int {
	n := m.width / minColumnWidth
	if n < 1 {
		n = 1
	}
	if n > len(m.board.Columns) && len(m.board.Columns) > 0 {
		n = len(m.board.Columns)
	}
	return n
}

// View renders the visible columns side by side.
func (m Model) View() string {
	if len(m.board.Columns) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No columns yet.\n\nPress N to add one.")
	}

	visible := m.visibleColumns()
	width := m.width / visible
	var rendered []string
	for i := m.offset; i < m.offset+visible && i < len(m.board.Columns); i++ {
		rendered = append(rendered, m.renderColumn(i, width))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderColumn(index, width int) string {
	col := m.board.Columns[index]
	focused := index == m.col

	style := theme.ColumnStyle
	if focused {
		style = theme.FocusedColumnStyle
	}
	// Border and padding take four cells.
	inner := width - 4
	if inner < 8 {
		inner = 8
	}

	title := theme.ColumnTitleStyle.Render(ansi.Truncate(col.Column.Name, inner, "…"))
	meta := col.Summary.Header
	if col.Filtered {
		meta += " • filtered"
	}
	header := lipgloss.JoinVertical(lipgloss.Left, title, theme.DimmedStyle.Render(ansi.Truncate(meta, inner, "…")), "")

	var blocks []string
	for ri, c := range col.Cards {
		block := renderCard(c, inner, focused && ri == m.row)
		if c.Group != "" && (ri == 0 || col.Cards[ri-1].Group != c.Group) {
			heading := theme.DimmedStyle.Render(ansi.Truncate(c.Group, inner, "…"))
			block = lipgloss.JoinVertical(lipgloss.Left, heading, block)
		}
		blocks = append(blocks, block)
	}
	if len(blocks) == 0 {
		blocks = append(blocks, theme.HelpStyle.Render("empty"))
	}

	// Two border rows and three header rows.
	budget := m.height - 5
	body := window(blocks, m.row, focused, budget)

	return style.
		Width(width - 2).
		Height(m.height - 2).
		MaxHeight(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

// window picks the card blocks that fit in budget lines, keeping the
// selected block in view for the focused column.
func window(blocks []string, selected int, focused bool, budget int) string {
	if budget < 1 {
		return ""
	}
	start := 0
	if focused {
		used := 0
		for i := selected; i >= 0; i-- {
			used += lipgloss.Height(blocks[i])
			if used > budget {
				break
			}
			start = i
		}
	}
	var out []string
	used := 0
	for _, b := range blocks[start:] {
		h := lipgloss.Height(b)
		if used+h > budget {
			break
		}
		out = append(out, b)
		used += h
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func renderCard(c view.CardView, width int, selected bool) string {
	style := theme.CardStyle
	if selected {
		style = theme.SelectedCardStyle
	}
	inner := width - 3

	lines := []string{ansi.Truncate(c.Card.Title, inner, "…")}

	chipWidth := inner - 8
	if chipWidth < 4 {
		chipWidth = 4
	}
	chip := theme.ChipStyle(c.CategoryColor, c.TextColor).Render(ansi.Truncate(c.CategoryName, chipWidth, "…"))
	if c.Duration != "" {
		chip += " " + theme.DimmedStyle.Render(c.Duration)
	}
	lines = append(lines, chip)

	if c.Badge != view.BadgeNone {
		lines = append(lines, fmt.Sprintf("%s %s",
			theme.BadgeStyle(c.Badge).Render(theme.BadgeLabel(c.Badge)),
			theme.DimmedStyle.Render(c.Clock),
		))
	}

	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scroll()
}
