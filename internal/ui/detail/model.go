package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/keys"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/theme"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

// BackMsg signals the parent to navigate back to the board or archive.
type BackMsg struct{}

// Model is the card detail view component.
type Model struct {
	card     *view.CardView
	column   string
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.Back) {
		return m, func() tea.Msg { return BackMsg{} }
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.card == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No card selected")
	}
	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.card == nil {
		return ""
	}

	c := m.card
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(c.Card.Title))

	badges := []string{theme.ChipStyle(c.CategoryColor, c.TextColor).Render(c.CategoryName)}
	if c.Badge != view.BadgeNone {
		badges = append(badges, "  ", theme.BadgeStyle(c.Badge).Render(theme.BadgeLabel(c.Badge)))
	}
	if c.Card.Archived {
		badges = append(badges, "  ", theme.DimmedStyle.Render("archived"))
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, badges...), "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(11)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	field := func(label, value string) {
		sections = append(sections, metaStyle.Render(label+":")+" "+valStyle.Render(value))
	}

	field("Column", m.column)
	field("Planned", view.FormatMinutes(c.Card.DurationMinutes))
	field("Spent", fmt.Sprintf("%s (%s)", c.Clock, view.FormatDuration(c.Card.TimeSpentMs)))
	if !c.Card.AssignedDate.IsZero() {
		field("Assigned", c.Card.AssignedDate.Local().Format("2006-01-02"))
	}
	field("Created", c.Card.CreatedAt.Local().Format("2006-01-02 15:04"))
	if c.Card.ArchivedAt != nil {
		field("Archived", c.Card.ArchivedAt.Local().Format("2006-01-02 15:04"))
	}

	separator := lipgloss.NewStyle().Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))
	sections = append(sections, "", separator, "")

	sections = append(sections, lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Description"))

	body := c.Card.Description
	if body == "" {
		body = theme.HelpStyle.Render("No description")
	}
	sections = append(sections, lipgloss.NewStyle().Width(max(m.width-4, 20)).Render(body))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetCard updates the card being displayed and re-renders the content.
// column is the display name of the card's column.
func (m *Model) SetCard(card view.CardView, column string) {
	m.card = &card
	m.column = column
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Refresh re-renders the shown card from a newer view of it, keeping the
// scroll position. It is a no-op for a different card.
func (m *Model) Refresh(card view.CardView) {
	if m.card == nil || m.card.Card.ID != card.Card.ID {
		return
	}
	m.card = &card
	m.viewport.SetContent(m.renderContent())
}

// CardID returns the id of the card shown, if any.
func (m Model) CardID() string {
	if m.card == nil {
		return ""
	}
	return m.card.Card.ID
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}
