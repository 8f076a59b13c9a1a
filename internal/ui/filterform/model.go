// Package filterform picks the categories a column is limited to.
package filterform

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui"
)

// FilterChosenMsg carries the selected category ids. An empty selection
// means the column shows every card.
type FilterChosenMsg struct {
	ColumnID    string
	CategoryIDs []string
}

// FilterCancelMsg is dispatched when the user cancels the form.
type FilterCancelMsg struct{}

// Model is the column filter form.
type Model struct {
	form     *huh.Form
	selected *[]string
	columnID string
	width    int
	height   int
}

// New creates a new filter form model.
func New(width, height int) Model {
	return Model{selected: new([]string), width: width, height: height}
}

// Start opens the form for column with the current filter preselected.
func (m *Model) Start(column model.Column, categories []model.Category, current []string) tea.Cmd {
	m.columnID = column.ID
	*m.selected = append([]string(nil), current...)

	opts := make([]huh.Option[string], len(categories))
	for i, c := range categories {
		opts[i] = huh.NewOption(c.Name, c.ID)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(fmt.Sprintf("Show in %q", column.Name)).
				Description("x toggles, ctrl+a selects all. Nothing selected shows every card.").
				Options(opts...).
				Value(m.selected),
		),
	).WithKeyMap(ui.FormKeyMap()).WithWidth(min(max(m.width-4, 40), 100)).WithHeight(max(m.height-4, 10))
	return m.form.Init()
}

// Update handles messages for the filter form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		chosen := FilterChosenMsg{ColumnID: m.columnID, CategoryIDs: append([]string(nil), *m.selected...)}
		m.form = nil
		return m, func() tea.Msg { return chosen }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return FilterCancelMsg{} }
	}
	return m, cmd
}

// View renders the filter form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
