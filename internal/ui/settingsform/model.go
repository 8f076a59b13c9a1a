// Package settingsform edits the dashboard settings and the display
// settings of one column.
package settingsform

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui"
)

// SettingsSavedMsg carries the edited settings.
type SettingsSavedMsg struct {
	SectionMode model.SectionDisplayMode
	Column      model.ColumnSettings
}

// SettingsCancelMsg is dispatched when the user cancels the form.
type SettingsCancelMsg struct{}

type formBindings struct {
	section      model.SectionDisplayMode
	display      model.ColumnDisplayMode
	count        model.CountDisplay
	showDuration bool
}

// Model is the settings form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	column model.ColumnSettings
	width  int
	height int
}

// New creates a new settings form model.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Start opens the form. column names the column whose settings are edited.
func (m *Model) Start(mode model.SectionDisplayMode, column model.Column, settings model.ColumnSettings) tea.Cmd {
	m.column = settings
	*m.fb = formBindings{
		section:      mode,
		display:      settings.DisplayMode,
		count:        settings.CountDisplay,
		showDuration: settings.ShowCardDuration,
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.SectionDisplayMode]().
				Title("Archive section headers").
				Options(
					huh.NewOption("Card count", model.DisplayCardsOnly),
					huh.NewOption("Card count and total duration", model.DisplayCardsAndDuration),
				).
				Value(&m.fb.section),
		),
		huh.NewGroup(
			huh.NewSelect[model.ColumnDisplayMode]().
				Title(fmt.Sprintf("%q groups cards by", column.Name)).
				Options(
					huh.NewOption("Category", model.ColumnByCategory),
					huh.NewOption("Date", model.ColumnByDate),
				).
				Value(&m.fb.display),
			huh.NewSelect[model.CountDisplay]().
				Title("Column header shows").
				Options(
					huh.NewOption("Number of cards", model.CountCards),
					huh.NewOption("Total planned duration", model.CountDuration),
				).
				Value(&m.fb.count),
			huh.NewConfirm().
				Title("Show planned duration on cards?").
				Value(&m.fb.showDuration),
		),
	).WithKeyMap(ui.FormKeyMap()).WithWidth(min(max(m.width-4, 40), 100)).WithHeight(max(m.height-4, 10))
	return m.form.Init()
}

// Update handles messages for the settings form.
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
		col := m.column
		col.DisplayMode = m.fb.display
		col.CountDisplay = m.fb.count
		col.ShowCardDuration = m.fb.showDuration
		saved := SettingsSavedMsg{SectionMode: m.fb.section, Column: col}
		m.form = nil
		return m, func() tea.Msg { return saved }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return SettingsCancelMsg{} }
	}
	return m, cmd
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	title := lipgloss.NewStyle().Bold(true).MarginBottom(1).Render("Settings")
	return lipgloss.NewStyle().Padding(1, 2).Render(title + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
