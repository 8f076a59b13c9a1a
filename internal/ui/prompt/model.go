// Package prompt asks a single question: a line of text or a yes/no.
package prompt

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui"
)

// DoneMsg carries the answer. Kind and Target are echoed from the request.
type DoneMsg struct {
	Kind      string
	Target    string
	Value     string
	Confirmed bool
}

// CancelMsg is dispatched when the user backs out.
type CancelMsg struct{}

type bindings struct {
	value   string
	confirm bool
}

// Model is a one-field huh form.
type Model struct {
	form   *huh.Form
	fb     *bindings
	kind   string
	target string
	width  int
}

// New creates a new prompt model.
func New(width int) Model {
	return Model{fb: &bindings{}, width: width}
}

// Ask opens a required text input prefilled with value.
func (m *Model) Ask(kind, target, title, value string) tea.Cmd {
	m.kind, m.target = kind, target
	*m.fb = bindings{value: value}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			Value(&m.fb.value).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("a value is required")
				}
				return nil
			}),
	)).WithKeyMap(ui.FormKeyMap()).WithWidth(m.formWidth())
	return m.form.Init()
}

// Confirm opens a yes/no question defaulting to no.
func (m *Model) Confirm(kind, target, title, description string) tea.Cmd {
	m.kind, m.target = kind, target
	*m.fb = bindings{}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative("Yes").
			Negative("Cancel").
			Value(&m.fb.confirm),
	)).WithKeyMap(ui.FormKeyMap()).WithWidth(m.formWidth())
	return m.form.Init()
}

// Update handles messages for the prompt.
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
		done := DoneMsg{
			Kind:      m.kind,
			Target:    m.target,
			Value:     strings.TrimSpace(m.fb.value),
			Confirmed: m.fb.confirm,
		}
		m.form = nil
		return m, func() tea.Msg { return done }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the prompt.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
}

// SetSize updates the prompt width.
func (m *Model) SetSize(width int) {
	m.width = width
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 80)
}
