package catmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/board"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/keys"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/theme"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

// Manager is the category half of the board.
type Manager interface {
	Categories() []model.Category
	AddCategory(ctx context.Context, name, color string) (model.Category, error)
	UpdateCategory(ctx context.Context, id string, name, color *string) (model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// CategoryListCloseMsg signals the parent to close the category view.
type CategoryListCloseMsg struct{}

// CategoryChangedMsg signals that categories were modified.
type CategoryChangedMsg struct{}

type catMode int

const (
	modeList catMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name    string
	color   string
	confirm bool
}

type categorySavedMsg struct{ err error }
type categoryDeletedMsg struct{ err error }

// Model is the Bubble Tea model for category management.
type Model struct {
	mode        catMode
	manager     Manager
	keys        *keys.KeyMap
	categories  []model.Category
	selectedIdx int
	editingID   string
	isNew       bool
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new category manager model.
func New(mgr Manager, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:    modeList,
		manager: mgr,
		keys:    k,
		fb:      &formBindings{},
		width:   width, height: height,
	}
}

// Open resets the manager to its list.
func (m *Model) Open() {
	m.mode = modeList
	m.statusMsg = ""
	m.reload()
}

func (m *Model) reload() {
	m.categories = m.manager.Categories()
	if m.selectedIdx >= len(m.categories) {
		m.selectedIdx = max(len(m.categories)-1, 0)
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categorySavedMsg:
		m.statusMsg = "Category saved"
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		}
		m.mode = modeList
		m.reload()
		return m, func() tea.Msg { return CategoryChangedMsg{} }

	case categoryDeletedMsg:
		m.statusMsg = "Category deleted"
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		}
		m.mode = modeList
		m.reload()
		return m, func() tea.Msg { return CategoryChangedMsg{} }

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.handleListKey(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CategoryListCloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.categories) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.categories)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.categories) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.categories) - 1
			}
		}
		return m, nil

	case msg.String() == "n":
		m.isNew = true
		m.editingID = ""
		m.fb.name = ""
		m.fb.color = model.DefaultCategoryColor
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "e":
		if len(m.categories) == 0 {
			return m, nil
		}
		c := m.categories[m.selectedIdx]
		m.isNew = false
		m.editingID = c.ID
		m.fb.name = c.Name
		m.fb.color = c.Color
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "d":
		if len(m.categories) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("e.g. Go, Algorithms, Spanish").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Color").
				Placeholder(model.DefaultCategoryColor).
				Value(&m.fb.color).
				Validate(func(s string) error {
					if s = strings.TrimSpace(s); s != "" && !board.ValidColor(s) {
						return fmt.Errorf("use a hex color like #007bff")
					}
					return nil
				}),
		),
	).WithKeyMap(ui.FormKeyMap()).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.selectedIdx < len(m.categories) {
		name = m.categories[m.selectedIdx].Name
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete category %q?", name)).
				Description("Its cards become uncategorized.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithKeyMap(ui.FormKeyMap()).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		m.form = nil
		return m, m.saveCategory()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		m.confirmForm = nil
		if m.fb.confirm && m.selectedIdx < len(m.categories) {
			return m, m.deleteCategory(m.categories[m.selectedIdx].ID)
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the category manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Categories"))
	b.WriteString("\n\n")

	if len(m.categories) == 0 {
		b.WriteString(theme.HelpStyle.Render("No categories yet. Press 'n' to create one."))
	} else {
		for i, c := range m.categories {
			label := theme.ChipStyle(c.Color, view.ContrastColor(c.Color)).Render(c.Name) +
				" " + theme.DimmedStyle.Render(c.Color)

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.DimmedStyle.Render("n new | e edit | d delete | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func (m Model) saveCategory() tea.Cmd {
	mgr := m.manager
	name, color := strings.TrimSpace(m.fb.name), strings.TrimSpace(m.fb.color)
	editID, isNew := m.editingID, m.isNew
	return func() tea.Msg {
		ctx := context.Background()
		if isNew {
			_, err := mgr.AddCategory(ctx, name, color)
			return categorySavedMsg{err: err}
		}
		var recolor *string
		if color != "" {
			recolor = &color
		}
		_, err := mgr.UpdateCategory(ctx, editID, &name, recolor)
		return categorySavedMsg{err: err}
	}
}

func (m Model) deleteCategory(id string) tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		return categoryDeletedMsg{err: mgr.DeleteCategory(context.Background(), id)}
	}
}
