package cardform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/board"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/theme"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui"
)

// CardCreatedMsg is dispatched when a new card is submitted.
type CardCreatedMsg struct {
	Input board.CardInput
}

// CardUpdatedMsg is dispatched when an existing card is submitted.
type CardUpdatedMsg struct {
	ID     string
	Update board.CardUpdate
}

// CardFormCancelMsg is dispatched when the user cancels the form.
type CardFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	category    string
	columnID    string
	hours       string
	minutes     string
	assigned    string
}

// Model is the Bubble Tea model for the card create/edit form.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	editMode   bool
	editID     string
	categories []model.Category
	columns    []model.Column
	width      int
	height     int
}

// New creates a new card form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetOptions sets the categories and columns offered by the selectors.
func (m *Model) SetOptions(categories []model.Category, columns []model.Column) {
	m.categories = categories
	m.columns = columns
}

// StartCreate initializes the form for a new card in columnID.
func (m *Model) StartCreate(columnID string, today time.Time) tea.Cmd {
	m.editMode = false
	m.editID = ""
	*m.fb = formBindings{
		columnID: columnID,
		hours:    "0",
		minutes:  "30",
		assigned: today.Format("2006-01-02"),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing card.
func (m *Model) StartEdit(card model.Card) tea.Cmd {
	m.editMode = true
	m.editID = card.ID
	*m.fb = formBindings{
		title:       card.Title,
		description: card.Description,
		columnID:    card.ColumnID,
		hours:       strconv.Itoa(card.DurationMinutes / 60),
		minutes:     strconv.Itoa(card.DurationMinutes % 60),
	}
	if !card.AssignedDate.IsZero() {
		m.fb.assigned = card.AssignedDate.Local().Format("2006-01-02")
	}
	if card.CategoryID != nil {
		for _, c := range m.categories {
			if c.ID == *card.CategoryID {
				m.fb.category = c.Name
			}
		}
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the card form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CardFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the card form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Card"
	if m.editMode {
		titleText = "Edit Card"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What are you learning?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional notes...").
			Value(&m.fb.description),
		m.categoryField(),
	}
	if len(m.columns) > 0 {
		fields = append(fields, m.columnField())
	}
	fields = append(fields,
		huh.NewInput().
			Title("Hours").
			Value(&m.fb.hours).
			Validate(validateCount),
		huh.NewInput().
			Title("Minutes").
			Value(&m.fb.minutes).
			Validate(validateCount),
		huh.NewInput().
			Title("Assigned date").
			Placeholder("YYYY-MM-DD").
			Value(&m.fb.assigned).
			Validate(validateOptionalDate),
	)

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithKeyMap(ui.FormKeyMap()).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) categoryField() huh.Field {
	opts := []huh.Option[string]{
		huh.NewOption(model.UncategorizedName, ""),
	}
	for _, c := range m.categories {
		opts = append(opts, huh.NewOption(c.Name, c.Name))
	}
	return huh.NewSelect[string]().
		Title("Category").
		Options(opts...).
		Value(&m.fb.category)
}

func (m *Model) columnField() huh.Field {
	opts := make([]huh.Option[string], len(m.columns))
	for i, c := range m.columns {
		opts[i] = huh.NewOption(c.Name, c.ID)
	}
	return huh.NewSelect[string]().
		Title("Column").
		Options(opts...).
		Value(&m.fb.columnID)
}

func (m Model) handleSubmit() tea.Cmd {
	fb := *m.fb
	hours, _ := strconv.Atoi(strings.TrimSpace(fb.hours))
	minutes, _ := strconv.Atoi(strings.TrimSpace(fb.minutes))

	var assigned time.Time
	if s := strings.TrimSpace(fb.assigned); s != "" {
		if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			assigned = t
		}
	}

	if m.editMode {
		total := board.Minutes(hours, minutes)
		upd := board.CardUpdate{
			Title:           &fb.title,
			Description:     &fb.description,
			Category:        &fb.category,
			DurationMinutes: &total,
		}
		if fb.columnID != "" {
			upd.ColumnID = &fb.columnID
		}
		if !assigned.IsZero() {
			upd.AssignedDate = &assigned
		}
		id := m.editID
		return func() tea.Msg { return CardUpdatedMsg{ID: id, Update: upd} }
	}

	in := board.CardInput{
		Title:           fb.title,
		Description:     fb.description,
		Category:        fb.category,
		ColumnID:        fb.columnID,
		DurationHours:   hours,
		DurationMinutes: minutes,
		AssignedDate:    assigned,
	}
	return func() tea.Msg { return CardCreatedMsg{Input: in} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateCount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number, 0 or more")
	}
	return nil
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
