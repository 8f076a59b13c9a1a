package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/board"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/keys"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui/archiveview"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui/boardview"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui/cardform"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui/catmgr"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui/command"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui/detail"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui/filterform"
	helpview "github.com/oodarncairodepil-spec/learning-dashboard/internal/ui/help"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui/prompt"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/ui/settingsform"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewArchive
	ViewDetail
	ViewCardCreate
	ViewCardEdit
	ViewCategories
	ViewFilter
	ViewSettings
	ViewPrompt
	ViewHelp
	ViewCommand
)

// Prompt kinds.
const (
	promptNewColumn    = "new-column"
	promptRenameColumn = "rename-column"
	promptDeleteColumn = "delete-column"
	promptDeleteCard   = "delete-card"
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the board.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	board        *board.Board
	keys         *keys.KeyMap

	boardView    boardview.Model
	archiveView  archiveview.Model
	detail       detail.Model
	helpView     helpview.Model
	commandView  command.Model
	cardForm     cardform.Model
	categoryView catmgr.Model
	filterForm   filterform.Model
	settingsForm settingsform.Model
	prompt       prompt.Model

	snapshot  board.Snapshot
	ready     bool
	notice    string
	noticeSeq int
}

// New creates a new root application model over b.
func New(b *board.Board) Model {
	k := keys.DefaultKeyMap()
	return Model{
		currentView:  ViewBoard,
		board:        b,
		keys:         k,
		boardView:    boardview.New(k, 80, 24),
		archiveView:  archiveview.New(k, 80, 24),
		detail:       detail.New(k, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		commandView:  command.New(80, 24),
		cardForm:     cardform.New(80, 24),
		categoryView: catmgr.New(b, k, 80, 24),
		filterForm:   filterform.New(80, 24),
		settingsForm: settingsform.New(80, 24),
		prompt:       prompt.New(80),
	}
}

// Run starts the full-screen program and blocks until the user quits.
// Board ticks reach the program through relay.
func Run(b *board.Board, relay *TickRelay) error {
	p := tea.NewProgram(New(b), tea.WithAltScreen())
	relay.Attach(p)
	_, err := p.Run()
	return err
}

// Init loads the board.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.boardView.SetSize(w, h)
		m.archiveView.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.cardForm.SetSize(w, h)
		m.categoryView.SetSize(w, h)
		m.filterForm.SetSize(w, h)
		m.settingsForm.SetSize(w, h)
		m.prompt.SetSize(w)
		// huh forms need the size to lay themselves out.
		return m.updateActiveView(msg)

	case loadedMsg:
		m.refresh()
		if msg.err != nil {
			return m, m.notify("load: " + msg.err.Error())
		}
		return m, nil

	case actionResultMsg:
		if msg.err == nil && msg.follow != "" {
			m.boardView.Follow(msg.follow)
		}
		m.refresh()
		if msg.err == nil && msg.column != "" && m.selectedColumnID() != msg.column {
			m.boardView.FocusColumn(msg.column)
		}
		switch {
		case msg.err != nil:
			return m, m.notify(fmt.Sprintf("%s: %v", msg.op, msg.err))
		case msg.info != "":
			return m, m.notify(msg.info)
		}
		return m, nil

	case TickMsg:
		m.refresh()
		return m, nil

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case detail.BackMsg:
		m.currentView = m.previousView
		return m, nil

	case cardform.CardCreatedMsg:
		m.currentView = ViewBoard
		return m, m.addCard(msg.Input)

	case cardform.CardUpdatedMsg:
		m.currentView = m.previousView
		return m, m.updateCard(msg.ID, msg.Update)

	case cardform.CardFormCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case catmgr.CategoryListCloseMsg:
		m.currentView = m.previousView
		m.refresh()
		return m, nil

	case catmgr.CategoryChangedMsg:
		m.refresh()
		return m.updateActiveView(msg)

	case filterform.FilterChosenMsg:
		m.currentView = m.previousView
		if err := m.board.SetColumnFilter(msg.ColumnID, msg.CategoryIDs); err != nil {
			return m, m.notify("filter: " + err.Error())
		}
		m.refresh()
		return m, nil

	case filterform.FilterCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case settingsform.SettingsSavedMsg:
		m.currentView = m.previousView
		return m, m.run("settings", "", func(ctx context.Context, b *board.Board) error {
			if err := b.SetDisplayMode(ctx, msg.SectionMode); err != nil {
				return err
			}
			return b.UpdateColumnSettings(ctx, msg.Column)
		})

	case settingsform.SettingsCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case prompt.DoneMsg:
		m.currentView = m.previousView
		return m, m.answer(msg)

	case prompt.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if next, cmd, ok := m.handleKey(msg); ok {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleKey runs the shortcuts of the board, archive, help and command
// views. Forms get every key.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch m.currentView {
	case ViewHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false
	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false
	case ViewBoard, ViewArchive:
	default:
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.open(ViewHelp)
		return m, nil, true
	case key.Matches(msg, m.keys.Command):
		m.open(ViewCommand)
		return m, m.commandView.Focus(), true
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load(), true
	case key.Matches(msg, m.keys.Categories):
		return m, m.openCategories(), true
	case key.Matches(msg, m.keys.Settings):
		return m, m.openSettings(), true
	case key.Matches(msg, m.keys.FilterColumn):
		return m, m.openFilter(), true
	case key.Matches(msg, m.keys.ClearColumnFilter):
		if id := m.selectedColumnID(); id != "" {
			m.board.ClearColumnFilter(id)
			m.refresh()
		}
		return m, nil, true
	}

	if m.currentView == ViewArchive {
		return m.handleArchiveKey(msg)
	}
	return m.handleBoardKey(msg)
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	card, hasCard := m.boardView.SelectedCard()
	col, hasCol := m.boardView.SelectedColumn()

	switch {
	case key.Matches(msg, m.keys.Archive):
		m.currentView = ViewArchive
		return m, nil, true
	case key.Matches(msg, m.keys.Select):
		if hasCard {
			m.openDetail(card, col.Column.Name)
		}
		return m, nil, true
	case key.Matches(msg, m.keys.NewCard):
		return m, m.openCreate(), true
	case key.Matches(msg, m.keys.EditCard):
		if hasCard {
			return m, m.openEdit(card.Card), true
		}
		return m, nil, true
	case key.Matches(msg, m.keys.DeleteCard):
		if hasCard {
			return m, m.confirm(promptDeleteCard, card.Card.ID,
				fmt.Sprintf("Delete %q?", card.Card.Title), "The card and its tracked time are removed."), true
		}
		return m, nil, true
	case key.Matches(msg, m.keys.ArchiveCard):
		if hasCard {
			return m, m.archiveCard(card.Card.ID), true
		}
		return m, nil, true
	case key.Matches(msg, m.keys.MoveLeft):
		if hasCard {
			return m, m.moveCard(card.Card.ID, -1), true
		}
		return m, nil, true
	case key.Matches(msg, m.keys.MoveRight):
		if hasCard {
			return m, m.moveCard(card.Card.ID, 1), true
		}
		return m, nil, true
	case key.Matches(msg, m.keys.ToggleTimer):
		if hasCard {
			return m, m.toggleTimer(card.Card.ID), true
		}
		return m, nil, true
	case key.Matches(msg, m.keys.StopTimer):
		if hasCard {
			return m, m.stopTimer(card.Card.ID), true
		}
		return m, nil, true
	case key.Matches(msg, m.keys.NewColumn):
		return m, m.ask(promptNewColumn, "", "New column name", ""), true
	case key.Matches(msg, m.keys.RenameColumn):
		if hasCol {
			return m, m.ask(promptRenameColumn, col.Column.ID, "Rename column", col.Column.Name), true
		}
		return m, nil, true
	case key.Matches(msg, m.keys.DeleteColumn):
		if hasCol {
			return m, m.confirm(promptDeleteColumn, col.Column.ID,
				fmt.Sprintf("Delete column %q?", col.Column.Name),
				"Its cards move to the first remaining column."), true
		}
		return m, nil, true
	case key.Matches(msg, m.keys.ShiftColumnLeft):
		if hasCol {
			return m, m.shiftColumn(col.Column.ID, -1), true
		}
		return m, nil, true
	case key.Matches(msg, m.keys.ShiftColumnRight):
		if hasCol {
			return m, m.shiftColumn(col.Column.ID, 1), true
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) handleArchiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	card, hasCard := m.archiveView.SelectedCard()

	switch {
	case key.Matches(msg, m.keys.Archive, m.keys.Back):
		m.currentView = ViewBoard
		return m, nil, true
	case key.Matches(msg, m.keys.Select):
		if hasCard {
			m.openDetail(card, m.columnName(card.Card.ColumnID))
		}
		return m, nil, true
	case key.Matches(msg, m.keys.ArchiveCard):
		if hasCard {
			return m, m.unarchiveCard(card.Card.ID), true
		}
		return m, nil, true
	case key.Matches(msg, m.keys.DeleteCard):
		if hasCard {
			return m, m.confirm(promptDeleteCard, card.Card.ID,
				fmt.Sprintf("Delete %q?", card.Card.Title), "The card and its tracked time are removed."), true
		}
		return m, nil, true
	}
	return m, nil, false
}

// open switches to v, remembering where to go back to.
func (m *Model) open(v ViewState) {
	if m.currentView == ViewBoard || m.currentView == ViewArchive {
		m.previousView = m.currentView
	}
	m.currentView = v
}

func (m *Model) openDetail(card view.CardView, column string) {
	m.detail.SetCard(card, column)
	m.open(ViewDetail)
}

func (m *Model) openCreate() tea.Cmd {
	m.cardForm.SetOptions(m.snapshot.Categories, m.snapshot.Columns)
	col, _ := m.boardView.SelectedColumn()
	m.open(ViewCardCreate)
	return m.cardForm.StartCreate(col.Column.ID, m.snapshot.Now)
}

func (m *Model) openEdit(card model.Card) tea.Cmd {
	m.cardForm.SetOptions(m.snapshot.Categories, m.snapshot.Columns)
	m.open(ViewCardEdit)
	return m.cardForm.StartEdit(card)
}

func (m *Model) openCategories() tea.Cmd {
	m.categoryView.Open()
	m.open(ViewCategories)
	return nil
}

func (m *Model) openSettings() tea.Cmd {
	col, ok := m.boardView.SelectedColumn()
	if !ok {
		return nil
	}
	m.open(ViewSettings)
	return m.settingsForm.Start(m.board.DisplayMode(), col.Column, m.board.ColumnSettings(col.Column.ID))
}

func (m *Model) openFilter() tea.Cmd {
	id := m.selectedColumnID()
	if id == "" {
		return nil
	}
	col, ok := m.column(id)
	if !ok {
		return nil
	}
	m.open(ViewFilter)
	return m.filterForm.Start(col, m.snapshot.Categories, m.board.ColumnFilter(id))
}

func (m *Model) ask(kind, target, title, value string) tea.Cmd {
	m.open(ViewPrompt)
	return m.prompt.Ask(kind, target, title, value)
}

func (m *Model) confirm(kind, target, title, desc string) tea.Cmd {
	m.open(ViewPrompt)
	return m.prompt.Confirm(kind, target, title, desc)
}

// answer carries out the action a prompt asked about.
func (m Model) answer(msg prompt.DoneMsg) tea.Cmd {
	switch msg.Kind {
	case promptNewColumn:
		return m.addColumn(msg.Value)
	case promptRenameColumn:
		return m.renameColumn(msg.Target, msg.Value)
	case promptDeleteColumn:
		if msg.Confirmed {
			return m.deleteColumn(msg.Target)
		}
	case promptDeleteCard:
		if msg.Confirmed {
			return m.deleteCard(msg.Target)
		}
	}
	return nil
}

// selectedColumnID is the column under the cursor in the board or archive.
func (m Model) selectedColumnID() string {
	if m.currentView == ViewArchive {
		return m.archiveView.SelectedColumnID()
	}
	col, _ := m.boardView.SelectedColumn()
	return col.Column.ID
}

func (m Model) column(id string) (model.Column, bool) {
	for _, c := range m.snapshot.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return model.Column{}, false
}

func (m Model) columnName(id string) string {
	c, _ := m.column(id)
	return c.Name
}

// refresh rebuilds both boards from a fresh snapshot.
func (m *Model) refresh() {
	m.snapshot = m.board.Snapshot()
	active := view.BuildActive(m.snapshot.ActiveInput())
	archive := view.BuildArchive(m.snapshot.ArchiveInput())
	m.boardView.SetBoard(active)
	m.archiveView.SetArchive(archive)

	id := m.detail.CardID()
	if id == "" {
		return
	}
	if c, ok := findCard(active, archive, id); ok {
		m.detail.Refresh(c)
	} else if m.currentView == ViewDetail {
		m.currentView = m.previousView
	}
}

func findCard(active view.ActiveBoard, archive view.ArchiveBoard, id string) (view.CardView, bool) {
	for _, col := range active.Columns {
		for _, c := range col.Cards {
			if c.Card.ID == id {
				return c, true
			}
		}
	}
	for _, col := range archive.Columns {
		for _, day := range col.Days {
			for _, cat := range day.Categories {
				for _, c := range cat.Cards {
					if c.Card.ID == id {
						return c, true
					}
				}
			}
		}
	}
	return view.CardView{}, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewArchive:
		m.archiveView, cmd = m.archiveView.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewCardCreate, ViewCardEdit:
		m.cardForm, cmd = m.cardForm.Update(msg)
	case ViewCategories:
		m.categoryView, cmd = m.categoryView.Update(msg)
	case ViewFilter:
		m.filterForm, cmd = m.filterForm.Update(msg)
	case ViewSettings:
		m.settingsForm, cmd = m.settingsForm.Update(msg)
	case ViewPrompt:
		m.prompt, cmd = m.prompt.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "learnboard"
	if u := m.board.User(); u.Email != "" {
		title += " · " + u.Email
	}
	header := m.layout.RenderHeader(title, m.timerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.notice)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBoard:
		return m.boardView.View()
	case ViewArchive:
		return m.archiveView.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewCardCreate, ViewCardEdit:
		return m.cardForm.View()
	case ViewCategories:
		return m.categoryView.View()
	case ViewFilter:
		return m.filterForm.View()
	case ViewSettings:
		return m.settingsForm.View()
	case ViewPrompt:
		return m.prompt.View()
	default:
		return ""
	}
}

// timerStatus shows the running card and its clock.
func (m Model) timerStatus() string {
	t := m.snapshot.Timer
	if t == nil {
		return "no timer"
	}
	title := t.CardID
	for _, c := range m.snapshot.Cards {
		if c.ID == t.CardID {
			title = c.Title
			break
		}
	}
	return fmt.Sprintf("▶ %s %s", ansi.Truncate(title, 30, "…"), view.FormatClock(t.Elapsed))
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewDetail:
		return "esc back | j/k scroll"
	case ViewCardCreate, ViewCardEdit, ViewFilter, ViewSettings, ViewPrompt:
		return "enter submit | esc cancel"
	case ViewCategories:
		return "n new | e edit | d delete | esc back"
	case ViewArchive:
		return "v board | enter open | a restore | d delete | f filter | q quit"
	default:
		return "q quit | ? help | n new | space timer | H/L move | a archive | v archive view"
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	if path, ok := strings.CutPrefix(cmd, "export "); ok {
		path = strings.TrimSpace(path)
		if path == "" {
			return m.notify("export: a file name is required")
		}
		return m.exportArchive(path)
	}

	switch cmd {
	case "board":
		m.currentView = ViewBoard
	case "archive":
		m.currentView = ViewArchive
	case "categories":
		return m.openCategories()
	case "settings":
		return m.openSettings()
	case "new card":
		return m.openCreate()
	case "new column":
		return m.ask(promptNewColumn, "", "New column name", "")
	case "pause":
		return m.pauseTimer()
	case "stop":
		if id, _, ok := m.board.ActiveTimer(); ok {
			return m.stopTimer(id)
		}
		return m.notify("no timer is running")
	case "reload", "refresh":
		return m.load()
	case "quit", "q":
		return tea.Quit
	default:
		return m.notify(fmt.Sprintf("unknown command %q", cmd))
	}
	return nil
}
