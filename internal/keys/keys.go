package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the board UI.
type KeyMap struct {
	// Navigation
	Down  key.Binding
	Up    key.Binding
	Left  key.Binding
	Right key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Reload from the store
	Refresh key.Binding

	// Cards
	NewCard     key.Binding
	EditCard    key.Binding
	DeleteCard  key.Binding
	ArchiveCard key.Binding
	MoveLeft    key.Binding
	MoveRight   key.Binding

	// Timer
	ToggleTimer key.Binding
	StopTimer   key.Binding

	// Columns
	NewColumn         key.Binding
	RenameColumn      key.Binding
	DeleteColumn      key.Binding
	ShiftColumnLeft   key.Binding
	ShiftColumnRight  key.Binding
	FilterColumn      key.Binding
	ClearColumnFilter key.Binding

	// Panels
	Archive    key.Binding
	Categories key.Binding
	Settings   key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next card"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "previous card"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous column"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next column"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "card detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		NewCard: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new card"),
		),
		EditCard: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit card"),
		),
		DeleteCard: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete card"),
		),
		ArchiveCard: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "archive / unarchive"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "move card left"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "move card right"),
		),
		ToggleTimer: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "start / pause timer"),
		),
		StopTimer: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop timer"),
		),
		NewColumn: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "new column"),
		),
		RenameColumn: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "rename column"),
		),
		DeleteColumn: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete column"),
		),
		ShiftColumnLeft: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "column left"),
		),
		ShiftColumnRight: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "column right"),
		),
		FilterColumn: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter column"),
		),
		ClearColumnFilter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "clear filter"),
		),
		Archive: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "board / archive"),
		),
		Categories: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "categories"),
		),
		Settings: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "settings"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.NewCard, k.ToggleTimer, k.MoveLeft, k.MoveRight,
		k.Archive, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Select, k.Back, k.Quit},
		{k.NewCard, k.EditCard, k.DeleteCard, k.ArchiveCard, k.MoveLeft, k.MoveRight},
		{k.ToggleTimer, k.StopTimer, k.FilterColumn, k.ClearColumnFilter},
		{k.NewColumn, k.RenameColumn, k.DeleteColumn, k.ShiftColumnLeft, k.ShiftColumnRight},
		{k.Archive, k.Categories, k.Settings, k.Command, k.Help, k.Refresh},
	}
}
