package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// NoticeStyle is used for transient error notifications in the status bar.
var NoticeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FFFFFF")).
	Background(ColorRed).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle is used for secondary text.
var DimmedStyle = lipgloss.NewStyle().Foreground(ColorGray)

// ColumnStyle frames one board column.
var ColumnStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// FocusedColumnStyle frames the column holding the cursor.
var FocusedColumnStyle = ColumnStyle.
	BorderForeground(ColorBlue)

// ColumnTitleStyle renders a column name.
var ColumnTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// CardStyle frames a card inside a column.
var CardStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorSubtle)

// SelectedCardStyle frames the card holding the cursor.
var SelectedCardStyle = CardStyle.
	Bold(true).
	BorderForeground(ColorBlue)

// SectionStyle renders archive day and category headers.
var SectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorMagenta)

// ChipStyle renders a category chip in the category's own colors.
func ChipStyle(background, foreground string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(foreground)).
		Background(lipgloss.Color(background)).
		Padding(0, 1)
}

// BadgeStyle returns a color-coded style for a timer badge.
func BadgeStyle(b view.Badge) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch b {
	case view.BadgeRunning:
		return base.Foreground(ColorGreen)
	case view.BadgePaused:
		return base.Foreground(ColorYellow)
	case view.BadgeStopped:
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorGray)
	}
}

// BadgeLabel is the text shown for a timer badge.
func BadgeLabel(b view.Badge) string {
	switch b {
	case view.BadgeRunning:
		return "● Running"
	case view.BadgePaused:
		return "❚❚ Paused"
	case view.BadgeStopped:
		return "■ Stopped"
	default:
		return ""
	}
}
