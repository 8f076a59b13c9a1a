package model

// SectionDisplayMode controls what archive section headers show.
type SectionDisplayMode string

const (
	DisplayCardsOnly        SectionDisplayMode = "cards_only"
	DisplayCardsAndDuration SectionDisplayMode = "cards_and_duration"
)

// Valid reports whether m is a known display mode.
func (m SectionDisplayMode) Valid() bool {
	return m == DisplayCardsOnly || m == DisplayCardsAndDuration
}

// DashboardSettings holds per-user board preferences.
type DashboardSettings struct {
	UserID             string             `json:"user_id" db:"user_id"`
	SectionDisplayMode SectionDisplayMode `json:"section_display_mode" db:"section_display_mode"`
}

// DefaultDashboardSettings returns the settings used when none are stored.
func DefaultDashboardSettings(userID string) DashboardSettings {
	return DashboardSettings{UserID: userID, SectionDisplayMode: DisplayCardsOnly}
}

// ColumnDisplayMode selects how a column groups its cards.
type ColumnDisplayMode string

const (
	ColumnByCategory ColumnDisplayMode = "category"
	ColumnByDate     ColumnDisplayMode = "date"
)

// CountDisplay selects what a column header counts.
type CountDisplay string

const (
	CountCards    CountDisplay = "cards"
	CountDuration CountDisplay = "duration"
)

// ColumnSettings holds per-user, per-column display preferences.
type ColumnSettings struct {
	UserID           string            `json:"user_id" db:"user_id"`
	ColumnID         string            `json:"column_id" db:"column_id"`
	DisplayMode      ColumnDisplayMode `json:"column_display_mode" db:"column_display_mode"`
	CountDisplay     CountDisplay      `json:"count_display_type" db:"count_display_type"`
	ShowCardDuration bool              `json:"show_card_duration" db:"show_card_duration"`
}

// DefaultColumnSettings returns the settings used for a column with no row.
func DefaultColumnSettings(userID, columnID string) ColumnSettings {
	return ColumnSettings{
		UserID:           userID,
		ColumnID:         columnID,
		DisplayMode:      ColumnByCategory,
		CountDisplay:     CountCards,
		ShowCardDuration: true,
	}
}

// Normalize fills unknown or empty enum values with their defaults.
func (s ColumnSettings) Normalize() ColumnSettings {
	if s.DisplayMode != ColumnByCategory && s.DisplayMode != ColumnByDate {
		s.DisplayMode = ColumnByCategory
	}
	if s.CountDisplay != CountCards && s.CountDisplay != CountDuration {
		s.CountDisplay = CountCards
	}
	return s
}
