package model

import "time"

// TimerState is the persisted state of a card's stopwatch.
type TimerState string

// Timer states. A card that never had its timer touched is TimerNone.
const (
	TimerNone    TimerState = "none"
	TimerRunning TimerState = "running"
	TimerPaused  TimerState = "paused"
	TimerStopped TimerState = "stopped"
)

// Valid reports whether s is one of the known timer states.
func (s TimerState) Valid() bool {
	switch s {
	case TimerNone, TimerRunning, TimerPaused, TimerStopped:
		return true
	}
	return false
}

// Card is a single learning task on the board.
type Card struct {
	// ID is the store-assigned unique identifier.
	ID string `json:"id" db:"id"`

	// UserID is the owner of the card.
	UserID string `json:"user_id" db:"user_id"`

	// Title is the short, required label.
	Title string `json:"title" db:"title"`

	// Description is optional free text.
	Description string `json:"description" db:"description"`

	// CategoryID references a Category. Nil means uncategorized; a value
	// that no longer resolves is rendered as uncategorized too.
	CategoryID *string `json:"category_id,omitempty" db:"category_id"`

	// ColumnID references the column the card currently sits in.
	ColumnID string `json:"column_id" db:"column_id"`

	// Position is the card's index within its column at insertion time.
	Position int `json:"position" db:"position"`

	// DurationMinutes is the planned effort entered by the user.
	DurationMinutes int `json:"duration_minutes" db:"duration_minutes"`

	// AssignedDate is the day the card was planned for.
	AssignedDate time.Time `json:"assigned_date" db:"assigned_date"`

	// Archived hides the card from the active board.
	Archived bool `json:"archived" db:"archived"`

	// ArchivedAt is set while Archived is true.
	ArchivedAt *time.Time `json:"archived_at,omitempty" db:"archived_at"`

	// TimerState and TimeSpentMs are written only on timer transitions,
	// never per tick.
	TimerState  TimerState `json:"timer_state" db:"timer_state"`
	TimeSpentMs int64      `json:"time_spent_ms" db:"time_spent_ms"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasCategory reports whether the card references a category id.
func (c Card) HasCategory() bool {
	return c.CategoryID != nil && *c.CategoryID != ""
}

// CardPatch carries the fields of a partial card update. Nil fields are
// left untouched. An empty CategoryID clears the category. Setting
// Archived stamps or clears ArchivedAt.
type CardPatch struct {
	Title           *string     `json:"title,omitempty"`
	Description     *string     `json:"description,omitempty"`
	CategoryID      *string     `json:"category_id,omitempty"`
	ColumnID        *string     `json:"column_id,omitempty"`
	Position        *int        `json:"position,omitempty"`
	DurationMinutes *int        `json:"duration_minutes,omitempty"`
	AssignedDate    *time.Time  `json:"assigned_date,omitempty"`
	Archived        *bool       `json:"archived,omitempty"`
	TimerState      *TimerState `json:"timer_state,omitempty"`
	TimeSpentMs     *int64      `json:"time_spent_ms,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p CardPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.CategoryID == nil &&
		p.ColumnID == nil && p.Position == nil && p.DurationMinutes == nil &&
		p.AssignedDate == nil && p.Archived == nil && p.TimerState == nil &&
		p.TimeSpentMs == nil
}

// Apply returns a copy of c with the patch applied. archivedAt is used
// when the patch archives the card.
func (p CardPatch) Apply(c Card, archivedAt time.Time) Card {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.CategoryID != nil {
		if *p.CategoryID == "" {
			c.CategoryID = nil
		} else {
			id := *p.CategoryID
			c.CategoryID = &id
		}
	}
	if p.ColumnID != nil {
		c.ColumnID = *p.ColumnID
	}
	if p.Position != nil {
		c.Position = *p.Position
	}
	if p.DurationMinutes != nil {
		c.DurationMinutes = *p.DurationMinutes
	}
	if p.AssignedDate != nil {
		c.AssignedDate = *p.AssignedDate
	}
	if p.Archived != nil {
		c.Archived = *p.Archived
		if c.Archived {
			at := archivedAt
			c.ArchivedAt = &at
		} else {
			c.ArchivedAt = nil
		}
	}
	if p.TimerState != nil {
		c.TimerState = *p.TimerState
	}
	if p.TimeSpentMs != nil {
		c.TimeSpentMs = *p.TimeSpentMs
	}
	return c
}
