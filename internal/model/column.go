package model

import (
	"strings"
	"time"
)

// InProgressColumnName names the column whose entry starts a card's timer
// and whose exit stops it. Matched case-insensitively.
const InProgressColumnName = "In Progress"

// DefaultColumnNames are the columns seeded for a user with an empty board,
// in display order.
var DefaultColumnNames = []string{"Backlog", "Today's Activity", "In Progress", "Done"}

// Column is a workflow stage on the board.
type Column struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsInProgress reports whether entering this column starts the timer.
func (c Column) IsInProgress() bool {
	return IsInProgressName(c.Name)
}

// IsInProgressName reports whether a column called name would be the
// timer column.
func IsInProgressName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), InProgressColumnName)
}

// ColumnPatch carries the fields of a partial column update.
// Nil fields are left untouched.
type ColumnPatch struct {
	Name     *string `json:"name,omitempty"`
	Position *int    `json:"position,omitempty"`
}
