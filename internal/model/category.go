package model

import "time"

// Category defaults used when a card has no (or a dangling) category.
const (
	UncategorizedName    = "Uncategorized"
	UncategorizedColor   = "#666666"
	DefaultCategoryColor = "#007bff"
)

// Category is a colored tag attached to cards.
type Category struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CategoryPatch carries the fields of a partial category update.
type CategoryPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}
