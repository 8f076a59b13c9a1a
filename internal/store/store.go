package store

import (
	"context"
	"errors"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

// ErrNotFound is returned (wrapped) when a row addressed by id does not
// exist for the current user.
var ErrNotFound = errors.New("not found")

// ErrInvalid is returned (wrapped) when input is rejected before it
// reaches the database.
var ErrInvalid = errors.New("invalid input")

// ErrConflict is returned (wrapped) when a write would break a reference,
// such as deleting a column that still holds cards.
var ErrConflict = errors.New("conflict")

// CardFilter narrows ListCards results.
type CardFilter struct {
	// Archived selects active (false) or archived (true) cards. Nil lists both.
	Archived *bool
}

// ActiveCards and ArchivedCards are the two filters the board uses.
func ActiveCards() CardFilter {
	archived := false
	return CardFilter{Archived: &archived}
}

func ArchivedCards() CardFilter {
	archived := true
	return CardFilter{Archived: &archived}
}

// Store is the request/response contract for one user's board data.
// Every call is scoped to the identity the implementation was created for.
type Store interface {
	// === Columns ===

	ListColumns(ctx context.Context) ([]model.Column, error)
	CreateColumn(ctx context.Context, col model.Column) (model.Column, error)
	UpdateColumn(ctx context.Context, id string, patch model.ColumnPatch) (model.Column, error)
	DeleteColumn(ctx context.Context, id string) error

	// === Categories ===

	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, cat model.Category) (model.Category, error)
	UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) (model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// === Cards ===

	ListCards(ctx context.Context, filter CardFilter) ([]model.Card, error)
	CreateCard(ctx context.Context, card model.Card) (model.Card, error)
	UpdateCard(ctx context.Context, id string, patch model.CardPatch) (model.Card, error)
	DeleteCard(ctx context.Context, id string) error

	// === Settings ===

	GetDashboardSettings(ctx context.Context) (model.DashboardSettings, error)
	UpdateDashboardSettings(ctx context.Context, s model.DashboardSettings) (model.DashboardSettings, error)
	ListColumnSettings(ctx context.Context) ([]model.ColumnSettings, error)
	UpsertColumnSettings(ctx context.Context, s model.ColumnSettings) (model.ColumnSettings, error)
	DeleteColumnSettings(ctx context.Context, columnID string) error
}
