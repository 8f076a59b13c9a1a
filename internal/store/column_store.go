package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

const columnFields = "id, user_id, name, position, created_at"

// ListColumns returns the user's columns ordered by position.
func (s *UserStore) ListColumns(ctx context.Context) ([]model.Column, error) {
	var cols []model.Column
	err := s.db.SelectContext(ctx, &cols,
		"SELECT "+columnFields+" FROM board_columns WHERE user_id = ? ORDER BY position, created_at",
		s.userID)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	return cols, nil
}

// CreateColumn inserts a new column. Generates a UUID if ID is empty.
func (s *UserStore) CreateColumn(ctx context.Context, col model.Column) (model.Column, error) {
	if strings.TrimSpace(col.Name) == "" {
		return model.Column{}, fmt.Errorf("column name must not be empty: %w", ErrInvalid)
	}
	if col.ID == "" {
		col.ID = uuid.New().String()
	}
	col.UserID = s.userID
	col.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO board_columns (id, user_id, name, position, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		col.ID, col.UserID, col.Name, col.Position, col.CreatedAt,
	)
	if err != nil {
		return model.Column{}, fmt.Errorf("creating column: %w", err)
	}
	return col, nil
}

// UpdateColumn applies a partial update and returns the stored row.
func (s *UserStore) UpdateColumn(ctx context.Context, id string, patch model.ColumnPatch) (model.Column, error) {
	var sets []string
	var args []interface{}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return model.Column{}, fmt.Errorf("column name must not be empty: %w", ErrInvalid)
		}
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *patch.Position)
	}

	if len(sets) > 0 {
		args = append(args, id, s.userID)
		result, err := s.db.ExecContext(ctx,
			"UPDATE board_columns SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?",
			args...)
		if err != nil {
			return model.Column{}, fmt.Errorf("updating column %s: %w", id, err)
		}
		if err := checkAffected(result, "column", id); err != nil {
			return model.Column{}, err
		}
	}

	return s.getColumn(ctx, id)
}

// DeleteColumn removes a column. The caller must move its cards first;
// the cards.column_id foreign key rejects the delete otherwise.
func (s *UserStore) DeleteColumn(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM board_columns WHERE id = ? AND user_id = ?", id, s.userID)
	if err != nil {
		return fmt.Errorf("deleting column %s: %w", id, constraint(err))
	}
	return checkAffected(result, "column", id)
}

func (s *UserStore) getColumn(ctx context.Context, id string) (model.Column, error) {
	var col model.Column
	err := s.db.GetContext(ctx, &col,
		"SELECT "+columnFields+" FROM board_columns WHERE id = ? AND user_id = ?", id, s.userID)
	if err != nil {
		return model.Column{}, fmt.Errorf("getting column %s: %w", id, notFound("column", id, err))
	}
	return col, nil
}
