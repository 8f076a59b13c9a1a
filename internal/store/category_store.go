package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

const categoryFields = "id, user_id, name, color, created_at"

// ListCategories returns the user's categories sorted by name.
func (s *UserStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	err := s.db.SelectContext(ctx, &cats,
		"SELECT "+categoryFields+" FROM categories WHERE user_id = ? ORDER BY name COLLATE NOCASE",
		s.userID)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	return cats, nil
}

// CreateCategory inserts a new category. Generates a UUID if ID is empty
// and falls back to the default color.
func (s *UserStore) CreateCategory(ctx context.Context, cat model.Category) (model.Category, error) {
	if strings.TrimSpace(cat.Name) == "" {
		return model.Category{}, fmt.Errorf("category name must not be empty: %w", ErrInvalid)
	}
	if cat.ID == "" {
		cat.ID = uuid.New().String()
	}
	if cat.Color == "" {
		cat.Color = model.DefaultCategoryColor
	}
	cat.UserID = s.userID
	cat.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, color, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		cat.ID, cat.UserID, cat.Name, cat.Color, cat.CreatedAt,
	)
	if err != nil {
		return model.Category{}, fmt.Errorf("creating category: %w", err)
	}
	return cat, nil
}

// UpdateCategory applies a partial update and returns the stored row.
func (s *UserStore) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) (model.Category, error) {
	var sets []string
	var args []interface{}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return model.Category{}, fmt.Errorf("category name must not be empty: %w", ErrInvalid)
		}
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *patch.Color)
	}

	if len(sets) > 0 {
		args = append(args, id, s.userID)
		result, err := s.db.ExecContext(ctx,
			"UPDATE categories SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?",
			args...)
		if err != nil {
			return model.Category{}, fmt.Errorf("updating category %s: %w", id, err)
		}
		if err := checkAffected(result, "category", id); err != nil {
			return model.Category{}, err
		}
	}

	var cat model.Category
	err := s.db.GetContext(ctx, &cat,
		"SELECT "+categoryFields+" FROM categories WHERE id = ? AND user_id = ?", id, s.userID)
	if err != nil {
		return model.Category{}, fmt.Errorf("getting category %s: %w", id, notFound("category", id, err))
	}
	return cat, nil
}

// DeleteCategory removes a category. Cards referencing it get
// category_id set to NULL.
func (s *UserStore) DeleteCategory(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM categories WHERE id = ? AND user_id = ?", id, s.userID)
	if err != nil {
		return fmt.Errorf("deleting category %s: %w", id, err)
	}
	return checkAffected(result, "category", id)
}
