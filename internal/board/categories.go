package board

import (
	"context"
	"regexp"
	"strings"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a "#rgb" or "#rrggbb" color.
func ValidColor(s string) bool {
	return hexColor.MatchString(strings.TrimSpace(s))
}

// ResolveCategory maps a category name to its id, case-insensitively.
// It returns nil when nothing matches; unmatched names are not created.
func (b *Board) ResolveCategory(name string) *string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolveCategoryLocked(name)
}

func (b *Board) resolveCategoryLocked(name string) *string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for _, c := range b.categories {
		if strings.EqualFold(c.Name, name) {
			id := c.ID
			return &id
		}
	}
	return nil
}

// Categories returns the loaded categories.
func (b *Board) Categories() []model.Category {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Category(nil), b.categories...)
}

// AddCategory creates a category. Names are unique ignoring case; an empty
// color gets the default.
func (b *Board) AddCategory(ctx context.Context, name, color string) (model.Category, error) {
	name, color = strings.TrimSpace(name), strings.TrimSpace(color)
	if name == "" {
		return model.Category{}, invalid("category name", "must not be empty")
	}
	if color == "" {
		color = model.DefaultCategoryColor
	}
	if !hexColor.MatchString(color) {
		return model.Category{}, invalid("color", "must look like #rrggbb")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.resolveCategoryLocked(name) != nil {
		return model.Category{}, invalid("category name", "already exists")
	}
	cat, err := b.store.CreateCategory(ctx, model.Category{Name: name, Color: color})
	if err != nil {
		return model.Category{}, b.fail("add category", err, "name", name)
	}
	b.categories = append(b.categories, cat)
	return cat, nil
}

// UpdateCategory renames or recolors a category. Nil fields are unchanged.
func (b *Board) UpdateCategory(ctx context.Context, id string, name, color *string) (model.Category, error) {
	patch := model.CategoryPatch{}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return model.Category{}, invalid("category name", "must not be empty")
		}
		patch.Name = &n
	}
	if color != nil {
		c := strings.TrimSpace(*color)
		if !hexColor.MatchString(c) {
			return model.Category{}, invalid("color", "must look like #rrggbb")
		}
		patch.Color = &c
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := -1
	for k, c := range b.categories {
		if c.ID == id {
			i = k
			break
		}
	}
	if i < 0 {
		return model.Category{}, notFound("category", id)
	}
	if patch.Name != nil {
		if other := b.resolveCategoryLocked(*patch.Name); other != nil && *other != id {
			return model.Category{}, invalid("category name", "already exists")
		}
	}

	cat, err := b.store.UpdateCategory(ctx, id, patch)
	if err != nil {
		return model.Category{}, b.fail("update category", err, "category", id)
	}
	b.categories[i] = cat
	return cat, nil
}

// DeleteCategory removes a category. Cards that used it become
// uncategorized and it is dropped from every column filter.
func (b *Board) DeleteCategory(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := -1
	for k, c := range b.categories {
		if c.ID == id {
			i = k
			break
		}
	}
	if i < 0 {
		return notFound("category", id)
	}

	if err := b.store.DeleteCategory(ctx, id); err != nil {
		return b.fail("delete category", err, "category", id)
	}

	b.categories = append(b.categories[:i], b.categories[i+1:]...)
	for _, list := range [][]model.Card{b.cards, b.archived} {
		for k := range list {
			if list[k].CategoryID != nil && *list[k].CategoryID == id {
				list[k].CategoryID = nil
			}
		}
	}
	for col, ids := range b.filters {
		kept := ids[:0]
		for _, cid := range ids {
			if cid != id {
				kept = append(kept, cid)
			}
		}
		if len(kept) == 0 {
			delete(b.filters, col)
		} else {
			b.filters[col] = kept
		}
	}
	return nil
}
