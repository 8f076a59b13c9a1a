package board

import (
	"context"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

// DisplayMode returns the archive section header mode.
func (b *Board) DisplayMode() model.SectionDisplayMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings.SectionDisplayMode
}

// SetDisplayMode persists the archive section header mode.
func (b *Board) SetDisplayMode(ctx context.Context, mode model.SectionDisplayMode) error {
	if !mode.Valid() {
		return invalid("section display mode", string(mode))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	saved, err := b.store.UpdateDashboardSettings(ctx, model.DashboardSettings{
		UserID:             b.user.ID,
		SectionDisplayMode: mode,
	})
	if err != nil {
		return b.fail("save dashboard settings", err, "mode", string(mode))
	}
	b.settings = saved
	return nil
}

// ColumnSettings returns a column's display settings, or the defaults.
func (b *Board) ColumnSettings(columnID string) model.ColumnSettings {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.columnSettings[columnID]; ok {
		return s
	}
	return model.DefaultColumnSettings(b.user.ID, columnID)
}

// UpdateColumnSettings persists a column's display settings.
func (b *Board) UpdateColumnSettings(ctx context.Context, s model.ColumnSettings) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.column(s.ColumnID); !ok {
		return notFound("column", s.ColumnID)
	}
	s.UserID = b.user.ID

	saved, err := b.store.UpsertColumnSettings(ctx, s.Normalize())
	if err != nil {
		return b.fail("save column settings", err, "column", s.ColumnID)
	}
	b.columnSettings[s.ColumnID] = saved
	return nil
}

// SetColumnFilter limits a column to the given categories for this session.
// Unknown category ids are dropped; an empty result clears the filter.
func (b *Board) SetColumnFilter(columnID string, categoryIDs []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.column(columnID); !ok {
		return notFound("column", columnID)
	}

	known := make(map[string]bool, len(b.categories))
	for _, c := range b.categories {
		known[c.ID] = true
	}
	seen := map[string]bool{}
	var kept []string
	for _, id := range categoryIDs {
		if known[id] && !seen[id] {
			seen[id] = true
			kept = append(kept, id)
		}
	}

	if len(kept) == 0 {
		delete(b.filters, columnID)
		return nil
	}
	b.filters[columnID] = kept
	return nil
}

// ClearColumnFilter removes a column's filter.
func (b *Board) ClearColumnFilter(columnID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.filters, columnID)
}

// ColumnFilter returns the category ids a column is limited to, if any.
func (b *Board) ColumnFilter(columnID string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.filters[columnID]...)
}
