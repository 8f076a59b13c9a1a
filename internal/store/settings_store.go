package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

// GetDashboardSettings returns the user's settings, or the defaults when
// no row has been saved yet.
func (s *UserStore) GetDashboardSettings(ctx context.Context) (model.DashboardSettings, error) {
	var settings model.DashboardSettings
	err := s.db.GetContext(ctx, &settings,
		"SELECT user_id, section_display_mode FROM dashboard_settings WHERE user_id = ?", s.userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultDashboardSettings(s.userID), nil
	}
	if err != nil {
		return model.DashboardSettings{}, fmt.Errorf("getting dashboard settings: %w", err)
	}
	if !settings.SectionDisplayMode.Valid() {
		settings.SectionDisplayMode = model.DisplayCardsOnly
	}
	return settings, nil
}

// UpdateDashboardSettings upserts the user's settings row.
func (s *UserStore) UpdateDashboardSettings(
	ctx context.Context,
	settings model.DashboardSettings,
) (model.DashboardSettings, error) {
	if !settings.SectionDisplayMode.Valid() {
		return model.DashboardSettings{}, fmt.Errorf("unknown section display mode %q: %w", settings.SectionDisplayMode, ErrInvalid)
	}
	settings.UserID = s.userID

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dashboard_settings (user_id, section_display_mode, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			section_display_mode = excluded.section_display_mode,
			updated_at = excluded.updated_at`,
		settings.UserID, string(settings.SectionDisplayMode), time.Now().UTC(),
	)
	if err != nil {
		return model.DashboardSettings{}, fmt.Errorf("saving dashboard settings: %w", err)
	}
	return settings, nil
}

// ListColumnSettings returns every saved per-column settings row.
// Columns without a row use model.DefaultColumnSettings.
func (s *UserStore) ListColumnSettings(ctx context.Context) ([]model.ColumnSettings, error) {
	var rows []model.ColumnSettings
	err := s.db.SelectContext(ctx, &rows, `
		SELECT user_id, column_id, column_display_mode, count_display_type, show_card_duration
		FROM column_settings WHERE user_id = ?`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("querying column settings: %w", err)
	}
	for i := range rows {
		rows[i] = rows[i].Normalize()
	}
	return rows, nil
}

// UpsertColumnSettings saves the settings for one column.
func (s *UserStore) UpsertColumnSettings(
	ctx context.Context,
	settings model.ColumnSettings,
) (model.ColumnSettings, error) {
	if settings.ColumnID == "" {
		return model.ColumnSettings{}, fmt.Errorf("column settings need a column id: %w", ErrInvalid)
	}
	if err := s.owned(ctx, "board_columns", "column", settings.ColumnID); err != nil {
		return model.ColumnSettings{}, fmt.Errorf("saving settings: %w", err)
	}
	settings.UserID = s.userID
	settings = settings.Normalize()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO column_settings (
			user_id, column_id, column_display_mode, count_display_type,
			show_card_duration, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, column_id) DO UPDATE SET
			column_display_mode = excluded.column_display_mode,
			count_display_type = excluded.count_display_type,
			show_card_duration = excluded.show_card_duration,
			updated_at = excluded.updated_at`,
		settings.UserID, settings.ColumnID, string(settings.DisplayMode),
		string(settings.CountDisplay), boolToInt(settings.ShowCardDuration), time.Now().UTC(),
	)
	if err != nil {
		return model.ColumnSettings{}, fmt.Errorf("saving settings for column %s: %w", settings.ColumnID, constraint(err))
	}
	return settings, nil
}

// DeleteColumnSettings removes the settings row for a column, if any.
func (s *UserStore) DeleteColumnSettings(ctx context.Context, columnID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM column_settings WHERE user_id = ? AND column_id = ?", s.userID, columnID)
	if err != nil {
		return fmt.Errorf("deleting settings for column %s: %w", columnID, err)
	}
	return nil
}
