package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

const cardFields = `id, user_id, title, description, category_id, column_id, position,
	duration_minutes, assigned_date, archived, archived_at, timer_state, time_spent_ms,
	created_at, updated_at`

// ListCards returns the user's cards. Active cards come back in
// column/position order, archived ones newest first.
func (s *UserStore) ListCards(ctx context.Context, filter CardFilter) ([]model.Card, error) {
	query := "SELECT " + cardFields + " FROM cards WHERE user_id = ?"
	args := []interface{}{s.userID}
	order := " ORDER BY column_id, position, created_at"

	if filter.Archived != nil {
		query += " AND archived = ?"
		args = append(args, boolToInt(*filter.Archived))
		if *filter.Archived {
			order = " ORDER BY created_at DESC"
		}
	}

	var cards []model.Card
	if err := s.db.SelectContext(ctx, &cards, query+order, args...); err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	return cards, nil
}

// CreateCard inserts a new card. Generates a UUID if ID is empty and
// defaults CreatedAt, AssignedDate and TimerState.
func (s *UserStore) CreateCard(ctx context.Context, card model.Card) (model.Card, error) {
	if strings.TrimSpace(card.Title) == "" {
		return model.Card{}, fmt.Errorf("card title must not be empty: %w", ErrInvalid)
	}
	if card.DurationMinutes < 0 {
		return model.Card{}, fmt.Errorf("card duration must not be negative: %w", ErrInvalid)
	}
	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	card.UserID = s.userID
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now
	if card.AssignedDate.IsZero() {
		card.AssignedDate = card.CreatedAt
	}
	if !card.TimerState.Valid() {
		card.TimerState = model.TimerNone
	}
	if card.Archived && card.ArchivedAt == nil {
		card.ArchivedAt = &now
	}
	if card.CategoryID != nil && *card.CategoryID == "" {
		card.CategoryID = nil
	}
	if err := s.ownedRefs(ctx, &card.ColumnID, card.CategoryID); err != nil {
		return model.Card{}, fmt.Errorf("creating card: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (
			id, user_id, title, description, category_id, column_id, position,
			duration_minutes, assigned_date, archived, archived_at, timer_state,
			time_spent_ms, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID, card.UserID, card.Title, card.Description, card.CategoryID,
		card.ColumnID, card.Position, card.DurationMinutes, card.AssignedDate.UTC(),
		boolToInt(card.Archived), card.ArchivedAt, string(card.TimerState),
		card.TimeSpentMs, card.CreatedAt.UTC(), card.UpdatedAt,
	)
	if err != nil {
		return model.Card{}, fmt.Errorf("creating card: %w", constraint(err))
	}
	return card, nil
}

// UpdateCard applies a partial update and returns the stored row.
func (s *UserStore) UpdateCard(ctx context.Context, id string, patch model.CardPatch) (model.Card, error) {
	sets, args, err := buildCardUpdate(patch, time.Now().UTC())
	if err != nil {
		return model.Card{}, fmt.Errorf("updating card %s: %w", id, err)
	}
	category := patch.CategoryID
	if category != nil && *category == "" {
		category = nil
	}
	if err := s.ownedRefs(ctx, patch.ColumnID, category); err != nil {
		return model.Card{}, fmt.Errorf("updating card %s: %w", id, err)
	}

	args = append(args, id, s.userID)
	result, err := s.db.ExecContext(ctx,
		"UPDATE cards SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?",
		args...)
	if err != nil {
		return model.Card{}, fmt.Errorf("updating card %s: %w", id, constraint(err))
	}
	if err := checkAffected(result, "card", id); err != nil {
		return model.Card{}, err
	}

	var card model.Card
	err = s.db.GetContext(ctx, &card,
		"SELECT "+cardFields+" FROM cards WHERE id = ? AND user_id = ?", id, s.userID)
	if err != nil {
		return model.Card{}, fmt.Errorf("getting card %s: %w", id, notFound("card", id, err))
	}
	return card, nil
}

// ownedRefs checks the column and category a card points at. Nil skips a check.
func (s *UserStore) ownedRefs(ctx context.Context, columnID, categoryID *string) error {
	if columnID != nil {
		if err := s.owned(ctx, "board_columns", "column", *columnID); err != nil {
			return err
		}
	}
	if categoryID != nil {
		if err := s.owned(ctx, "categories", "category", *categoryID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteCard removes a card by ID.
func (s *UserStore) DeleteCard(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM cards WHERE id = ? AND user_id = ?", id, s.userID)
	if err != nil {
		return fmt.Errorf("deleting card %s: %w", id, err)
	}
	return checkAffected(result, "card", id)
}

// buildCardUpdate turns a patch into SET clauses. updated_at is always set.
func buildCardUpdate(patch model.CardPatch, now time.Time) ([]string, []interface{}, error) {
	var sets []string
	var args []interface{}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, nil, fmt.Errorf("card title must not be empty: %w", ErrInvalid)
		}
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.CategoryID != nil {
		sets = append(sets, "category_id = ?")
		if *patch.CategoryID == "" {
			args = append(args, nil)
		} else {
			args = append(args, *patch.CategoryID)
		}
	}
	if patch.ColumnID != nil {
		sets = append(sets, "column_id = ?")
		args = append(args, *patch.ColumnID)
	}
	if patch.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *patch.Position)
	}
	if patch.DurationMinutes != nil {
		if *patch.DurationMinutes < 0 {
			return nil, nil, fmt.Errorf("card duration must not be negative: %w", ErrInvalid)
		}
		sets = append(sets, "duration_minutes = ?")
		args = append(args, *patch.DurationMinutes)
	}
	if patch.AssignedDate != nil {
		sets = append(sets, "assigned_date = ?")
		args = append(args, patch.AssignedDate.UTC())
	}
	if patch.Archived != nil {
		sets = append(sets, "archived = ?", "archived_at = ?")
		if *patch.Archived {
			args = append(args, 1, now)
		} else {
			args = append(args, 0, nil)
		}
	}
	if patch.TimerState != nil {
		if !patch.TimerState.Valid() {
			return nil, nil, fmt.Errorf("unknown timer state %q: %w", *patch.TimerState, ErrInvalid)
		}
		sets = append(sets, "timer_state = ?")
		args = append(args, string(*patch.TimerState))
	}
	if patch.TimeSpentMs != nil {
		if *patch.TimeSpentMs < 0 {
			return nil, nil, fmt.Errorf("time spent must not be negative: %w", ErrInvalid)
		}
		sets = append(sets, "time_spent_ms = ?")
		args = append(args, *patch.TimeSpentMs)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, now)
	return sets, args, nil
}
