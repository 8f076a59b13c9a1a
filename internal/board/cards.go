package board

import (
	"context"
	"strings"
	"time"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

// CardInput is the form data for a new card.
type CardInput struct {
	Title       string
	Description string

	// Category is matched by name, case-insensitively. No match leaves the
	// card uncategorized.
	Category string

	// ColumnID defaults to the first column.
	ColumnID string

	DurationHours   int
	DurationMinutes int

	// AssignedDate defaults to now.
	AssignedDate time.Time
}

// CardUpdate is a partial card edit. Nil fields are left untouched.
type CardUpdate struct {
	Title       *string
	Description *string

	// Category is re-resolved by name; an unmatched or empty name clears it.
	Category *string

	// ColumnID moves the card with the same timer rules as MoveCard.
	ColumnID *string

	// DurationMinutes is the total planned effort.
	DurationMinutes *int
	AssignedDate    *time.Time
}

// Minutes combines an hours/minutes pair into a total minute count.
func Minutes(hours, minutes int) int {
	return hours*60 + minutes
}

// AddCard creates a card at the end of its column.
func (b *Board) AddCard(ctx context.Context, in CardInput) (model.Card, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Card{}, invalid("title", "must not be empty")
	}
	if in.DurationHours < 0 || in.DurationMinutes < 0 {
		return model.Card{}, invalid("duration", "must not be negative")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	columnID := in.ColumnID
	if columnID == "" {
		if len(b.columns) == 0 {
			return model.Card{}, invalid("column", "board has no columns")
		}
		columnID = b.columns[0].ID
	}
	if _, ok := b.column(columnID); !ok {
		return model.Card{}, notFound("column", columnID)
	}

	now := b.now()
	assigned := in.AssignedDate
	if assigned.IsZero() {
		assigned = now
	}

	card, err := b.store.CreateCard(ctx, model.Card{
		Title:           title,
		Description:     strings.TrimSpace(in.Description),
		CategoryID:      b.resolveCategoryLocked(in.Category),
		ColumnID:        columnID,
		Position:        b.countInColumn(columnID, ""),
		DurationMinutes: Minutes(in.DurationHours, in.DurationMinutes),
		AssignedDate:    assigned,
		TimerState:      model.TimerNone,
		CreatedAt:       now,
	})
	if err != nil {
		return model.Card{}, b.fail("add card", err, "title", title)
	}
	b.cards = append(b.cards, card)
	return card, nil
}

// UpdateCard applies a partial edit to an active or archived card. For an
// id the board does not know, the store update is still attempted: a store
// failure is returned as StoreError, otherwise NotFoundError.
func (b *Board) UpdateCard(ctx context.Context, id string, upd CardUpdate) (model.Card, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return model.Card{}, invalid("title", "must not be empty")
	}
	if upd.DurationMinutes != nil && *upd.DurationMinutes < 0 {
		return model.Card{}, invalid("duration", "must not be negative")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	patch := model.CardPatch{
		Description:     upd.Description,
		DurationMinutes: upd.DurationMinutes,
		AssignedDate:    upd.AssignedDate,
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		patch.Title = &title
	}
	if upd.Category != nil {
		resolved := ""
		if id := b.resolveCategoryLocked(*upd.Category); id != nil {
			resolved = *id
		}
		patch.CategoryID = &resolved
	}

	if i := b.cardIndex(id); i >= 0 {
		if upd.ColumnID != nil && *upd.ColumnID != b.cards[i].ColumnID {
			if err := b.moveLocked(ctx, id, *upd.ColumnID, &patch); err != nil {
				return model.Card{}, err
			}
			return b.cards[b.cardIndex(id)], nil
		}
		updated, err := b.store.UpdateCard(ctx, id, patch)
		if err != nil {
			return model.Card{}, b.fail("update card", err, "card", id)
		}
		b.cards[i] = updated
		return updated, nil
	}

	if upd.ColumnID != nil {
		if _, ok := b.column(*upd.ColumnID); !ok {
			return model.Card{}, notFound("column", *upd.ColumnID)
		}
		patch.ColumnID = upd.ColumnID
	}

	if j := b.archivedIndex(id); j >= 0 {
		updated, err := b.store.UpdateCard(ctx, id, patch)
		if err != nil {
			return model.Card{}, b.fail("update card", err, "card", id)
		}
		b.archived[j] = updated
		return updated, nil
	}

	if _, err := b.store.UpdateCard(ctx, id, patch); err != nil {
		return model.Card{}, b.fail("update card", err, "card", id)
	}
	return model.Card{}, notFound("card", id)
}

// DeleteCard removes a card, stopping its timer first if it is running.
func (b *Board) DeleteCard(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, j := b.cardIndex(id), b.archivedIndex(id)
	if i < 0 && j < 0 {
		return notFound("card", id)
	}

	if b.timer != nil && b.timer.cardID == id {
		if err := b.haltLocked(ctx, model.TimerStopped, nil); err != nil {
			return err
		}
	}

	if err := b.store.DeleteCard(ctx, id); err != nil {
		return b.fail("delete card", err, "card", id)
	}

	if i >= 0 {
		b.cards = append(b.cards[:i], b.cards[i+1:]...)
	} else {
		b.archived = append(b.archived[:j], b.archived[j+1:]...)
	}
	return nil
}

// MoveCard puts a card at the end of another column. Entering the
// "In Progress" column starts the card's timer; leaving it while the card
// owns the running timer stops the timer and persists the time spent.
func (b *Board) MoveCard(ctx context.Context, id, columnID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.moveLocked(ctx, id, columnID, nil)
}

// ShiftCard moves a card to the neighbouring column, left (delta < 0) or
// right (delta > 0). Shifting past either end is a no-op.
func (b *Board) ShiftCard(ctx context.Context, id string, delta int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.cardIndex(id)
	if i < 0 {
		return notFound("card", id)
	}
	c := b.columnIndex(b.cards[i].ColumnID)
	j := c + delta
	if c < 0 || delta == 0 || j < 0 || j >= len(b.columns) {
		return nil
	}
	return b.moveLocked(ctx, id, b.columns[j].ID, nil)
}

// moveLocked writes the new column and position, merged with extra, in a
// single card update that also carries any timer transition.
func (b *Board) moveLocked(ctx context.Context, id, columnID string, extra *model.CardPatch) error {
	i := b.cardIndex(id)
	if i < 0 {
		return notFound("card", id)
	}
	to, ok := b.column(columnID)
	if !ok {
		return notFound("column", columnID)
	}
	card := b.cards[i]

	patch := model.CardPatch{}
	if extra != nil {
		patch = *extra
	}

	if card.ColumnID != columnID {
		pos := b.countInColumn(columnID, id)
		patch.ColumnID = &columnID
		patch.Position = &pos

		from, _ := b.column(card.ColumnID)
		entering := to.IsInProgress() && !from.IsInProgress()
		leaving := from.IsInProgress() && !to.IsInProgress()

		switch {
		case entering:
			return b.startLocked(ctx, id, &patch)
		case leaving && b.timer != nil && b.timer.cardID == id:
			return b.haltLocked(ctx, model.TimerStopped, &patch)
		}
	} else if patch.Empty() {
		return nil
	}

	updated, err := b.store.UpdateCard(ctx, id, patch)
	if err != nil {
		return b.fail("move card", err, "card", id, "column", columnID)
	}
	b.cards[i] = updated
	return nil
}

// ArchiveCard hides a card from the active board. A running timer on the
// card is stopped in the same write.
func (b *Board) ArchiveCard(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.cardIndex(id)
	if i < 0 {
		return notFound("card", id)
	}

	archived := true
	patch := model.CardPatch{Archived: &archived}

	if b.timer != nil && b.timer.cardID == id {
		if err := b.haltLocked(ctx, model.TimerStopped, &patch); err != nil {
			return err
		}
		i = b.cardIndex(id)
	} else {
		updated, err := b.store.UpdateCard(ctx, id, patch)
		if err != nil {
			return b.fail("archive card", err, "card", id)
		}
		b.cards[i] = updated
	}

	card := b.cards[i]
	b.cards = append(b.cards[:i], b.cards[i+1:]...)
	b.archived = append([]model.Card{card}, b.archived...)
	return nil
}

// UnarchiveCard returns an archived card to the active board at the end of
// columnID. An empty columnID keeps the card's column when it still
// exists, otherwise the first column is used.
func (b *Board) UnarchiveCard(ctx context.Context, id, columnID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	j := b.archivedIndex(id)
	if j < 0 {
		return notFound("archived card", id)
	}
	if len(b.columns) == 0 {
		return invalid("column", "board has no columns")
	}

	if columnID == "" {
		columnID = b.archived[j].ColumnID
		if _, ok := b.column(columnID); !ok {
			columnID = b.columns[0].ID
		}
	} else if _, ok := b.column(columnID); !ok {
		return notFound("column", columnID)
	}

	archived := false
	pos := b.countInColumn(columnID, "")
	updated, err := b.store.UpdateCard(ctx, id, model.CardPatch{
		Archived: &archived,
		ColumnID: &columnID,
		Position: &pos,
	})
	if err != nil {
		return b.fail("unarchive card", err, "card", id)
	}

	b.archived = append(b.archived[:j], b.archived[j+1:]...)
	b.cards = append(b.cards, updated)
	return nil
}
