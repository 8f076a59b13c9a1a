package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

// AddColumn appends a column at the end of the board.
func (b *Board) AddColumn(ctx context.Context, name string) (model.Column, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Column{}, invalid("column name", "must not be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkInProgressName(name, ""); err != nil {
		return model.Column{}, err
	}
	col, err := b.store.CreateColumn(ctx, model.Column{Name: name, Position: len(b.columns)})
	if err != nil {
		return model.Column{}, b.fail("add column", err, "name", name)
	}
	b.columns = append(b.columns, col)
	return col, nil
}

// RenameColumn changes a column's name. Renaming the "In Progress" column
// to anything else first stops a timer running on one of its cards.
func (b *Board) RenameColumn(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("column name", "must not be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.columnIndex(id)
	if i < 0 {
		return notFound("column", id)
	}
	if err := b.checkInProgressName(name, id); err != nil {
		return err
	}
	if b.columns[i].IsInProgress() && !model.IsInProgressName(name) && b.timerInColumn(id) {
		if err := b.haltLocked(ctx, model.TimerStopped, nil); err != nil {
			return err
		}
	}
	col, err := b.store.UpdateColumn(ctx, id, model.ColumnPatch{Name: &name})
	if err != nil {
		return b.fail("rename column", err, "column", id)
	}
	b.columns[i] = col
	return nil
}

// DeleteColumn removes a column after moving all of its cards, active and
// archived, to the first remaining column. The last column cannot be
// deleted. A timer running in a deleted "In Progress" column is stopped.
func (b *Board) DeleteColumn(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	col, ok := b.column(id)
	if !ok {
		return notFound("column", id)
	}
	if len(b.columns) <= 1 {
		return invalid("column", "the last column cannot be deleted")
	}

	var dest model.Column
	for _, c := range b.columns {
		if c.ID != id {
			dest = c
			break
		}
	}

	// Once anything is written, a failure reloads the board.
	wrote := false
	failed := func(storeErr error) error {
		if !wrote {
			return storeErr
		}
		return b.compensateLocked(ctx, storeErr)
	}

	if col.IsInProgress() && !dest.IsInProgress() && b.timerInColumn(id) {
		if err := b.haltLocked(ctx, model.TimerStopped, nil); err != nil {
			return err
		}
		wrote = true
	}

	// Positions continue after the cards already in the destination.
	next := b.countInColumn(dest.ID, "")
	moved := map[string]model.Card{}
	for _, list := range [][]model.Card{b.cards, b.archived} {
		for _, c := range list {
			if c.ColumnID != id {
				continue
			}
			pos := next
			if !c.Archived {
				next++
			}
			updated, err := b.store.UpdateCard(ctx, c.ID, model.CardPatch{ColumnID: &dest.ID, Position: &pos})
			if err != nil {
				return failed(b.fail("reassign card", err, "card", c.ID, "column", dest.ID))
			}
			wrote = true
			moved[c.ID] = updated
		}
	}

	if err := b.store.DeleteColumn(ctx, id); err != nil {
		return failed(b.fail("delete column", err, "column", id))
	}

	replaceMoved(b.cards, moved)
	replaceMoved(b.archived, moved)
	idx := b.columnIndex(id)
	b.columns = append(b.columns[:idx], b.columns[idx+1:]...)
	delete(b.columnSettings, id)
	delete(b.filters, id)
	b.log.Info("column deleted", "column", id, "cards_moved", len(moved), "to", dest.ID)
	return nil
}

// checkInProgressName refuses a second "In Progress" column. exceptID is
// the column being renamed.
func (b *Board) checkInProgressName(name, exceptID string) error {
	if !model.IsInProgressName(name) {
		return nil
	}
	for _, c := range b.columns {
		if c.ID != exceptID && c.IsInProgress() {
			return invalid("column name", fmt.Sprintf("there is already an %q column", model.InProgressColumnName))
		}
	}
	return nil
}

// timerInColumn reports whether the running timer belongs to a card in
// columnID.
func (b *Board) timerInColumn(columnID string) bool {
	if b.timer == nil {
		return false
	}
	i := b.cardIndex(b.timer.cardID)
	return i >= 0 && b.cards[i].ColumnID == columnID
}

func replaceMoved(cards []model.Card, moved map[string]model.Card) {
	for i, c := range cards {
		if u, ok := moved[c.ID]; ok {
			cards[i] = u
		}
	}
}

// ReorderColumns moves draggedID to targetID's slot and renumbers every
// column. Positions are written one column at a time; if any write fails
// the whole board is reloaded from the store and the error returned.
func (b *Board) ReorderColumns(ctx context.Context, draggedID, targetID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reorderLocked(ctx, draggedID, targetID)
}

// ShiftColumn moves a column one slot left (delta < 0) or right (delta > 0).
// Shifting past either end is a no-op.
func (b *Board) ShiftColumn(ctx context.Context, id string, delta int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.columnIndex(id)
	if i < 0 {
		return notFound("column", id)
	}
	j := i + delta
	if delta == 0 || j < 0 || j >= len(b.columns) {
		return nil
	}
	return b.reorderLocked(ctx, id, b.columns[j].ID)
}

func (b *Board) reorderLocked(ctx context.Context, draggedID, targetID string) error {
	from, to := b.columnIndex(draggedID), b.columnIndex(targetID)
	if from < 0 {
		return notFound("column", draggedID)
	}
	if to < 0 {
		return notFound("column", targetID)
	}
	if from == to {
		return nil
	}

	order := append([]model.Column(nil), b.columns...)
	dragged := order[from]
	order = append(order[:from], order[from+1:]...)
	order = append(order[:to], append([]model.Column{dragged}, order[to:]...)...)

	for i := range order {
		if order[i].Position == i {
			continue
		}
		pos := i
		updated, err := b.store.UpdateColumn(ctx, order[i].ID, model.ColumnPatch{Position: &pos})
		if err != nil {
			return b.compensateLocked(ctx, b.fail("reorder columns", err, "column", order[i].ID))
		}
		order[i] = updated
	}

	b.columns = order
	return nil
}
