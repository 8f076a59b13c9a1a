package board

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/store"
)

// fakeStore is an in-memory store.Store. hook, when set, runs before every
// call and can fail it.
type fakeStore struct {
	mu sync.Mutex

	seq        int
	columns    map[string]model.Column
	categories map[string]model.Category
	cards      map[string]model.Card
	settings   model.DashboardSettings
	colSet     map[string]model.ColumnSettings

	calls []string
	hook  func(method, id string) error
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		columns:    map[string]model.Column{},
		categories: map[string]model.Category{},
		cards:      map[string]model.Card{},
		settings:   model.DefaultDashboardSettings("u1"),
		colSet:     map[string]model.ColumnSettings{},
	}
}

func (f *fakeStore) enter(method, id string) error {
	f.calls = append(f.calls, method)
	if f.hook != nil {
		return f.hook(method, id)
	}
	return nil
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) countCalls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (f *fakeStore) card(id string) model.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cards[id]
}

func (f *fakeStore) runningCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.cards {
		if c.TimerState == model.TimerRunning {
			n++
		}
	}
	return n
}

// put inserts a row directly, bypassing hooks.
func (f *fakeStore) putCard(c model.Card) model.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == "" {
		c.ID = f.nextID("card")
	}
	if c.TimerState == "" {
		c.TimerState = model.TimerNone
	}
	f.cards[c.ID] = c
	return c
}

func (f *fakeStore) putColumn(name string, pos int) model.Column {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := model.Column{ID: f.nextID("col"), Name: name, Position: pos}
	f.columns[c.ID] = c
	return c
}

func (f *fakeStore) putCategory(name, color string) model.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := model.Category{ID: f.nextID("cat"), Name: name, Color: color}
	f.categories[c.ID] = c
	return c
}

func (f *fakeStore) ListColumns(ctx context.Context) ([]model.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListColumns", ""); err != nil {
		return nil, err
	}
	var out []model.Column
	for _, c := range f.columns {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeStore) CreateColumn(ctx context.Context, col model.Column) (model.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateColumn", col.Name); err != nil {
		return model.Column{}, err
	}
	col.ID = f.nextID("col")
	f.columns[col.ID] = col
	return col, nil
}

func (f *fakeStore) UpdateColumn(ctx context.Context, id string, patch model.ColumnPatch) (model.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateColumn", id); err != nil {
		return model.Column{}, err
	}
	col, ok := f.columns[id]
	if !ok {
		return model.Column{}, fmt.Errorf("column %s: %w", id, store.ErrNotFound)
	}
	if patch.Name != nil {
		col.Name = *patch.Name
	}
	if patch.Position != nil {
		col.Position = *patch.Position
	}
	f.columns[id] = col
	return col, nil
}

func (f *fakeStore) DeleteColumn(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteColumn", id); err != nil {
		return err
	}
	if _, ok := f.columns[id]; !ok {
		return fmt.Errorf("column %s: %w", id, store.ErrNotFound)
	}
	for _, c := range f.cards {
		if c.ColumnID == id {
			return fmt.Errorf("column %s still holds card %s", id, c.ID)
		}
	}
	delete(f.columns, id)
	return nil
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListCategories", ""); err != nil {
		return nil, err
	}
	var out []model.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, cat model.Category) (model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateCategory", cat.Name); err != nil {
		return model.Category{}, err
	}
	cat.ID = f.nextID("cat")
	f.categories[cat.ID] = cat
	return cat, nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) (model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateCategory", id); err != nil {
		return model.Category{}, err
	}
	cat, ok := f.categories[id]
	if !ok {
		return model.Category{}, fmt.Errorf("category %s: %w", id, store.ErrNotFound)
	}
	if patch.Name != nil {
		cat.Name = *patch.Name
	}
	if patch.Color != nil {
		cat.Color = *patch.Color
	}
	f.categories[id] = cat
	return cat, nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteCategory", id); err != nil {
		return err
	}
	if _, ok := f.categories[id]; !ok {
		return fmt.Errorf("category %s: %w", id, store.ErrNotFound)
	}
	delete(f.categories, id)
	for k, c := range f.cards {
		if c.CategoryID != nil && *c.CategoryID == id {
			c.CategoryID = nil
			f.cards[k] = c
		}
	}
	return nil
}

func (f *fakeStore) ListCards(ctx context.Context, filter store.CardFilter) ([]model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListCards", ""); err != nil {
		return nil, err
	}
	var out []model.Card
	for _, c := range f.cards {
		if filter.Archived != nil && c.Archived != *filter.Archived {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) CreateCard(ctx context.Context, card model.Card) (model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateCard", card.Title); err != nil {
		return model.Card{}, err
	}
	card.ID = f.nextID("card")
	if card.TimerState == "" {
		card.TimerState = model.TimerNone
	}
	f.cards[card.ID] = card
	return card, nil
}

func (f *fakeStore) UpdateCard(ctx context.Context, id string, patch model.CardPatch) (model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateCard", id); err != nil {
		return model.Card{}, err
	}
	card, ok := f.cards[id]
	if !ok {
		return model.Card{}, fmt.Errorf("card %s: %w", id, store.ErrNotFound)
	}
	card = patch.Apply(card, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	f.cards[id] = card
	return card, nil
}

func (f *fakeStore) DeleteCard(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteCard", id); err != nil {
		return err
	}
	if _, ok := f.cards[id]; !ok {
		return fmt.Errorf("card %s: %w", id, store.ErrNotFound)
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeStore) GetDashboardSettings(ctx context.Context) (model.DashboardSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetDashboardSettings", ""); err != nil {
		return model.DashboardSettings{}, err
	}
	return f.settings, nil
}

func (f *fakeStore) UpdateDashboardSettings(ctx context.Context, s model.DashboardSettings) (model.DashboardSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateDashboardSettings", ""); err != nil {
		return model.DashboardSettings{}, err
	}
	f.settings = s
	return s, nil
}

func (f *fakeStore) ListColumnSettings(ctx context.Context) ([]model.ColumnSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListColumnSettings", ""); err != nil {
		return nil, err
	}
	var out []model.ColumnSettings
	for _, s := range f.colSet {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) UpsertColumnSettings(ctx context.Context, s model.ColumnSettings) (model.ColumnSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpsertColumnSettings", s.ColumnID); err != nil {
		return model.ColumnSettings{}, err
	}
	f.colSet[s.ColumnID] = s
	return s, nil
}

func (f *fakeStore) DeleteColumnSettings(ctx context.Context, columnID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteColumnSettings", columnID); err != nil {
		return err
	}
	delete(f.colSet, columnID)
	return nil
}

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
