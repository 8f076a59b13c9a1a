// Package board holds the in-memory learning board for one user and keeps
// it reconciled with a store.Store. All mutations go through Board methods,
// which write to the store first and only then update local state.
package board

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/store"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

// Clock returns the current time.
type Clock func() time.Time

// TickFunc receives the running card's elapsed time once per tick.
// It is called from the tick goroutine without the board lock held.
type TickFunc func(cardID string, elapsed time.Duration)

// Option configures a Board.
type Option func(*Board)

// WithClock replaces time.Now.
func WithClock(c Clock) Option {
	return func(b *Board) { b.now = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.log = l }
}

// WithTickFunc registers the display tick callback.
func WithTickFunc(f TickFunc) Option {
	return func(b *Board) { b.onTick = f }
}

// WithTickInterval sets the display tick period. Defaults to one second.
func WithTickInterval(d time.Duration) Option {
	return func(b *Board) {
		if d > 0 {
			b.tickEvery = d
		}
	}
}

// Board is the card/timer state model for one user.
type Board struct {
	mu sync.Mutex

	store     store.Store
	user      model.User
	log       *slog.Logger
	now       Clock
	onTick    TickFunc
	tickEvery time.Duration

	columns        []model.Column
	cards          []model.Card
	archived       []model.Card
	categories     []model.Category
	settings       model.DashboardSettings
	columnSettings map[string]model.ColumnSettings
	filters        map[string][]string
	timer          *activeTimer
}

// New creates an empty board for user backed by st. Call LoadAll to hydrate it.
func New(st store.Store, user model.User, opts ...Option) *Board {
	b := &Board{
		store:          st,
		user:           user,
		log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:            time.Now,
		tickEvery:      time.Second,
		settings:       model.DefaultDashboardSettings(user.ID),
		columnSettings: map[string]model.ColumnSettings{},
		filters:        map[string][]string{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// User returns the board owner.
func (b *Board) User() model.User {
	return b.user
}

// Close cancels the tick goroutine. A running timer stays running in the
// store and is resumed from its persisted time on the next LoadAll.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.halt()
		b.timer = nil
	}
}

// Snapshot is a copy of the board state, safe to hand to another goroutine.
type Snapshot struct {
	Columns        []model.Column
	Cards          []model.Card
	Archived       []model.Card
	Categories     []model.Category
	Settings       model.DashboardSettings
	ColumnSettings map[string]model.ColumnSettings
	Filters        map[string][]string
	Timer          *view.TimerStatus
	Now            time.Time
}

// Snapshot copies the current state.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	s := Snapshot{
		Columns:        append([]model.Column(nil), b.columns...),
		Cards:          append([]model.Card(nil), b.cards...),
		Archived:       append([]model.Card(nil), b.archived...),
		Categories:     append([]model.Category(nil), b.categories...),
		Settings:       b.settings,
		ColumnSettings: make(map[string]model.ColumnSettings, len(b.columnSettings)),
		Filters:        make(map[string][]string, len(b.filters)),
		Now:            now,
	}
	for k, v := range b.columnSettings {
		s.ColumnSettings[k] = v
	}
	for k, v := range b.filters {
		s.Filters[k] = append([]string(nil), v...)
	}
	if b.timer != nil {
		s.Timer = &view.TimerStatus{CardID: b.timer.cardID, Elapsed: b.timer.elapsed(now)}
	}
	return s
}

// ActiveInput is the engine input for the active board.
func (s Snapshot) ActiveInput() view.Input {
	return s.input(s.Cards)
}

// ArchiveInput is the engine input for the archive view.
func (s Snapshot) ArchiveInput() view.Input {
	return s.input(s.Archived)
}

func (s Snapshot) input(cards []model.Card) view.Input {
	return view.Input{
		Columns:        s.Columns,
		Cards:          cards,
		Categories:     s.Categories,
		Filters:        s.Filters,
		DisplayMode:    s.Settings.SectionDisplayMode,
		ColumnSettings: s.ColumnSettings,
		Timer:          s.Timer,
		Now:            s.Now,
	}
}

// remote is everything LoadAll fetches in one pass.
type remote struct {
	columns        []model.Column
	cards          []model.Card
	archived       []model.Card
	categories     []model.Category
	settings       model.DashboardSettings
	columnSettings []model.ColumnSettings
}

// LoadAll replaces local state with the store's. When the user has no
// columns the default set is created first, one column at a time. A card
// left running by an earlier session is resumed from its persisted time.
func (b *Board) LoadAll(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reloadLocked(ctx, true)
}

func (b *Board) reloadLocked(ctx context.Context, seed bool) error {
	r, err := b.fetch(ctx)
	if err != nil {
		return err
	}

	if seed && len(r.columns) == 0 {
		for i, name := range model.DefaultColumnNames {
			col, err := b.store.CreateColumn(ctx, model.Column{Name: name, Position: i})
			if err != nil {
				return b.fail("seed default columns", err, "column", name)
			}
			r.columns = append(r.columns, col)
		}
		b.log.Info("seeded default columns", "user", b.user.ID, "count", len(r.columns))
	}

	b.apply(r)
	b.resumeLocked(ctx)
	return nil
}

func (b *Board) fetch(ctx context.Context) (remote, error) {
	var r remote
	var err error

	if r.columns, err = b.store.ListColumns(ctx); err != nil {
		return r, b.fail("load columns", err)
	}
	if r.cards, err = b.store.ListCards(ctx, store.ActiveCards()); err != nil {
		return r, b.fail("load cards", err)
	}
	if r.archived, err = b.store.ListCards(ctx, store.ArchivedCards()); err != nil {
		return r, b.fail("load archived cards", err)
	}
	if r.categories, err = b.store.ListCategories(ctx); err != nil {
		return r, b.fail("load categories", err)
	}
	if r.settings, err = b.store.GetDashboardSettings(ctx); err != nil {
		return r, b.fail("load dashboard settings", err)
	}
	if r.columnSettings, err = b.store.ListColumnSettings(ctx); err != nil {
		return r, b.fail("load column settings", err)
	}
	return r, nil
}

func (b *Board) apply(r remote) {
	sortColumns(r.columns)
	b.columns = r.columns
	b.cards = normalizeCards(r.cards)
	b.archived = normalizeCards(r.archived)
	b.categories = r.categories

	b.settings = r.settings
	if !b.settings.SectionDisplayMode.Valid() {
		b.settings.SectionDisplayMode = model.DisplayCardsOnly
	}

	b.columnSettings = make(map[string]model.ColumnSettings, len(r.columnSettings))
	for _, s := range r.columnSettings {
		b.columnSettings[s.ColumnID] = s.Normalize()
	}

	// Filters survive a reload but not for columns that are gone.
	for id := range b.filters {
		if b.columnIndex(id) < 0 {
			delete(b.filters, id)
		}
	}
}

func normalizeCards(cards []model.Card) []model.Card {
	for i := range cards {
		if !cards[i].TimerState.Valid() {
			cards[i].TimerState = model.TimerNone
		}
		if cards[i].TimeSpentMs < 0 {
			cards[i].TimeSpentMs = 0
		}
	}
	return cards
}

// fail logs a failed store call and wraps it.
func (b *Board) fail(op string, err error, attrs ...any) error {
	args := append([]any{"op", op, "user", b.user.ID, "error", err}, attrs...)
	b.log.Error("store call failed", args...)
	return &StoreError{Op: op, Err: err}
}

// compensateLocked reloads the board after a write sequence failed part
// way, so local state matches whatever the store kept.
func (b *Board) compensateLocked(ctx context.Context, storeErr error) error {
	if err := b.reloadLocked(ctx, false); err != nil {
		return errors.Join(storeErr, err)
	}
	return storeErr
}

func sortColumns(cols []model.Column) {
	sort.SliceStable(cols, func(i, j int) bool {
		if cols[i].Position != cols[j].Position {
			return cols[i].Position < cols[j].Position
		}
		return cols[i].ID < cols[j].ID
	})
}

func (b *Board) columnIndex(id string) int {
	for i, c := range b.columns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) column(id string) (model.Column, bool) {
	if i := b.columnIndex(id); i >= 0 {
		return b.columns[i], true
	}
	return model.Column{}, false
}

func (b *Board) cardIndex(id string) int {
	for i, c := range b.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) archivedIndex(id string) int {
	for i, c := range b.archived {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// countInColumn counts active cards in a column, skipping exceptID.
func (b *Board) countInColumn(columnID, exceptID string) int {
	n := 0
	for _, c := range b.cards {
		if c.ColumnID == columnID && c.ID != exceptID {
			n++
		}
	}
	return n
}

// Columns returns the columns in display order.
func (b *Board) Columns() []model.Column {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Column(nil), b.columns...)
}

// Card returns an active or archived card by id.
func (b *Board) Card(id string) (model.Card, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.cardIndex(id); i >= 0 {
		return b.cards[i], true
	}
	if i := b.archivedIndex(id); i >= 0 {
		return b.archived[i], true
	}
	return model.Card{}, false
}
