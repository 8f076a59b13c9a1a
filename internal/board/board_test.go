package board

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/store"
)

var errBoom = errors.New("boom")

type fixture struct {
	st      *fakeStore
	clock   *fakeClock
	b       *Board
	backlog model.Column
	doing   model.Column
	done    model.Column
}

// newFixture loads a board with Backlog / In Progress / Done.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{st: newFakeStore(), clock: newFakeClock()}
	f.backlog = f.st.putColumn("Backlog", 0)
	f.doing = f.st.putColumn("In Progress", 1)
	f.done = f.st.putColumn("Done", 2)

	opts = append([]Option{WithClock(f.clock.Now), WithTickInterval(time.Hour)}, opts...)
	f.b = New(f.st, model.User{ID: "u1", Email: "u1@example.com"}, opts...)
	t.Cleanup(f.b.Close)
	if err := f.b.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	return f
}

func (f *fixture) addCard(t *testing.T, title, columnID string) model.Card {
	t.Helper()
	c, err := f.b.AddCard(context.Background(), CardInput{Title: title, ColumnID: columnID})
	if err != nil {
		t.Fatalf("AddCard(%q): %v", title, err)
	}
	return c
}

func assertKind[T error](t *testing.T, err error) T {
	t.Helper()
	var target T
	if !errors.As(err, &target) {
		t.Fatalf("expected %T, got %v", target, err)
	}
	return target
}

func TestLoadAllSeedsDefaultColumns(t *testing.T) {
	st := newFakeStore()
	b := New(st, model.User{ID: "u1"})
	defer b.Close()

	if err := b.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	cols := b.Columns()
	if len(cols) != len(model.DefaultColumnNames) {
		t.Fatalf("got %d columns, want %d", len(cols), len(model.DefaultColumnNames))
	}
	for i, c := range cols {
		if c.Name != model.DefaultColumnNames[i] || c.Position != i {
			t.Errorf("column %d: got %q@%d", i, c.Name, c.Position)
		}
	}
	if n := st.countCalls("CreateColumn"); n != 4 {
		t.Errorf("CreateColumn calls: got %d, want 4", n)
	}

	// A second load finds the seeded columns and creates nothing.
	if err := b.LoadAll(context.Background()); err != nil {
		t.Fatalf("second LoadAll: %v", err)
	}
	if n := st.countCalls("CreateColumn"); n != 4 {
		t.Errorf("CreateColumn calls after reload: got %d, want 4", n)
	}
}

func TestLoadAllFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	f.addCard(t, "Keep me", f.backlog.ID)

	f.st.hook = func(method, _ string) error {
		if method == "ListCategories" {
			return errBoom
		}
		return nil
	}
	err := f.b.LoadAll(context.Background())
	se := assertKind[*StoreError](t, err)
	if !errors.Is(se, errBoom) {
		t.Errorf("StoreError should unwrap to the cause, got %v", se.Err)
	}
	if got := len(f.b.Snapshot().Cards); got != 1 {
		t.Errorf("cards after failed load: got %d, want 1", got)
	}
}

func TestAddColumnUsesCountAsPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.b.AddColumn(ctx, "Review")
	if err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	b, err := f.b.AddColumn(ctx, "  Later  ")
	if err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	if a.Position != 3 || b.Position != 4 {
		t.Errorf("positions: got %d and %d, want 3 and 4", a.Position, b.Position)
	}
	if b.Name != "Later" {
		t.Errorf("name not trimmed: %q", b.Name)
	}

	_, err = f.b.AddColumn(ctx, "   ")
	assertKind[*ValidationError](t, err)
}

func TestSingleInProgressColumn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.b.AddColumn(ctx, " in progress ")
	assertKind[*ValidationError](t, err)

	err = f.b.RenameColumn(ctx, f.done.ID, "IN PROGRESS")
	assertKind[*ValidationError](t, err)

	if err := f.b.RenameColumn(ctx, f.doing.ID, "in progress"); err != nil {
		t.Errorf("renaming the timer column to itself: %v", err)
	}

	n := 0
	for _, c := range f.b.Columns() {
		if c.IsInProgress() {
			n++
		}
	}
	if n != 1 {
		t.Errorf("timer columns: got %d, want 1", n)
	}
	if got := f.st.countCalls("CreateColumn"); got != 0 {
		t.Errorf("CreateColumn calls: got %d, want 0", got)
	}
}

func TestRenameInProgressColumnStopsTimer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addCard(t, "focus", f.backlog.ID)
	if err := f.b.MoveCard(ctx, c.ID, f.doing.ID); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(30 * time.Second)

	if err := f.b.RenameColumn(ctx, f.doing.ID, "Doing"); err != nil {
		t.Fatalf("RenameColumn: %v", err)
	}
	if _, _, ok := f.b.ActiveTimer(); ok {
		t.Fatal("timer still running after its column stopped being In Progress")
	}
	if got := f.st.card(c.ID); got.TimerState != model.TimerStopped || got.TimeSpentMs != 30_000 {
		t.Errorf("stored card: state %q spent %d", got.TimerState, got.TimeSpentMs)
	}

	// With no timer column left, a new one may be named.
	col, err := f.b.AddColumn(ctx, "In Progress")
	if err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	if !col.IsInProgress() {
		t.Error("new column should be the timer column")
	}
}

func TestDeleteColumnReassignsCards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addCard(t, "already there", f.backlog.ID)
	c1 := f.addCard(t, "finished", f.done.ID)
	c2 := f.addCard(t, "archived", f.done.ID)
	if err := f.b.ArchiveCard(ctx, c2.ID); err != nil {
		t.Fatalf("ArchiveCard: %v", err)
	}
	if err := f.b.SetColumnFilter(f.done.ID, nil); err != nil {
		t.Fatalf("SetColumnFilter: %v", err)
	}

	if err := f.b.DeleteColumn(ctx, f.done.ID); err != nil {
		t.Fatalf("DeleteColumn: %v", err)
	}

	snap := f.b.Snapshot()
	for _, list := range [][]model.Card{snap.Cards, snap.Archived} {
		for _, c := range list {
			if c.ColumnID == f.done.ID {
				t.Errorf("card %s still references the deleted column", c.ID)
			}
		}
	}
	if got := f.st.card(c1.ID); got.ColumnID != f.backlog.ID || got.Position != 1 {
		t.Errorf("moved card in store: column %s position %d", got.ColumnID, got.Position)
	}
	if got := f.st.card(c2.ID); got.ColumnID != f.backlog.ID {
		t.Errorf("archived card not reassigned: %s", got.ColumnID)
	}
	if len(snap.Columns) != 2 {
		t.Errorf("columns: got %d, want 2", len(snap.Columns))
	}
}

func TestDeleteColumnFailureReloads(t *testing.T) {
	tests := []struct {
		name string
		fail func(method string, updates int) bool
	}{
		{"second reassign", func(method string, updates int) bool {
			return method == "UpdateCard" && updates == 2
		}},
		{"column delete", func(method string, _ int) bool {
			return method == "DeleteColumn"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.addCard(t, "first", f.done.ID)
			f.addCard(t, "second", f.done.ID)

			updates := 0
			f.st.hook = func(method, _ string) error {
				if method == "UpdateCard" {
					updates++
				}
				if tt.fail(method, updates) {
					return errBoom
				}
				return nil
			}

			err := f.b.DeleteColumn(ctx, f.done.ID)
			assertKind[*StoreError](t, err)
			if !errors.Is(err, errBoom) {
				t.Errorf("error does not wrap the store failure: %v", err)
			}

			for _, c := range f.b.Snapshot().Cards {
				if stored := f.st.card(c.ID); stored.ColumnID != c.ColumnID {
					t.Errorf("card %s: local column %s, store column %s", c.ID, c.ColumnID, stored.ColumnID)
				}
			}
			if len(f.b.Columns()) != 3 {
				t.Errorf("columns: got %d, want 3 while the column row survives", len(f.b.Columns()))
			}
		})
	}
}

func TestDeleteLastColumnRefused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.b.DeleteColumn(ctx, f.done.ID); err != nil {
		t.Fatal(err)
	}
	if err := f.b.DeleteColumn(ctx, f.doing.ID); err != nil {
		t.Fatal(err)
	}
	err := f.b.DeleteColumn(ctx, f.backlog.ID)
	assertKind[*ValidationError](t, err)
	if n := len(f.b.Columns()); n != 1 {
		t.Errorf("columns: got %d, want 1", n)
	}

	err = f.b.DeleteColumn(ctx, "nope")
	assertKind[*NotFoundError](t, err)
}

func TestDeleteInProgressColumnStopsTimer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addCard(t, "focus", f.backlog.ID)
	if err := f.b.MoveCard(ctx, c.ID, f.doing.ID); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(time.Minute)

	if err := f.b.DeleteColumn(ctx, f.doing.ID); err != nil {
		t.Fatalf("DeleteColumn: %v", err)
	}
	if _, _, ok := f.b.ActiveTimer(); ok {
		t.Error("timer still running after its column was deleted")
	}
	if got := f.st.card(c.ID); got.TimerState != model.TimerStopped || got.TimeSpentMs != 60_000 {
		t.Errorf("stored card: state %q spent %d", got.TimerState, got.TimeSpentMs)
	}
}

func TestAddCardResolvesCategoryAndDuration(t *testing.T) {
	f := newFixture(t)
	goCat := f.st.putCategory("Go", "#00ADD8")
	if err := f.b.LoadAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	first := f.addCard(t, "one", f.backlog.ID)
	card, err := f.b.AddCard(context.Background(), CardInput{
		Title:           "Concurrency",
		Category:        "gO",
		ColumnID:        f.backlog.ID,
		DurationHours:   1,
		DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("AddCard: %v", err)
	}
	if card.CategoryID == nil || *card.CategoryID != goCat.ID {
		t.Errorf("category: got %v, want %s", card.CategoryID, goCat.ID)
	}
	if card.DurationMinutes != 90 {
		t.Errorf("duration: got %d, want 90", card.DurationMinutes)
	}
	if first.Position != 0 || card.Position != 1 {
		t.Errorf("positions: got %d, %d", first.Position, card.Position)
	}

	unmatched, err := f.b.AddCard(context.Background(), CardInput{Title: "Rust", Category: "rust"})
	if err != nil {
		t.Fatalf("AddCard: %v", err)
	}
	if unmatched.CategoryID != nil {
		t.Errorf("unmatched category should be nil, got %q", *unmatched.CategoryID)
	}
	if unmatched.ColumnID != f.backlog.ID {
		t.Errorf("default column: got %s", unmatched.ColumnID)
	}
	if n := f.st.countCalls("CreateCategory"); n != 0 {
		t.Errorf("unmatched category must not be created, got %d creates", n)
	}
}

func TestAddCardValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.b.AddCard(ctx, CardInput{Title: "  "})
	assertKind[*ValidationError](t, err)

	_, err = f.b.AddCard(ctx, CardInput{Title: "x", DurationMinutes: -1})
	assertKind[*ValidationError](t, err)

	_, err = f.b.AddCard(ctx, CardInput{Title: "x", ColumnID: "nope"})
	assertKind[*NotFoundError](t, err)

	if n := f.st.countCalls("CreateCard"); n != 0 {
		t.Errorf("invalid input reached the store %d times", n)
	}
}

func TestAddCardStoreFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	f.st.hook = func(method, _ string) error {
		if method == "CreateCard" {
			return errBoom
		}
		return nil
	}
	_, err := f.b.AddCard(context.Background(), CardInput{Title: "x"})
	assertKind[*StoreError](t, err)
	if n := len(f.b.Snapshot().Cards); n != 0 {
		t.Errorf("cards: got %d, want 0", n)
	}
}

func TestStartTimerPreemptsRunningTimer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addCard(t, "A", f.backlog.ID)
	b := f.addCard(t, "B", f.backlog.ID)

	if err := f.b.StartTimer(ctx, a.ID); err != nil {
		t.Fatalf("StartTimer(A): %v", err)
	}
	f.clock.Advance(10 * time.Second)
	if err := f.b.StartTimer(ctx, b.ID); err != nil {
		t.Fatalf("StartTimer(B): %v", err)
	}

	if got := f.st.card(a.ID); got.TimerState != model.TimerStopped || got.TimeSpentMs != 10_000 {
		t.Errorf("A: state %q spent %d", got.TimerState, got.TimeSpentMs)
	}
	if got := f.st.card(b.ID); got.TimerState != model.TimerRunning {
		t.Errorf("B: state %q", got.TimerState)
	}
	if n := f.st.runningCount(); n != 1 {
		t.Errorf("running cards: got %d, want 1", n)
	}
	id, _, ok := f.b.ActiveTimer()
	if !ok || id != b.ID {
		t.Errorf("active timer: got %q %v, want %s", id, ok, b.ID)
	}
}

func TestPauseAndResumeAccumulates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addCard(t, "study", f.backlog.ID)

	if err := f.b.StartTimer(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(10 * time.Second)
	if err := f.b.PauseTimer(ctx); err != nil {
		t.Fatal(err)
	}
	if got := f.st.card(c.ID); got.TimerState != model.TimerPaused || got.TimeSpentMs != 10_000 {
		t.Fatalf("after pause: state %q spent %d", got.TimerState, got.TimeSpentMs)
	}

	// Paused time is not counted.
	f.clock.Advance(time.Hour)
	if err := f.b.StartTimer(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(5 * time.Second)
	if _, elapsed, _ := f.b.ActiveTimer(); elapsed != 15*time.Second {
		t.Errorf("elapsed: got %v, want 15s", elapsed)
	}
	if err := f.b.StopTimer(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if got := f.st.card(c.ID); got.TimerState != model.TimerStopped || got.TimeSpentMs != 15_000 {
		t.Errorf("after stop: state %q spent %d", got.TimerState, got.TimeSpentMs)
	}

	// Nothing running: pause and stop are no-ops.
	if err := f.b.PauseTimer(ctx); err != nil {
		t.Errorf("PauseTimer with no timer: %v", err)
	}
}

func TestStopPausedCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addCard(t, "study", f.backlog.ID)

	if err := f.b.StartTimer(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(3 * time.Second)
	if err := f.b.PauseTimer(ctx); err != nil {
		t.Fatal(err)
	}
	if err := f.b.StopTimer(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	if got := f.st.card(c.ID); got.TimerState != model.TimerStopped || got.TimeSpentMs != 3_000 {
		t.Errorf("state %q spent %d", got.TimerState, got.TimeSpentMs)
	}
}

func TestTimerPersistenceFailureKeepsTimerRunning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addCard(t, "study", f.backlog.ID)
	if err := f.b.StartTimer(ctx, c.ID); err != nil {
		t.Fatal(err)
	}

	f.st.hook = func(method, _ string) error {
		if method == "UpdateCard" {
			return errBoom
		}
		return nil
	}
	assertKind[*StoreError](t, f.b.PauseTimer(ctx))
	if id, _, ok := f.b.ActiveTimer(); !ok || id != c.ID {
		t.Error("failed pause should leave the timer running")
	}
}

func TestMoveCardDrivesTimer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addCard(t, "Generics", f.backlog.ID)

	if err := f.b.MoveCard(ctx, c.ID, f.doing.ID); err != nil {
		t.Fatalf("MoveCard(in progress): %v", err)
	}
	id, _, ok := f.b.ActiveTimer()
	if !ok || id != c.ID {
		t.Fatalf("timer should start on entering In Progress, got %q %v", id, ok)
	}
	f.b.mu.Lock()
	done := f.b.timer.done
	f.b.mu.Unlock()

	f.clock.Advance(90 * time.Second)
	if err := f.b.MoveCard(ctx, c.ID, f.done.ID); err != nil {
		t.Fatalf("MoveCard(done): %v", err)
	}
	if _, _, ok := f.b.ActiveTimer(); ok {
		t.Error("timer should stop on leaving In Progress")
	}

	got := f.st.card(c.ID)
	if got.ColumnID != f.done.ID || got.TimerState != model.TimerStopped || got.TimeSpentMs != 90_000 {
		t.Errorf("stored card: column %s state %q spent %d", got.ColumnID, got.TimerState, got.TimeSpentMs)
	}
	// Column, position and timer fields travel in one write.
	if n := f.st.countCalls("UpdateCard"); n != 2 {
		t.Errorf("UpdateCard calls: got %d, want 2", n)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tick goroutine still running after the timer stopped")
	}
}

func TestMoveCardPositionsAndErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCard(t, "d1", f.done.ID)
	f.addCard(t, "d2", f.done.ID)
	c := f.addCard(t, "mover", f.backlog.ID)

	if err := f.b.MoveCard(ctx, c.ID, f.done.ID); err != nil {
		t.Fatal(err)
	}
	if got := f.st.card(c.ID); got.Position != 2 {
		t.Errorf("position: got %d, want 2", got.Position)
	}

	assertKind[*NotFoundError](t, f.b.MoveCard(ctx, "nope", f.done.ID))
	assertKind[*NotFoundError](t, f.b.MoveCard(ctx, c.ID, "nope"))

	calls := f.st.countCalls("UpdateCard")
	if err := f.b.MoveCard(ctx, c.ID, f.done.ID); err != nil {
		t.Fatal(err)
	}
	if f.st.countCalls("UpdateCard") != calls {
		t.Error("moving to the same column should not write")
	}
}

func TestShiftCardAcrossColumns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addCard(t, "walk", f.backlog.ID)

	if err := f.b.ShiftCard(ctx, c.ID, -1); err != nil {
		t.Fatal(err)
	}
	if err := f.b.ShiftCard(ctx, c.ID, 1); err != nil {
		t.Fatal(err)
	}
	if got, _ := f.b.Card(c.ID); got.ColumnID != f.doing.ID {
		t.Fatalf("column: got %s, want in progress", got.ColumnID)
	}
	if _, _, ok := f.b.ActiveTimer(); !ok {
		t.Error("shifting into In Progress should start the timer")
	}
}

func TestDeleteCardStopsItsTimer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addCard(t, "doomed", f.backlog.ID)
	if err := f.b.StartTimer(ctx, c.ID); err != nil {
		t.Fatal(err)
	}

	if err := f.b.DeleteCard(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}
	if _, _, ok := f.b.ActiveTimer(); ok {
		t.Error("deleted card still owns the timer")
	}
	// The stop is persisted before the delete.
	calls := f.st.calls
	if len(calls) < 2 || calls[len(calls)-2] != "UpdateCard" || calls[len(calls)-1] != "DeleteCard" {
		t.Errorf("call order: %v", calls)
	}
	assertKind[*NotFoundError](t, f.b.DeleteCard(ctx, c.ID))
}

func TestUpdateCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.st.putCategory("Databases", "#336791")
	if err := f.b.LoadAll(ctx); err != nil {
		t.Fatal(err)
	}
	c := f.addCard(t, "SQL", f.backlog.ID)

	title, category, mins := " Indexes ", "databases", 45
	got, err := f.b.UpdateCard(ctx, c.ID, CardUpdate{Title: &title, Category: &category, DurationMinutes: &mins})
	if err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}
	if got.Title != "Indexes" || got.CategoryID == nil || *got.CategoryID != cat.ID || got.DurationMinutes != 45 {
		t.Errorf("updated card: %+v", got)
	}

	none := "nothing like it"
	got, err = f.b.UpdateCard(ctx, c.ID, CardUpdate{Category: &none})
	if err != nil {
		t.Fatal(err)
	}
	if got.CategoryID != nil {
		t.Errorf("unmatched category should clear, got %q", *got.CategoryID)
	}

	col := f.doing.ID
	if _, err := f.b.UpdateCard(ctx, c.ID, CardUpdate{ColumnID: &col}); err != nil {
		t.Fatal(err)
	}
	if id, _, ok := f.b.ActiveTimer(); !ok || id != c.ID {
		t.Error("changing the column to In Progress through an edit should start the timer")
	}

	empty := ""
	_, err = f.b.UpdateCard(ctx, c.ID, CardUpdate{Title: &empty})
	assertKind[*ValidationError](t, err)
}

func TestUpdateUnknownCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	title := "x"

	// Unknown everywhere: the store call is made and its failure wins.
	_, err := f.b.UpdateCard(ctx, "ghost", CardUpdate{Title: &title})
	se := assertKind[*StoreError](t, err)
	if !errors.Is(se, store.ErrNotFound) {
		t.Errorf("expected store.ErrNotFound inside, got %v", se.Err)
	}

	// Known to the store but not loaded: written, then reported missing.
	outside := f.st.putCard(model.Card{Title: "elsewhere", ColumnID: f.backlog.ID})
	_, err = f.b.UpdateCard(ctx, outside.ID, CardUpdate{Title: &title})
	assertKind[*NotFoundError](t, err)
	if got := f.st.card(outside.ID); got.Title != "x" {
		t.Errorf("store write not attempted: title %q", got.Title)
	}
}

func TestReorderColumns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.b.ReorderColumns(ctx, f.done.ID, f.backlog.ID); err != nil {
		t.Fatalf("ReorderColumns: %v", err)
	}
	want := []string{f.done.ID, f.backlog.ID, f.doing.ID}
	for i, c := range f.b.Columns() {
		if c.ID != want[i] || c.Position != i {
			t.Errorf("column %d: got %s@%d, want %s@%d", i, c.ID, c.Position, want[i], i)
		}
	}

	// Reloading yields the same order.
	if err := f.b.LoadAll(ctx); err != nil {
		t.Fatal(err)
	}
	for i, c := range f.b.Columns() {
		if c.ID != want[i] {
			t.Errorf("after reload column %d: got %s, want %s", i, c.ID, want[i])
		}
	}

	if err := f.b.ShiftColumn(ctx, f.doing.ID, -1); err != nil {
		t.Fatal(err)
	}
	if cols := f.b.Columns(); cols[1].ID != f.doing.ID {
		t.Errorf("ShiftColumn: got %s in slot 1", cols[1].ID)
	}
}

func TestReorderFailureReloads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	updates := 0
	f.st.hook = func(method, _ string) error {
		if method == "UpdateColumn" {
			updates++
			if updates == 2 {
				return errBoom
			}
		}
		return nil
	}

	err := f.b.ReorderColumns(ctx, f.done.ID, f.backlog.ID)
	assertKind[*StoreError](t, err)

	// Local state matches the store after the compensating reload,
	// including the one position that did get written.
	stored, _ := f.st.ListColumns(ctx)
	local := f.b.Columns()
	if len(local) != len(stored) {
		t.Fatalf("columns: local %d, store %d", len(local), len(stored))
	}
	for i := range local {
		if local[i].ID != stored[i].ID || local[i].Position != stored[i].Position {
			t.Errorf("column %d: local %s@%d, store %s@%d",
				i, local[i].ID, local[i].Position, stored[i].ID, stored[i].Position)
		}
	}
}

func TestLoadAllResumesRunningTimer(t *testing.T) {
	st := newFakeStore()
	col := st.putColumn("In Progress", 0)
	first := st.putCard(model.Card{ID: "a", Title: "left running", ColumnID: col.ID, TimerState: model.TimerRunning, TimeSpentMs: 5_000})
	second := st.putCard(model.Card{ID: "b", Title: "also running", ColumnID: col.ID, TimerState: model.TimerRunning, TimeSpentMs: 1_000})

	clock := newFakeClock()
	b := New(st, model.User{ID: "u1"}, WithClock(clock.Now), WithTickInterval(time.Hour))
	defer b.Close()
	if err := b.LoadAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	id, elapsed, ok := b.ActiveTimer()
	if !ok || id != first.ID || elapsed != 5*time.Second {
		t.Fatalf("resumed timer: %q %v %v", id, elapsed, ok)
	}
	if got := st.card(second.ID); got.TimerState != model.TimerPaused {
		t.Errorf("extra running card: state %q, want paused", got.TimerState)
	}
	if n := st.runningCount(); n != 1 {
		t.Errorf("running cards: got %d, want 1", n)
	}

	clock.Advance(2 * time.Second)
	if _, elapsed, _ := b.ActiveTimer(); elapsed != 7*time.Second {
		t.Errorf("elapsed after resume: got %v, want 7s", elapsed)
	}
}

func TestTickCallback(t *testing.T) {
	ticks := make(chan string, 16)
	f := newFixture(t,
		WithTickInterval(5*time.Millisecond),
		WithTickFunc(func(cardID string, _ time.Duration) {
			select {
			case ticks <- cardID:
			default:
			}
		}),
	)
	ctx := context.Background()
	c := f.addCard(t, "tick", f.backlog.ID)

	if err := f.b.StartTimer(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	select {
	case id := <-ticks:
		if id != c.ID {
			t.Errorf("tick for %q, want %q", id, c.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no tick while running")
	}

	f.b.mu.Lock()
	done := f.b.timer.done
	f.b.mu.Unlock()

	calls := f.st.countCalls("UpdateCard")
	if err := f.b.PauseTimer(ctx); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tick goroutine leaked after pause")
	}
	// Ticks never write; only the pause did.
	if n := f.st.countCalls("UpdateCard") - calls; n != 1 {
		t.Errorf("UpdateCard calls during pause: got %d, want 1", n)
	}
}

func TestArchiveAndUnarchive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addCard(t, "wrap up", f.backlog.ID)
	if err := f.b.StartTimer(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(4 * time.Second)

	if err := f.b.ArchiveCard(ctx, c.ID); err != nil {
		t.Fatalf("ArchiveCard: %v", err)
	}
	if _, _, ok := f.b.ActiveTimer(); ok {
		t.Error("archiving should stop the timer")
	}
	got := f.st.card(c.ID)
	if !got.Archived || got.ArchivedAt == nil || got.TimerState != model.TimerStopped || got.TimeSpentMs != 4_000 {
		t.Errorf("stored archived card: %+v", got)
	}
	snap := f.b.Snapshot()
	if len(snap.Cards) != 0 || len(snap.Archived) != 1 {
		t.Fatalf("active %d archived %d", len(snap.Cards), len(snap.Archived))
	}

	if err := f.b.UnarchiveCard(ctx, c.ID, f.done.ID); err != nil {
		t.Fatalf("UnarchiveCard: %v", err)
	}
	got = f.st.card(c.ID)
	if got.Archived || got.ArchivedAt != nil || got.ColumnID != f.done.ID {
		t.Errorf("stored unarchived card: %+v", got)
	}
	assertKind[*NotFoundError](t, f.b.UnarchiveCard(ctx, c.ID, ""))
}

func TestCategoriesAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	goCat, err := f.b.AddCategory(ctx, "Go", "")
	if err != nil {
		t.Fatal(err)
	}
	if goCat.Color != model.DefaultCategoryColor {
		t.Errorf("default color: got %q", goCat.Color)
	}
	_, err = f.b.AddCategory(ctx, "go", "#fff")
	assertKind[*ValidationError](t, err)
	_, err = f.b.AddCategory(ctx, "Rust", "orange")
	assertKind[*ValidationError](t, err)

	c, err := f.b.AddCard(ctx, CardInput{Title: "chan", Category: "Go"})
	if err != nil {
		t.Fatal(err)
	}

	if err := f.b.SetColumnFilter(f.backlog.ID, []string{goCat.ID, "unknown", goCat.ID}); err != nil {
		t.Fatal(err)
	}
	if got := f.b.ColumnFilter(f.backlog.ID); len(got) != 1 || got[0] != goCat.ID {
		t.Errorf("filter: got %v", got)
	}

	if err := f.b.DeleteCategory(ctx, goCat.ID); err != nil {
		t.Fatal(err)
	}
	if got, _ := f.b.Card(c.ID); got.CategoryID != nil {
		t.Error("card still references the deleted category")
	}
	if got := f.b.ColumnFilter(f.backlog.ID); len(got) != 0 {
		t.Errorf("filter after delete: %v", got)
	}
	if f.b.ResolveCategory("go") != nil {
		t.Error("deleted category still resolves")
	}
}

func TestSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if f.b.DisplayMode() != model.DisplayCardsOnly {
		t.Errorf("default mode: %q", f.b.DisplayMode())
	}
	if err := f.b.SetDisplayMode(ctx, model.DisplayCardsAndDuration); err != nil {
		t.Fatal(err)
	}
	if f.st.settings.SectionDisplayMode != model.DisplayCardsAndDuration {
		t.Errorf("stored mode: %q", f.st.settings.SectionDisplayMode)
	}
	assertKind[*ValidationError](t, f.b.SetDisplayMode(ctx, "fancy"))

	def := f.b.ColumnSettings(f.done.ID)
	if def.DisplayMode != model.ColumnByCategory || def.CountDisplay != model.CountCards || !def.ShowCardDuration {
		t.Errorf("default column settings: %+v", def)
	}
	def.CountDisplay = model.CountDuration
	if err := f.b.UpdateColumnSettings(ctx, def); err != nil {
		t.Fatal(err)
	}
	if got := f.b.ColumnSettings(f.done.ID); got.CountDisplay != model.CountDuration {
		t.Errorf("column settings: %+v", got)
	}
	assertKind[*NotFoundError](t, f.b.UpdateColumnSettings(ctx, model.ColumnSettings{ColumnID: "nope"}))
}

// Random sequences of timer-affecting operations never leave more than one
// running card, and the board's timer always matches the store.
func TestSingleRunningTimerInvariant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var ids []string
	for _, title := range []string{"a", "b", "c", "d"} {
		ids = append(ids, f.addCard(t, title, f.backlog.ID).ID)
	}
	cols := []string{f.backlog.ID, f.doing.ID, f.done.ID}
	rng := rand.New(rand.NewSource(42))

	for step := 0; step < 300; step++ {
		id := ids[rng.Intn(len(ids))]
		var err error
		switch rng.Intn(5) {
		case 0:
			err = f.b.StartTimer(ctx, id)
		case 1:
			err = f.b.PauseTimer(ctx)
		case 2:
			err = f.b.StopTimer(ctx, id)
		default:
			err = f.b.MoveCard(ctx, id, cols[rng.Intn(len(cols))])
		}
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		f.clock.Advance(time.Duration(rng.Intn(5000)) * time.Millisecond)

		running := f.st.runningCount()
		active, _, ok := f.b.ActiveTimer()
		if running > 1 {
			t.Fatalf("step %d: %d running cards", step, running)
		}
		if ok != (running == 1) {
			t.Fatalf("step %d: board timer %v but %d running in store", step, ok, running)
		}
		if ok && f.st.card(active).TimerState != model.TimerRunning {
			t.Fatalf("step %d: active card %s not running in store", step, active)
		}
	}
}
