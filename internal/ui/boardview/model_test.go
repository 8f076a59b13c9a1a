package boardview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/keys"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

func card(id string) view.CardView {
	return view.CardView{Card: model.Card{ID: id, Title: "card " + id}}
}

func column(id string, cards ...view.CardView) view.ActiveColumn {
	return view.ActiveColumn{Column: model.Column{ID: id, Name: "col " + id}, Cards: cards}
}

func press(m Model, r rune) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return m
}

func selected(t *testing.T, m Model) string {
	t.Helper()
	c, ok := m.SelectedCard()
	if !ok {
		return ""
	}
	return c.Card.ID
}

func TestCursorMovement(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 40)
	m.SetBoard(view.ActiveBoard{Columns: []view.ActiveColumn{
		column("a", card("1"), card("2")),
		column("b", card("3")),
	}})

	if got := selected(t, m); got != "1" {
		t.Fatalf("initial card = %q, want 1", got)
	}
	m = press(m, 'j')
	if got := selected(t, m); got != "2" {
		t.Errorf("after j = %q, want 2", got)
	}
	m = press(m, 'j')
	if got := selected(t, m); got != "2" {
		t.Errorf("j past the end = %q, want 2", got)
	}
	m = press(m, 'l')
	if got := selected(t, m); got != "3" {
		t.Errorf("after l = %q, want 3", got)
	}
	m = press(m, 'l')
	if col, _ := m.SelectedColumn(); col.Column.ID != "b" {
		t.Errorf("l past the last column selected %q", col.Column.ID)
	}
}

func TestCursorFollowsCardAcrossRefresh(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 40)
	m.SetBoard(view.ActiveBoard{Columns: []view.ActiveColumn{
		column("a", card("1"), card("2")),
		column("b"),
	}})
	m = press(m, 'j')

	// Card 2 moved to column b.
	m.SetBoard(view.ActiveBoard{Columns: []view.ActiveColumn{
		column("a", card("1")),
		column("b", card("2")),
	}})
	if col, _ := m.SelectedColumn(); col.Column.ID != "b" || selected(t, m) != "2" {
		t.Errorf("cursor on %q/%q, want b/2", col.Column.ID, selected(t, m))
	}

	m.Follow("1")
	m.SetBoard(view.ActiveBoard{Columns: []view.ActiveColumn{
		column("a", card("1")),
		column("b", card("2")),
	}})
	if got := selected(t, m); got != "1" {
		t.Errorf("followed card = %q, want 1", got)
	}
}

func TestCursorClampsWhenCardDisappears(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 40)
	m.SetBoard(view.ActiveBoard{Columns: []view.ActiveColumn{
		column("a", card("1"), card("2")),
	}})
	m = press(m, 'j')

	m.SetBoard(view.ActiveBoard{Columns: []view.ActiveColumn{
		column("a", card("1")),
	}})
	if got := selected(t, m); got != "1" {
		t.Errorf("cursor = %q, want 1", got)
	}

	m.SetBoard(view.ActiveBoard{Columns: []view.ActiveColumn{column("a")}})
	if _, ok := m.SelectedCard(); ok {
		t.Error("empty column should have no selected card")
	}
	if col, ok := m.SelectedColumn(); !ok || col.Column.ID != "a" {
		t.Error("the empty column should stay selected")
	}
}

func TestFocusColumn(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 40)
	m.SetBoard(view.ActiveBoard{Columns: []view.ActiveColumn{
		column("a", card("1")),
		column("b"),
		column("c", card("3")),
	}})
	m.FocusColumn("c")
	if got := selected(t, m); got != "3" {
		t.Errorf("after FocusColumn(c) = %q, want 3", got)
	}
}

func TestGroupHeadingsRenderOncePerRun(t *testing.T) {
	grouped := func(id, group string) view.CardView {
		c := card(id)
		c.Group = group
		return c
	}
	m := New(keys.DefaultKeyMap(), 120, 60)
	m.SetBoard(view.ActiveBoard{Columns: []view.ActiveColumn{
		column("a", grouped("1", "Rustacean"), grouped("2", "Rustacean"), grouped("3", "Gopher")),
	}})

	out := m.View()
	if n := strings.Count(out, "Rustacean"); n != 1 {
		t.Errorf("Rustacean heading rendered %d times, want 1", n)
	}
	if n := strings.Count(out, "Gopher"); n != 1 {
		t.Errorf("Gopher heading rendered %d times, want 1", n)
	}
	if !strings.Contains(out, "card 3") {
		t.Error("grouped card missing from view")
	}
	m = press(m, 'j')
	m = press(m, 'j')
	if got := selected(t, m); got != "3" {
		t.Errorf("headings shifted the cursor: got %q, want 3", got)
	}
}
