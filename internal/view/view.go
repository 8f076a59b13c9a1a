// Package view derives render-ready board structures from raw board state.
// Every function here is pure: the same Input always yields the same output.
package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

// TimerStatus describes the card whose stopwatch is running.
type TimerStatus struct {
	CardID  string
	Elapsed time.Duration
}

// Input is the raw state the engine works from.
type Input struct {
	Columns        []model.Column
	Cards          []model.Card
	Categories     []model.Category
	Filters        map[string][]string
	DisplayMode    model.SectionDisplayMode
	ColumnSettings map[string]model.ColumnSettings
	Timer          *TimerStatus

	// Now anchors "Today"/"Yesterday" and the calendar used for day buckets.
	// Callers set it; the zero time buckets in UTC and labels every day by
	// its date.
	Now time.Time
}

// Badge is the timer marker shown on a card.
type Badge string

const (
	BadgeNone    Badge = ""
	BadgeRunning Badge = "running"
	BadgePaused  Badge = "paused"
	BadgeStopped Badge = "stopped"
)

// CardView is a card plus everything needed to draw it.
type CardView struct {
	Card          model.Card
	CategoryName  string
	CategoryColor string
	TextColor     string
	Uncategorized bool

	// Duration is the planned effort, empty when the column hides it.
	Duration string

	// Clock is the time spent as HH:MM:SS, live for the running card.
	Clock string
	Badge Badge

	// Group is the heading the card sits under on the active board: the
	// category name or the creation day, per the column's display mode.
	Group string
}

// Summary counts a group of cards.
type Summary struct {
	Count        int
	TotalMinutes int
	Header       string
}

// ActiveColumn is one column of the active board.
type ActiveColumn struct {
	Column   model.Column
	Settings model.ColumnSettings
	Filtered bool
	Summary  Summary
	Cards    []CardView
}

// ActiveBoard is the active board, columns in display order.
type ActiveBoard struct {
	Columns []ActiveColumn
}

// CategoryGroup is the cards of one category within a day.
type CategoryGroup struct {
	CategoryID    string
	Name          string
	Color         string
	Uncategorized bool
	Summary       Summary
	Cards         []CardView
}

// DayGroup is the cards created on one calendar day.
type DayGroup struct {
	Key        string
	Label      string
	Summary    Summary
	Categories []CategoryGroup
}

// ArchiveColumn is one column of the archive view.
type ArchiveColumn struct {
	Column   model.Column
	Filtered bool
	Summary  Summary
	Days     []DayGroup
}

// ArchiveBoard is the archive view, columns in display order.
type ArchiveBoard struct {
	Columns []ArchiveColumn
}

// SectionHeader formats an archive section summary per the display mode.
func SectionHeader(count, totalMinutes int, mode model.SectionDisplayMode) string {
	if mode == model.DisplayCardsAndDuration {
		return fmt.Sprintf("%d cards • %s", count, FormatMinutes(totalMinutes))
	}
	return fmt.Sprintf("%d cards", count)
}

// BuildActive derives the active board: columns by position, each holding
// its filtered cards newest first, annotated with timer badges. A column in
// category mode clusters its cards by category name, Uncategorized last.
func BuildActive(in Input) ActiveBoard {
	cats := categoryIndex(in.Categories)
	byColumn := cardsByColumn(in.Cards)

	var board ActiveBoard
	for _, col := range sortedColumns(in.Columns) {
		settings := columnSettings(in, col)
		cards, filtered := selectCards(byColumn[col.ID], in.Filters[col.ID], cats)
		sortNewestFirst(cards)
		if settings.DisplayMode == model.ColumnByCategory {
			sortByCategory(cards, cats)
		}

		ac := ActiveColumn{Column: col, Settings: settings, Filtered: filtered}
		total := 0
		for _, c := range cards {
			total += c.DurationMinutes
			cv := cardView(c, cats, in.Timer, settings.ShowCardDuration)
			if settings.DisplayMode == model.ColumnByDate {
				cv.Group = DayLabel(c.CreatedAt, in.Now)
			} else {
				cv.Group = cv.CategoryName
			}
			ac.Cards = append(ac.Cards, cv)
		}
		ac.Summary = Summary{Count: len(cards), TotalMinutes: total}
		if settings.CountDisplay == model.CountDuration {
			ac.Summary.Header = FormatMinutes(total)
		} else {
			ac.Summary.Header = fmt.Sprintf("%d cards", len(cards))
		}
		board.Columns = append(board.Columns, ac)
	}
	return board
}

// BuildArchive derives the archive view: per column, day groups newest
// first, category groups by name with Uncategorized last, cards newest first.
func BuildArchive(in Input) ArchiveBoard {
	cats := categoryIndex(in.Categories)
	byColumn := cardsByColumn(in.Cards)
	now := in.Now
	loc := now.Location()

	var board ArchiveBoard
	for _, col := range sortedColumns(in.Columns) {
		cards, filtered := selectCards(byColumn[col.ID], in.Filters[col.ID], cats)
		ac := ArchiveColumn{Column: col, Filtered: filtered}

		days := map[string][]model.Card{}
		for _, c := range cards {
			key := DayKey(c.CreatedAt, loc)
			days[key] = append(days[key], c)
		}

		keys := make([]string, 0, len(days))
		for k := range days {
			keys = append(keys, k)
		}
		// YYYY-MM-DD sorts chronologically as a string.
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))

		colTotal := 0
		for _, key := range keys {
			day := buildDay(key, days[key], cats, in, now)
			colTotal += day.Summary.TotalMinutes
			ac.Days = append(ac.Days, day)
		}
		ac.Summary = Summary{
			Count:        len(cards),
			TotalMinutes: colTotal,
			Header:       SectionHeader(len(cards), colTotal, in.DisplayMode),
		}
		board.Columns = append(board.Columns, ac)
	}
	return board
}

func buildDay(key string, cards []model.Card, cats map[string]model.Category, in Input, now time.Time) DayGroup {
	groups := map[string]*CategoryGroup{}
	for _, c := range cards {
		gid := ""
		if cat, ok := resolve(c, cats); ok {
			gid = cat.ID
		}
		g, ok := groups[gid]
		if !ok {
			g = &CategoryGroup{CategoryID: gid, Uncategorized: gid == ""}
			if gid == "" {
				g.Name, g.Color = model.UncategorizedName, model.UncategorizedColor
			} else {
				g.Name, g.Color = cats[gid].Name, cats[gid].Color
			}
			groups[gid] = g
		}
		g.Cards = append(g.Cards, cardView(c, cats, in.Timer, true))
		g.Summary.Count++
		g.Summary.TotalMinutes += c.DurationMinutes
	}

	ordered := make([]CategoryGroup, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g.Cards, func(i, j int) bool {
			return newer(g.Cards[i].Card, g.Cards[j].Card)
		})
		g.Summary.Header = SectionHeader(g.Summary.Count, g.Summary.TotalMinutes, in.DisplayMode)
		ordered = append(ordered, *g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Uncategorized != b.Uncategorized {
			return b.Uncategorized
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.CategoryID < b.CategoryID
	})

	day := DayGroup{Key: key, Categories: ordered}
	for _, g := range ordered {
		day.Summary.Count += g.Summary.Count
		day.Summary.TotalMinutes += g.Summary.TotalMinutes
	}
	day.Summary.Header = SectionHeader(day.Summary.Count, day.Summary.TotalMinutes, in.DisplayMode)
	if len(cards) > 0 {
		day.Label = DayLabel(cards[0].CreatedAt, now)
	}
	return day
}

func sortedColumns(cols []model.Column) []model.Column {
	out := append([]model.Column(nil), cols...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func cardsByColumn(cards []model.Card) map[string][]model.Card {
	out := make(map[string][]model.Card)
	for _, c := range cards {
		out[c.ColumnID] = append(out[c.ColumnID], c)
	}
	return out
}

func categoryIndex(cats []model.Category) map[string]model.Category {
	out := make(map[string]model.Category, len(cats))
	for _, c := range cats {
		out[c.ID] = c
	}
	return out
}

func resolve(c model.Card, cats map[string]model.Category) (model.Category, bool) {
	if !c.HasCategory() {
		return model.Category{}, false
	}
	cat, ok := cats[*c.CategoryID]
	return cat, ok
}

// selectCards applies a column filter. An empty filter keeps everything.
// Cards whose category does not resolve never match a non-empty filter.
func selectCards(cards []model.Card, filter []string, cats map[string]model.Category) ([]model.Card, bool) {
	out := append([]model.Card(nil), cards...)
	if len(filter) == 0 {
		return out, false
	}
	allowed := make(map[string]bool, len(filter))
	for _, id := range filter {
		allowed[id] = true
	}
	kept := out[:0]
	for _, c := range out {
		if cat, ok := resolve(c, cats); ok && allowed[cat.ID] {
			kept = append(kept, c)
		}
	}
	return kept, true
}

func newer(a, b model.Card) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

func sortNewestFirst(cards []model.Card) {
	sort.SliceStable(cards, func(i, j int) bool { return newer(cards[i], cards[j]) })
}

// sortByCategory orders cards by category name, Uncategorized last, keeping
// the existing order within a category.
func sortByCategory(cards []model.Card, cats map[string]model.Category) {
	key := func(c model.Card) (bool, string, string) {
		cat, ok := resolve(c, cats)
		if !ok {
			return true, "", ""
		}
		return false, strings.ToLower(cat.Name), cat.ID
	}
	sort.SliceStable(cards, func(i, j int) bool {
		iu, iname, iid := key(cards[i])
		ju, jname, jid := key(cards[j])
		if iu != ju {
			return ju
		}
		if iname != jname {
			return iname < jname
		}
		return iid < jid
	})
}

func columnSettings(in Input, col model.Column) model.ColumnSettings {
	if s, ok := in.ColumnSettings[col.ID]; ok {
		return s.Normalize()
	}
	return model.DefaultColumnSettings(col.UserID, col.ID)
}

func cardView(c model.Card, cats map[string]model.Category, timer *TimerStatus, showDuration bool) CardView {
	v := CardView{Card: c}
	if cat, ok := resolve(c, cats); ok {
		v.CategoryName, v.CategoryColor = cat.Name, cat.Color
	} else {
		v.CategoryName, v.CategoryColor, v.Uncategorized = model.UncategorizedName, model.UncategorizedColor, true
	}
	v.TextColor = ContrastColor(v.CategoryColor)
	if showDuration {
		v.Duration = FormatMinutes(c.DurationMinutes)
	}

	spent := time.Duration(c.TimeSpentMs) * time.Millisecond
	switch {
	case timer != nil && timer.CardID == c.ID:
		v.Badge = BadgeRunning
		spent = timer.Elapsed
	case c.TimerState == model.TimerRunning:
		v.Badge = BadgeRunning
	case c.TimerState == model.TimerPaused:
		v.Badge = BadgePaused
	case c.TimerState == model.TimerStopped:
		v.Badge = BadgeStopped
	}
	v.Clock = FormatClock(spent)
	return v
}
