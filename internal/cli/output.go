package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/board"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

var timeNow = time.Now

// table is output that also has a plain text rendering.
type table interface {
	header() []string
	rows() [][]string
}

type columnRow struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Position int    `json:"position" yaml:"position"`
	Cards    int    `json:"cards" yaml:"cards"`
}

type columnRows []columnRow

func (columnRows) header() []string { return []string{"ID", "NAME", "POS", "CARDS"} }

func (r columnRows) rows() [][]string {
	out := make([][]string, len(r))
	for i, c := range r {
		out[i] = []string{c.ID, c.Name, fmt.Sprint(c.Position), fmt.Sprint(c.Cards)}
	}
	return out
}

type categoryRow struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

type categoryRows []categoryRow

func (categoryRows) header() []string { return []string{"ID", "NAME", "COLOR"} }

func (r categoryRows) rows() [][]string {
	out := make([][]string, len(r))
	for i, c := range r {
		out[i] = []string{c.ID, c.Name, c.Color}
	}
	return out
}

type cardRow struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Column   string `json:"column" yaml:"column"`
	Category string `json:"category" yaml:"category"`
	Planned  string `json:"planned" yaml:"planned"`
	Spent    string `json:"spent" yaml:"spent"`
	Timer    string `json:"timer" yaml:"timer"`
	Assigned string `json:"assigned" yaml:"assigned"`
	Archived bool   `json:"archived" yaml:"archived"`
}

type cardRows []cardRow

func (cardRows) header() []string {
	return []string{"ID", "TITLE", "COLUMN", "CATEGORY", "PLANNED", "SPENT", "TIMER", "ASSIGNED"}
}

func (r cardRows) rows() [][]string {
	out := make([][]string, len(r))
	for i, c := range r {
		out[i] = []string{c.ID, c.Title, c.Column, c.Category, c.Planned, c.Spent, c.Timer, c.Assigned}
	}
	return out
}

type userRow struct {
	ID    string `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
}

func (userRow) header() []string { return []string{"ID", "EMAIL"} }

func (r userRow) rows() [][]string { return [][]string{{r.ID, r.Email}} }

type timerRow struct {
	CardID  string `json:"card_id" yaml:"card_id"`
	Title   string `json:"title" yaml:"title"`
	Elapsed string `json:"elapsed" yaml:"elapsed"`
	Running bool   `json:"running" yaml:"running"`
}

func (timerRow) header() []string { return []string{"CARD", "TITLE", "ELAPSED"} }

func (r timerRow) rows() [][]string {
	if !r.Running {
		return nil
	}
	return [][]string{{r.CardID, r.Title, r.Elapsed}}
}

// newCardRow flattens a derived card view for output.
func newCardRow(c view.CardView, column string) cardRow {
	cat := c.CategoryName
	if c.Uncategorized {
		cat = model.UncategorizedName
	}
	timer := string(c.Badge)
	if c.Badge == view.BadgeNone {
		timer = "-"
	}
	return cardRow{
		ID:       c.Card.ID,
		Title:    c.Card.Title,
		Column:   column,
		Category: cat,
		Planned:  view.FormatMinutes(c.Card.DurationMinutes),
		Spent:    c.Clock,
		Timer:    timer,
		Assigned: c.Card.AssignedDate.Local().Format("2006-01-02"),
		Archived: c.Card.Archived,
	}
}

func writeOut(cmd *cobra.Command, a *App, v any) error {
	return writeFormat(cmd.OutOrStdout(), a.Format, v)
}

func writeFormat(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "", "text":
		if t, ok := v.(table); ok {
			return writeTable(w, t)
		}
		_, err := fmt.Fprintln(w, v)
		return err
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

var cellStyle = lipgloss.NewStyle().PaddingRight(2)

// writeTable renders t as borderless, left-aligned columns.
func writeTable(w io.Writer, t table) error {
	header := t.header()
	tbl := ltable.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == len(header)-1 {
				return lipgloss.NewStyle()
			}
			return cellStyle
		}).
		Headers(header...).
		Rows(t.rows()...)
	_, err := fmt.Fprintln(w, tbl.String())
	return err
}

// resolveColumn finds a column by id, or by name case-insensitively.
func resolveColumn(b *board.Board, ref string) (model.Column, error) {
	ref = strings.TrimSpace(ref)
	for _, c := range b.Columns() {
		if c.ID == ref {
			return c, nil
		}
	}
	for _, c := range b.Columns() {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return model.Column{}, fmt.Errorf("column not found: %s", ref)
}

// resolveCategory finds a category by id, or by name case-insensitively.
func resolveCategory(b *board.Board, ref string) (model.Category, error) {
	ref = strings.TrimSpace(ref)
	for _, c := range b.Categories() {
		if c.ID == ref || strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return model.Category{}, fmt.Errorf("category not found: %s", ref)
}
