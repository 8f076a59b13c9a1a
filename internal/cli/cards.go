package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/board"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

const dateLayout = "2006-01-02"

func newCardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "card",
		Aliases: []string{"cards"},
		Short:   "Card commands",
	}
	cmd.AddCommand(newCardListCmd(app))
	cmd.AddCommand(newCardAddCmd(app))
	cmd.AddCommand(newCardEditCmd(app))
	cmd.AddCommand(newCardMoveCmd(app))
	cmd.AddCommand(newCardDeleteCmd(app))
	cmd.AddCommand(newCardArchiveCmd(app))
	cmd.AddCommand(newCardUnarchiveCmd(app))
	return cmd
}

func newCardListCmd(app *App) *cobra.Command {
	var column string
	var archived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards, newest first within each column",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				columnID := ""
				if column != "" {
					col, err := resolveColumn(b, column)
					if err != nil {
						return err
					}
					columnID = col.ID
				}
				if archived {
					return writeOut(cmd, app, archivedCards(b, columnID))
				}
				return writeOut(cmd, app, activeCards(b, columnID))
			})
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Only this column (id or name)")
	cmd.Flags().BoolVar(&archived, "archived", false, "List archived cards instead")
	return cmd
}

func activeCards(b *board.Board, columnID string) cardRows {
	active := view.BuildActive(b.Snapshot().ActiveInput())
	rows := cardRows{}
	for _, col := range active.Columns {
		if columnID != "" && col.Column.ID != columnID {
			continue
		}
		for _, c := range col.Cards {
			rows = append(rows, newCardRow(c, col.Column.Name))
		}
	}
	return rows
}

func archivedCards(b *board.Board, columnID string) cardRows {
	archive := view.BuildArchive(b.Snapshot().ArchiveInput())
	rows := cardRows{}
	for _, col := range archive.Columns {
		if columnID != "" && col.Column.ID != columnID {
			continue
		}
		for _, day := range col.Days {
			for _, cat := range day.Categories {
				for _, c := range cat.Cards {
					rows = append(rows, newCardRow(c, col.Column.Name))
				}
			}
		}
	}
	return rows
}

// cardRowByID renders one card after a change.
func cardRowByID(b *board.Board, id string) (cardRows, error) {
	for _, r := range activeCards(b, "") {
		if r.ID == id {
			return cardRows{r}, nil
		}
	}
	for _, r := range archivedCards(b, "") {
		if r.ID == id {
			return cardRows{r}, nil
		}
	}
	return nil, fmt.Errorf("card not found: %s", id)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

func newCardAddCmd(app *App) *cobra.Command {
	var in board.CardInput
	var column, date string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a card",
		Example: `  learnboard card add --title "Goroutines" --category Go --hours 1 --minutes 30
  learnboard card add --title "Flashcards" --column "In Progress"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date != "" {
				d, err := parseDate(date)
				if err != nil {
					return err
				}
				in.AssignedDate = d
			}
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				if column != "" {
					col, err := resolveColumn(b, column)
					if err != nil {
						return err
					}
					in.ColumnID = col.ID
				}
				card, err := b.AddCard(ctx, in)
				if err != nil {
					return err
				}
				rows, err := cardRowByID(b, card.ID)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, rows)
			})
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Card title")
	cmd.Flags().StringVar(&in.Description, "description", "", "Card description")
	cmd.Flags().StringVar(&in.Category, "category", "", "Category name (unknown names leave the card uncategorized)")
	cmd.Flags().StringVar(&column, "column", "", "Column id or name (default first column)")
	cmd.Flags().IntVar(&in.DurationHours, "hours", 0, "Planned hours")
	cmd.Flags().IntVar(&in.DurationMinutes, "minutes", 0, "Planned minutes")
	cmd.Flags().StringVar(&date, "date", "", "Assigned date, YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newCardEditCmd(app *App) *cobra.Command {
	var title, description, category, column, date string
	var hours, minutes int

	cmd := &cobra.Command{
		Use:   "edit <card-id>",
		Short: "Change a card; only the given flags are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd board.CardUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				upd.Title = &title
			}
			if flags.Changed("description") {
				upd.Description = &description
			}
			if flags.Changed("category") {
				upd.Category = &category
			}
			if flags.Changed("hours") || flags.Changed("minutes") {
				total := board.Minutes(hours, minutes)
				upd.DurationMinutes = &total
			}
			if flags.Changed("date") {
				d, err := parseDate(date)
				if err != nil {
					return err
				}
				upd.AssignedDate = &d
			}

			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				if flags.Changed("column") {
					col, err := resolveColumn(b, column)
					if err != nil {
						return err
					}
					upd.ColumnID = &col.ID
				}
				card, err := b.UpdateCard(ctx, args[0], upd)
				if err != nil {
					return err
				}
				rows, err := cardRowByID(b, card.ID)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, rows)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&category, "category", "", "New category name (empty clears it)")
	cmd.Flags().StringVar(&column, "column", "", "Move to this column (id or name)")
	cmd.Flags().IntVar(&hours, "hours", 0, "Planned hours (replaces the duration together with --minutes)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Planned minutes")
	cmd.Flags().StringVar(&date, "date", "", "Assigned date, YYYY-MM-DD")
	return cmd
}

func newCardMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <card-id> <column>",
		Short: "Move a card; entering or leaving In Progress drives its timer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				col, err := resolveColumn(b, args[1])
				if err != nil {
					return err
				}
				if err := b.MoveCard(ctx, args[0], col.ID); err != nil {
					return err
				}
				rows, err := cardRowByID(b, args[0])
				if err != nil {
					return err
				}
				return writeOut(cmd, app, rows)
			})
		},
	}
}

func newCardDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				return b.DeleteCard(ctx, args[0])
			})
		},
	}
}

func newCardArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <card-id>",
		Short: "Move a card to the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				return b.ArchiveCard(ctx, args[0])
			})
		},
	}
}

func newCardUnarchiveCmd(app *App) *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "unarchive <card-id>",
		Short: "Restore an archived card to the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				columnID := ""
				if column != "" {
					col, err := resolveColumn(b, column)
					if err != nil {
						return err
					}
					columnID = col.ID
				}
				return b.UnarchiveCard(ctx, args[0], columnID)
			})
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Restore into this column (default the column it was archived from)")
	return cmd
}
