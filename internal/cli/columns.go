package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/board"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

// withBoard opens the board for the duration of fn.
func withBoard(cmd *cobra.Command, app *App, fn func(ctx context.Context, b *board.Board) error) error {
	ctx := cmd.Context()
	b, closeFn, err := openBoard(ctx, app)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, b)
}

func newColumnCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "column",
		Aliases: []string{"columns"},
		Short:   "Column commands",
	}
	cmd.AddCommand(newColumnListCmd(app))
	cmd.AddCommand(newColumnAddCmd(app))
	cmd.AddCommand(newColumnRenameCmd(app))
	cmd.AddCommand(newColumnDeleteCmd(app))
	cmd.AddCommand(newColumnMoveCmd(app))
	return cmd
}

func newColumnListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List columns in board order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				return writeOut(cmd, app, columnList(b))
			})
		},
	}
}

func columnList(b *board.Board) columnRows {
	active := view.BuildActive(b.Snapshot().ActiveInput())
	rows := make(columnRows, 0, len(active.Columns))
	for _, c := range active.Columns {
		rows = append(rows, columnRow{
			ID:       c.Column.ID,
			Name:     c.Column.Name,
			Position: c.Column.Position,
			Cards:    c.Summary.Count,
		})
	}
	return rows
}

func newColumnAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Append a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				col, err := b.AddColumn(ctx, args[0])
				if err != nil {
					return err
				}
				return writeOut(cmd, app, columnRows{{ID: col.ID, Name: col.Name, Position: col.Position}})
			})
		},
	}
}

func newColumnRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <column> <name>",
		Short: "Rename a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				col, err := resolveColumn(b, args[0])
				if err != nil {
					return err
				}
				return b.RenameColumn(ctx, col.ID, args[1])
			})
		},
	}
}

func newColumnDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <column>",
		Short: "Delete a column, moving its cards to the first remaining column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				col, err := resolveColumn(b, args[0])
				if err != nil {
					return err
				}
				return b.DeleteColumn(ctx, col.ID)
			})
		},
	}
}

func newColumnMoveCmd(app *App) *cobra.Command {
	var to string
	var by int

	cmd := &cobra.Command{
		Use:   "move <column>",
		Short: "Reorder a column",
		Example: `  learnboard column move Done --to Backlog
  learnboard column move "In Progress" --by -1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (to == "") == (by == 0) {
				return fmt.Errorf("exactly one of --to or --by is required")
			}
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				col, err := resolveColumn(b, args[0])
				if err != nil {
					return err
				}
				if by != 0 {
					return b.ShiftColumn(ctx, col.ID, by)
				}
				target, err := resolveColumn(b, to)
				if err != nil {
					return err
				}
				return b.ReorderColumns(ctx, col.ID, target.ID)
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Move the column into this column's slot")
	cmd.Flags().IntVar(&by, "by", 0, "Move the column this many slots (negative is left)")
	return cmd
}
