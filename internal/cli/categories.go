package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/board"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

func newCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Category commands",
	}
	cmd.AddCommand(newCategoryListCmd(app))
	cmd.AddCommand(newCategoryAddCmd(app))
	cmd.AddCommand(newCategoryEditCmd(app))
	cmd.AddCommand(newCategoryDeleteCmd(app))
	return cmd
}

func categoryList(cats []model.Category) categoryRows {
	rows := make(categoryRows, len(cats))
	for i, c := range cats {
		rows[i] = categoryRow{ID: c.ID, Name: c.Name, Color: c.Color}
	}
	return rows
}

func newCategoryListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				return writeOut(cmd, app, categoryList(b.Categories()))
			})
		},
	}
}

func newCategoryAddCmd(app *App) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				cat, err := b.AddCategory(ctx, args[0], color)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, categoryList([]model.Category{cat}))
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", model.DefaultCategoryColor, "Chip color as #rrggbb")
	return cmd
}

func newCategoryEditCmd(app *App) *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:   "edit <category>",
		Short: "Rename or recolor a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var namePtr, colorPtr *string
			if cmd.Flags().Changed("name") {
				namePtr = &name
			}
			if cmd.Flags().Changed("color") {
				colorPtr = &color
			}
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				cat, err := resolveCategory(b, args[0])
				if err != nil {
					return err
				}
				cat, err = b.UpdateCategory(ctx, cat.ID, namePtr, colorPtr)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, categoryList([]model.Category{cat}))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&color, "color", "", "New color as #rrggbb")
	return cmd
}

func newCategoryDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category>",
		Short: "Delete a category; its cards become uncategorized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				cat, err := resolveCategory(b, args[0])
				if err != nil {
					return err
				}
				return b.DeleteCategory(ctx, cat.ID)
			})
		},
	}
}
