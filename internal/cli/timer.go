package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/board"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

func newTimerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Card stopwatch commands",
		Long: "Only one card runs at a time. A timer only counts while a process holds the " +
			"board: these one-shot commands record the running state and the time already " +
			"stored, and the TUI counts from that time while it is open. Time is stored on " +
			"pause and stop.",
	}
	cmd.AddCommand(newTimerStatusCmd(app))
	cmd.AddCommand(newTimerStartCmd(app))
	cmd.AddCommand(newTimerPauseCmd(app))
	cmd.AddCommand(newTimerStopCmd(app))
	return cmd
}

func timerStatus(b *board.Board) timerRow {
	id, elapsed, ok := b.ActiveTimer()
	if !ok {
		return timerRow{}
	}
	row := timerRow{CardID: id, Elapsed: view.FormatClock(elapsed), Running: true}
	if c, found := b.Card(id); found {
		row.Title = c.Title
	}
	return row
}

func newTimerStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				return writeOut(cmd, app, timerStatus(b))
			})
		},
	}
}

func newTimerStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start <card-id>",
		Short: "Mark a card's timer running, stopping any other running timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				if err := b.StartTimer(ctx, args[0]); err != nil {
					return err
				}
				return writeOut(cmd, app, timerStatus(b))
			})
		},
	}
}

func newTimerPauseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the running timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				return b.PauseTimer(ctx)
			})
		},
	}
}

func newTimerStopCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stop [card-id]",
		Short: "Stop a card's timer (default the running one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return withBoard(cmd, app, func(ctx context.Context, b *board.Board) error {
				return b.StopTimer(ctx, id)
			})
		},
	}
}
