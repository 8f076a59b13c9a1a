package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/board"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/report"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/view"
)

// opTimeout bounds a single board operation, including its store calls.
const opTimeout = 15 * time.Second

// loadedMsg is sent after the board was (re)loaded from the store.
type loadedMsg struct{ err error }

// actionResultMsg is sent after a board operation finished. follow, when
// set, is the card the cursor should land on; column is the column to
// focus instead.
type actionResultMsg struct {
	op     string
	follow string
	column string
	info   string
	err    error
}

// noticeExpiredMsg clears the status bar notice with the same sequence.
type noticeExpiredMsg struct{ seq int }

// load hydrates the board.
func (m Model) load() tea.Cmd {
	b := m.board
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return loadedMsg{err: b.LoadAll(ctx)}
	}
}

// run executes fn against the board off the UI goroutine.
func (m Model) run(op, follow string, fn func(ctx context.Context, b *board.Board) error) tea.Cmd {
	b := m.board
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return actionResultMsg{op: op, follow: follow, err: fn(ctx, b)}
	}
}

func (m Model) addCard(in board.CardInput) tea.Cmd {
	b := m.board
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		card, err := b.AddCard(ctx, in)
		return actionResultMsg{op: "add card", follow: card.ID, err: err}
	}
}

func (m Model) updateCard(id string, upd board.CardUpdate) tea.Cmd {
	return m.run("update card", id, func(ctx context.Context, b *board.Board) error {
		_, err := b.UpdateCard(ctx, id, upd)
		return err
	})
}

func (m Model) moveCard(id string, delta int) tea.Cmd {
	return m.run("move card", id, func(ctx context.Context, b *board.Board) error {
		return b.ShiftCard(ctx, id, delta)
	})
}

func (m Model) deleteCard(id string) tea.Cmd {
	return m.run("delete card", "", func(ctx context.Context, b *board.Board) error {
		return b.DeleteCard(ctx, id)
	})
}

func (m Model) archiveCard(id string) tea.Cmd {
	return m.run("archive card", "", func(ctx context.Context, b *board.Board) error {
		return b.ArchiveCard(ctx, id)
	})
}

func (m Model) unarchiveCard(id string) tea.Cmd {
	return m.run("unarchive card", id, func(ctx context.Context, b *board.Board) error {
		return b.UnarchiveCard(ctx, id, "")
	})
}

// toggleTimer starts card's timer, or pauses it when it is the one running.
func (m Model) toggleTimer(id string) tea.Cmd {
	return m.run("timer", id, func(ctx context.Context, b *board.Board) error {
		if running, _, ok := b.ActiveTimer(); ok && running == id {
			return b.PauseTimer(ctx)
		}
		return b.StartTimer(ctx, id)
	})
}

func (m Model) stopTimer(id string) tea.Cmd {
	return m.run("stop timer", id, func(ctx context.Context, b *board.Board) error {
		return b.StopTimer(ctx, id)
	})
}

func (m Model) pauseTimer() tea.Cmd {
	return m.run("pause timer", "", func(ctx context.Context, b *board.Board) error {
		return b.PauseTimer(ctx)
	})
}

func (m Model) addColumn(name string) tea.Cmd {
	b := m.board
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		col, err := b.AddColumn(ctx, name)
		return actionResultMsg{op: "add column", column: col.ID, err: err}
	}
}

func (m Model) renameColumn(id, name string) tea.Cmd {
	return m.run("rename column", "", func(ctx context.Context, b *board.Board) error {
		return b.RenameColumn(ctx, id, name)
	})
}

func (m Model) deleteColumn(id string) tea.Cmd {
	return m.run("delete column", "", func(ctx context.Context, b *board.Board) error {
		return b.DeleteColumn(ctx, id)
	})
}

func (m Model) shiftColumn(id string, delta int) tea.Cmd {
	b := m.board
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return actionResultMsg{op: "reorder columns", column: id, err: b.ShiftColumn(ctx, id, delta)}
	}
}

// exportArchive writes the current archive view to path, picking the
// format from the file extension.
func (m Model) exportArchive(path string) tea.Cmd {
	archive := view.BuildArchive(m.snapshot.ArchiveInput())
	return func() tea.Msg {
		format, err := report.ParseFormat(filepath.Ext(path))
		if err != nil {
			return actionResultMsg{op: "export", err: err}
		}
		f, err := os.Create(path)
		if err != nil {
			return actionResultMsg{op: "export", err: err}
		}
		if err := report.Write(f, archive, format); err != nil {
			f.Close()
			return actionResultMsg{op: "export", err: err}
		}
		if err := f.Close(); err != nil {
			return actionResultMsg{op: "export", err: err}
		}
		return actionResultMsg{op: "export", info: fmt.Sprintf("archive written to %s", path)}
	}
}

// notify shows msg in the status bar until it expires.
func (m *Model) notify(msg string) tea.Cmd {
	m.noticeSeq++
	m.notice = msg
	seq := m.noticeSeq
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}
