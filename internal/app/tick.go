package app

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/board"
)

// TickMsg is the running card's elapsed time, delivered once per board tick.
type TickMsg struct {
	CardID  string
	Elapsed time.Duration
}

// TickRelay forwards board ticks into a running program. The board is
// built before the program exists, so the program is attached later.
type TickRelay struct {
	program atomic.Pointer[tea.Program]
}

// Func is the board.TickFunc to pass to board.WithTickFunc.
func (r *TickRelay) Func() board.TickFunc {
	return func(cardID string, elapsed time.Duration) {
		if p := r.program.Load(); p != nil {
			p.Send(TickMsg{CardID: cardID, Elapsed: elapsed})
		}
	}
}

// Attach starts forwarding ticks to p.
func (r *TickRelay) Attach(p *tea.Program) {
	r.program.Store(p)
}
