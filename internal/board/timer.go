package board

import (
	"context"
	"time"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/model"
)

// activeTimer is the single running stopwatch. Its fields are fixed at
// start, so the tick goroutine may read them without the board lock.
type activeTimer struct {
	cardID    string
	startedAt time.Time
	baseline  time.Duration
	cancel    context.CancelFunc
	done      chan struct{}
}

func (t *activeTimer) elapsed(now time.Time) time.Duration {
	d := t.baseline + now.Sub(t.startedAt)
	if d < t.baseline {
		return t.baseline
	}
	return d
}

// halt cancels the tick goroutine. It does not wait for the goroutine to
// exit: a tick callback may itself be waiting on the board lock.
func (t *activeTimer) halt() {
	t.cancel()
}

// runTicker starts the display tick for t. It never writes to the store.
func (b *Board) runTicker(t *activeTimer) {
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})

	onTick, every, now := b.onTick, b.tickEvery, b.now
	go func() {
		defer close(t.done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				if onTick != nil {
					onTick(t.cardID, t.elapsed(now()))
				}
			}
		}
	}()
}

// ActiveTimer returns the running card id and its elapsed time.
func (b *Board) ActiveTimer() (cardID string, elapsed time.Duration, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer == nil {
		return "", 0, false
	}
	return b.timer.cardID, b.timer.elapsed(b.now()), true
}

// StartTimer starts cardID's stopwatch from its persisted time. A timer
// running on another card is stopped first. Starting the running card is
// a no-op.
func (b *Board) StartTimer(ctx context.Context, cardID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.startLocked(ctx, cardID, nil)
}

// PauseTimer freezes the running timer and persists its time. It is a
// no-op when nothing is running.
func (b *Board) PauseTimer(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.haltLocked(ctx, model.TimerPaused, nil)
}

// StopTimer stops cardID's timer. An empty cardID means the running timer.
// A paused card is marked stopped with its time unchanged; any other card
// is left alone.
func (b *Board) StopTimer(ctx context.Context, cardID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cardID == "" || (b.timer != nil && b.timer.cardID == cardID) {
		return b.haltLocked(ctx, model.TimerStopped, nil)
	}

	i := b.cardIndex(cardID)
	if i < 0 {
		return notFound("card", cardID)
	}
	if b.cards[i].TimerState != model.TimerPaused {
		return nil
	}
	stopped := model.TimerStopped
	updated, err := b.store.UpdateCard(ctx, cardID, model.CardPatch{TimerState: &stopped})
	if err != nil {
		return b.fail("stop timer", err, "card", cardID)
	}
	b.cards[i] = updated
	return nil
}

// startLocked persists the running state for cardID, together with any
// extra fields in patch, and installs the active timer.
func (b *Board) startLocked(ctx context.Context, cardID string, patch *model.CardPatch) error {
	i := b.cardIndex(cardID)
	if i < 0 {
		return notFound("card", cardID)
	}

	if b.timer != nil && b.timer.cardID == cardID {
		if patch == nil {
			return nil
		}
		updated, err := b.store.UpdateCard(ctx, cardID, *patch)
		if err != nil {
			return b.fail("update running card", err, "card", cardID)
		}
		b.cards[i] = updated
		return nil
	}

	if b.timer != nil {
		preempted := b.timer.cardID
		if err := b.haltLocked(ctx, model.TimerStopped, nil); err != nil {
			return err
		}
		b.log.Info("timer preempted", "card", preempted, "by", cardID)
	}

	p := model.CardPatch{}
	if patch != nil {
		p = *patch
	}
	running := model.TimerRunning
	p.TimerState = &running

	updated, err := b.store.UpdateCard(ctx, cardID, p)
	if err != nil {
		return b.fail("start timer", err, "card", cardID)
	}
	b.cards[i] = updated
	b.installTimer(updated)
	return nil
}

func (b *Board) installTimer(card model.Card) {
	t := &activeTimer{
		cardID:    card.ID,
		startedAt: b.now(),
		baseline:  time.Duration(card.TimeSpentMs) * time.Millisecond,
	}
	b.runTicker(t)
	b.timer = t
	b.log.Debug("timer started", "card", card.ID, "baseline", t.baseline)
}

// haltLocked moves the active timer to state (paused or stopped), writing
// the accumulated time along with any extra fields in patch. The timer is
// only cleared once the store accepted the write.
func (b *Board) haltLocked(ctx context.Context, state model.TimerState, patch *model.CardPatch) error {
	if b.timer == nil {
		return nil
	}
	t := b.timer
	spent := t.elapsed(b.now()).Milliseconds()

	p := model.CardPatch{}
	if patch != nil {
		p = *patch
	}
	p.TimerState = &state
	p.TimeSpentMs = &spent

	updated, err := b.store.UpdateCard(ctx, t.cardID, p)
	if err != nil {
		return b.fail("persist timer", err, "card", t.cardID, "state", string(state))
	}

	t.halt()
	b.timer = nil
	if i := b.cardIndex(t.cardID); i >= 0 {
		b.cards[i] = updated
	}
	b.log.Debug("timer halted", "card", t.cardID, "state", string(state), "spent_ms", spent)
	return nil
}

// resumeLocked reconciles the active timer with freshly loaded cards. The
// first running card resumes from its persisted time; any further running
// cards are demoted to paused.
func (b *Board) resumeLocked(ctx context.Context) {
	if b.timer != nil {
		i := b.cardIndex(b.timer.cardID)
		if i < 0 || b.cards[i].TimerState != model.TimerRunning {
			b.timer.halt()
			b.timer = nil
		}
	}

	for i := range b.cards {
		c := b.cards[i]
		if c.TimerState != model.TimerRunning {
			continue
		}
		if b.timer == nil {
			b.installTimer(c)
			b.log.Info("resumed running timer", "card", c.ID, "spent_ms", c.TimeSpentMs)
			continue
		}
		if b.timer.cardID == c.ID {
			continue
		}
		paused := model.TimerPaused
		updated, err := b.store.UpdateCard(ctx, c.ID, model.CardPatch{TimerState: &paused})
		if err != nil {
			b.log.Warn("could not demote extra running timer", "card", c.ID, "error", err)
			b.cards[i].TimerState = model.TimerPaused
			continue
		}
		b.cards[i] = updated
	}

	// Archived cards never keep a running timer.
	for i := range b.archived {
		if b.archived[i].TimerState == model.TimerRunning {
			b.archived[i].TimerState = model.TimerPaused
		}
	}
}
