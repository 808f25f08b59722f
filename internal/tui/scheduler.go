package tui

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/crew-talk/internal/domain"
)

// loopScheduler turns timer expiry into MsgTimerFired so callbacks run on
// the bubbletea update loop instead of the timer goroutine.
type loopScheduler struct {
	fired chan *loopTimer
	done  chan struct{}
	once  sync.Once
}

var _ domain.Scheduler = (*loopScheduler)(nil)

func newLoopScheduler() *loopScheduler {
	return &loopScheduler{
		fired: make(chan *loopTimer, 16),
		done:  make(chan struct{}),
	}
}

// AfterFunc queues f for the update loop after d.
func (s *loopScheduler) AfterFunc(d time.Duration, f func()) domain.Timer {
	t := &loopTimer{fn: f}
	t.timer = time.AfterFunc(d, func() {
		select {
		case s.fired <- t:
		case <-s.done:
		}
	})
	return t
}

// wait returns a command that delivers the next due timer.
// It yields nil once the scheduler is closed.
func (s *loopScheduler) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case t := <-s.fired:
			return MsgTimerFired{timer: t}
		case <-s.done:
			return nil
		}
	}
}

func (s *loopScheduler) close() {
	s.once.Do(func() { close(s.done) })
}

// loopTimer is a timer whose callback is run by the update loop.
type loopTimer struct {
	timer   *time.Timer
	fn      func()
	stopped atomic.Bool
}

// Stop cancels the callback, including one already queued for the loop.
func (t *loopTimer) Stop() bool {
	wasStopped := t.stopped.Swap(true)
	return t.timer.Stop() && !wasStopped
}

func (t *loopTimer) run() {
	if t.stopped.Swap(true) {
		return
	}
	t.fn()
}
