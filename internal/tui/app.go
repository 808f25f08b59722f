package tui

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/crew-talk/internal/app"
	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/engine"
	"github.com/runoshun/crew-talk/internal/usecase"
)

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	discussion *usecase.Discussion
	engine     *engine.Engine
	sched      *loopScheduler
	clock      domain.Clock
	err        error

	// State
	rows []domain.Target // Selectable entries in display order

	// Components
	keys     KeyMap
	styles   Styles
	help     help.Model
	composer textarea.Model

	// Numeric state (smaller types last)
	pendingDelete domain.Target
	mode          Mode
	cursor        int
	width         int
	height        int
	wrapWidth     int
}

// New opens the discussion of the container's project as the container's
// actor. The caller must Close the model when the program exits.
func New(c *app.Container) (*Model, error) {
	return newModel(c, newLoopScheduler())
}

func newModel(c *app.Container, sched *loopScheduler) (*Model, error) {
	cfg := c.AppConfig
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}

	discussion := c.Discussion().WithAcks(sched, cfg.Discussion.AckDelay)
	eng, err := discussion.Open(c.Actor, cfg.Discussion.DefaultTab)
	if err != nil {
		sched.close()
		return nil, fmt.Errorf("open discussion: %w", err)
	}

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Placeholder = eng.Placeholder()

	clock := c.Clock
	if clock == nil {
		clock = domain.RealClock{}
	}

	m := &Model{
		discussion: discussion,
		engine:     eng,
		sched:      sched,
		clock:      clock,
		keys:       DefaultKeyMap(),
		styles:     DefaultStyles(),
		help:       help.New(),
		composer:   ta,
		mode:       ModeNormal,
		wrapWidth:  cfg.TUI.WrapWidth,
	}
	m.refreshRows()
	return m, nil
}

// Init starts listening for scheduled callbacks.
func (m *Model) Init() tea.Cmd {
	return m.sched.wait()
}

// Close cancels pending acknowledgements and stops the scheduler.
func (m *Model) Close() {
	m.engine.Close()
	m.sched.close()
}

// Engine returns the discussion engine driven by the model.
func (m *Model) Engine() *engine.Engine {
	return m.engine
}

// Selected returns the entry under the cursor.
func (m *Model) Selected() (domain.Target, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return domain.Target{}, false
	}
	return m.rows[m.cursor], true
}

// refreshRows rebuilds the selectable entries from the visible thread,
// keeping the cursor on the same entry when it survives.
func (m *Model) refreshRows() {
	current, hadCurrent := m.Selected()

	rows := m.rows[:0]
	for _, c := range m.engine.Visible() {
		rows = append(rows, domain.CommentTarget(c.ID))
		for _, r := range c.Replies {
			rows = append(rows, domain.ReplyTarget(c.ID, r.ID))
		}
	}
	m.rows = rows

	if hadCurrent {
		if idx := slices.Index(m.rows, current); idx >= 0 {
			m.cursor = idx
			return
		}
	}
	m.clampCursor()
}

// selectTarget moves the cursor onto target if it is visible.
func (m *Model) selectTarget(target domain.Target) {
	if idx := slices.Index(m.rows, target); idx >= 0 {
		m.cursor = idx
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// commit persists the collection when the last operation changed it.
func (m *Model) commit() {
	if err := m.discussion.Commit(m.engine); err != nil {
		m.err = err
	}
}

// report records a rejected outcome as the visible error.
func (m *Model) report(outcome domain.Outcome, target domain.Target, verb string) {
	if err := outcome.Err(target); err != nil {
		m.err = fmt.Errorf("%s %s: %w", verb, target, err)
		return
	}
	m.err = nil
}

// afterAction persists changes, rebuilds the thread and follows the
// engine into the composer or menu when the action opened one.
func (m *Model) afterAction(outcome domain.Outcome, target domain.Target, verb string) tea.Cmd {
	m.report(outcome, target, verb)
	m.commit()
	m.refreshRows()
	return m.syncMode()
}

// syncMode derives the UI mode from the engine's menu and composer state.
func (m *Model) syncMode() tea.Cmd {
	switch {
	case m.engine.Menu().IsOpen():
		m.mode = ModeMenu
	case !m.engine.Intent().IsIdle():
		if m.mode != ModeCompose {
			return m.startCompose()
		}
	default:
		if m.mode == ModeMenu || m.mode == ModeCompose {
			m.stopCompose()
			m.mode = ModeNormal
		}
	}
	return nil
}

// startCompose focuses the composer with the engine's buffer.
func (m *Model) startCompose() tea.Cmd {
	m.composer.Reset()
	m.composer.SetValue(m.engine.Buffer())
	m.composer.Placeholder = m.engine.Placeholder()
	m.mode = ModeCompose
	return m.composer.Focus()
}

func (m *Model) stopCompose() {
	m.composer.Reset()
	m.composer.Blur()
	m.composer.Placeholder = m.engine.Placeholder()
}

// bodyWidth returns the wrap width of comment bodies.
func (m *Model) bodyWidth() int {
	width := m.width - 12 // App padding, cursor and reply indent
	if m.wrapWidth > 0 && (width <= 0 || m.wrapWidth < width) {
		width = m.wrapWidth
	}
	if width < 20 {
		width = 20
	}
	return width
}
