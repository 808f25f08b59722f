package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/crew-talk/internal/domain"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.composer.SetWidth(m.bodyWidth())
		return m, nil

	case MsgTimerFired:
		if msg.timer != nil {
			msg.timer.run()
		}
		return m, m.sched.wait()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.mode == ModeCompose {
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyMsg dispatches key events by mode.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeCompose:
		return m.handleComposeMode(msg)
	case ModeMenu:
		return m.handleMenuMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	case ModeNormal:
	}
	return m.handleNormalMode(msg)
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab(1)

	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab(-1)

	case key.Matches(msg, m.keys.Escape):
		m.err = nil
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.engine.BeginNew()
		return m, m.startCompose()

	case key.Matches(msg, m.keys.Filter):
		return m, m.afterAction(m.engine.OpenMenu(domain.FilterMenu()), domain.Target{}, "filter")
	}

	target, ok := m.Selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Reply):
		return m, m.afterAction(m.engine.BeginReply(target.CommentID), domain.CommentTarget(target.CommentID), "reply to")

	case key.Matches(msg, m.keys.Edit):
		if target.IsReply() {
			return m, m.afterAction(m.engine.BeginEditReply(target.CommentID, target.ReplyID), target, "edit")
		}
		return m, m.afterAction(m.engine.BeginEditComment(target.CommentID), target, "edit")

	case key.Matches(msg, m.keys.Delete):
		if !m.engine.Owns(target) {
			m.report(domain.OutcomeDenied, target, "delete")
			return m, nil
		}
		m.pendingDelete = target
		m.mode = ModeConfirm
		return m, nil

	case key.Matches(msg, m.keys.Like):
		return m, m.afterAction(m.engine.ToggleLike(target), target, "like")

	case key.Matches(msg, m.keys.Pin):
		if target.IsReply() {
			m.err = fmt.Errorf("pin %s: only comments can be pinned: %w", target, domain.ErrInvalidTarget)
			return m, nil
		}
		return m, m.afterAction(m.engine.TogglePin(target.CommentID), target, "pin")

	case key.Matches(msg, m.keys.Actions), key.Matches(msg, m.keys.Enter):
		ref := domain.CommentMenu(target.CommentID)
		if target.IsReply() {
			ref = domain.ReplyMenu(target.CommentID, target.ReplyID)
		}
		return m, m.afterAction(m.engine.OpenMenu(ref), target, "open menu of")
	}

	return m, nil
}

// switchTab cycles the active tab and resets the cursor.
func (m *Model) switchTab(step int) (tea.Model, tea.Cmd) {
	m.engine.CycleTab(step)
	m.cursor = 0
	m.rows = nil
	m.refreshRows()
	return m, m.syncMode()
}

func (m *Model) handleComposeMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.engine.CancelCompose()
		m.err = nil
		return m, m.syncMode()

	case key.Matches(msg, m.keys.Enter):
		return m, m.submit()
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	m.engine.SetBuffer(m.composer.Value())
	return m, cmd
}

// submit sends the composer text to the engine. Empty text keeps the
// composer open; a target that vanished closes it with an error.
func (m *Model) submit() tea.Cmd {
	intent := m.engine.Intent()
	res := m.engine.SubmitCompose(m.composer.Value())
	if !res.Dispatched {
		m.err = fmt.Errorf("%s: %w", intent.Kind, domain.ErrEmptyText)
		return nil
	}

	target := res.Target
	if t, ok := intent.Target(); ok && !res.Outcome.OK() {
		target = t
	}
	cmd := m.afterAction(res.Outcome, target, intent.Kind.String())
	if res.Outcome.OK() {
		m.selectTarget(res.Target)
	}
	return cmd
}

func (m *Model) handleMenuMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.engine.DismissMenu()
		return m, m.syncMode()

	case key.Matches(msg, m.keys.Up):
		m.engine.MoveMenuCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.engine.MoveMenuCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Actions):
		ref := m.engine.Menu()
		target, _ := ref.Target()
		verb := "select"
		if ref.Kind == domain.MenuCommentActions || ref.Kind == domain.MenuReplyActions {
			if items := m.engine.MenuItems(); m.engine.MenuCursor() < len(items) {
				verb = string(items[m.engine.MenuCursor()])
			}
		}
		return m, m.afterAction(m.engine.SelectHighlighted(), target, verb)
	}
	return m, nil
}

func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		target := m.pendingDelete
		m.pendingDelete = domain.Target{}
		m.mode = ModeNormal
		if target.IsReply() {
			return m, m.afterAction(m.engine.DeleteReply(target.CommentID, target.ReplyID), target, "delete")
		}
		return m, m.afterAction(m.engine.DeleteComment(target.CommentID), target, "delete")

	case key.Matches(msg, m.keys.Deny):
		m.pendingDelete = domain.Target{}
		m.mode = ModeNormal
	}
	return m, nil
}

func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape, m.keys.Help, m.keys.Quit) {
		m.mode = ModeNormal
	}
	return m, nil
}
