package engine

import "github.com/runoshun/crew-talk/internal/domain"

// Menu tracks the single open contextual menu.
// Opening any menu closes whichever menu was open before.
type Menu struct {
	open   domain.MenuRef
	cursor int
}

// Current returns the open menu, or a ref of kind MenuNone.
func (m *Menu) Current() domain.MenuRef {
	return m.open
}

// IsOpen reports whether ref is the open menu.
func (m *Menu) IsOpen(ref domain.MenuRef) bool {
	return m.open.IsOpen() && m.open == ref
}

// Open opens ref, replacing any open menu. Reopening the open menu keeps
// it open and resets the highlight.
func (m *Menu) Open(ref domain.MenuRef) {
	m.open = ref
	m.cursor = 0
}

// Close closes whatever menu is open.
func (m *Menu) Close() {
	m.open = domain.MenuRef{}
	m.cursor = 0
}

// Dismiss handles an outside click or escape. It reports whether a menu
// was open.
func (m *Menu) Dismiss() bool {
	wasOpen := m.open.IsOpen()
	m.Close()
	return wasOpen
}

// Cursor returns the highlighted item index.
func (m *Menu) Cursor() int {
	return m.cursor
}

// Move moves the highlight by delta within n items, clamping at the ends.
func (m *Menu) Move(delta, n int) {
	if n <= 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
}

// ActionItems returns the items of an action menu for the given entry.
// Edit and Delete are offered to owners, Pin to hosts on comments.
func ActionItems(ref domain.MenuRef, owned, canPin bool) []domain.MenuAction {
	var items []domain.MenuAction
	switch ref.Kind {
	case domain.MenuCommentActions:
		items = append(items, domain.ActionReply, domain.ActionLike)
		if owned {
			items = append(items, domain.ActionEdit, domain.ActionDelete)
		}
		if canPin {
			items = append(items, domain.ActionPin)
		}
	case domain.MenuReplyActions:
		items = append(items, domain.ActionLike)
		if owned {
			items = append(items, domain.ActionEdit, domain.ActionDelete)
		}
	case domain.MenuNone, domain.MenuFilter:
	}
	return items
}
