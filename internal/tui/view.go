package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/runoshun/crew-talk/internal/domain"
)

// maxHandleWidth caps the author column.
const maxHandleWidth = 20

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.mode == ModeHelp {
		return m.styles.App.Render(m.viewHelp())
	}
	return m.styles.App.Render(m.viewMain())
}

// viewMain renders the tab bar, thread, overlays and composer.
func (m *Model) viewMain() string {
	top := []string{m.viewHeader(), m.viewTabBar(), m.viewFilterLine()}
	if acks := m.viewAcks(); acks != "" {
		top = append(top, acks)
	}
	if m.err != nil {
		top = append(top, m.styles.ErrorMsg.Render("Error: "+m.err.Error()))
	}

	var bottom []string
	switch m.mode {
	case ModeMenu:
		bottom = append(bottom, m.viewMenu())
	case ModeConfirm:
		bottom = append(bottom, m.viewConfirmDialog())
	case ModeNormal, ModeCompose, ModeHelp:
	}
	bottom = append(bottom, m.viewComposer(), m.viewFooter())

	head := strings.Join(top, "\n")
	tail := strings.Join(bottom, "\n")

	// Rows left for the thread inside the app padding
	available := 0
	if m.height > 0 {
		available = m.height - 2 - lipgloss.Height(head) - lipgloss.Height(tail) - 2
		if available < 3 {
			available = 3
		}
	}

	return head + "\n\n" + m.viewThread(available) + "\n\n" + tail
}

// viewHeader renders the title line with the acting identity.
func (m *Model) viewHeader() string {
	actor := m.engine.Actor()
	who := actor.Handle()
	if who == "" {
		who = domain.SelfAuthorID
	}
	if m.engine.CanPin() {
		who += " · host"
	}
	return m.styles.Header.Render("crew-talk") + "  " + m.styles.HeaderText.Render("as "+who)
}

// viewTabBar renders one label per tab with its comment count.
func (m *Model) viewTabBar() string {
	active := m.engine.ActiveTab()
	labels := make([]string, 0, len(m.engine.Tabs()))
	for _, st := range m.engine.TabStats() {
		label := st.Tab.Display() + " " + m.styles.TabCount.Render(humanize.Comma(int64(st.Comments)))
		if st.Tab == active {
			labels = append(labels, m.styles.TabActive.Render(label))
		} else {
			labels = append(labels, m.styles.TabInactive.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, labels...)
	if limit := m.width - 4; limit > 0 && lipgloss.Width(bar) > limit {
		bar = truncate.StringWithTail(bar, uint(limit), "…")
	}
	return bar
}

// viewFilterLine shows the active filter.
func (m *Model) viewFilterLine() string {
	return m.styles.Meta.Render("Filter: " + m.engine.Filter().Display())
}

// viewAcks renders live acknowledgement banners, oldest first.
func (m *Model) viewAcks() string {
	acks := m.engine.Acks().Active()
	if len(acks) == 0 {
		return ""
	}
	lines := make([]string, 0, len(acks))
	for _, a := range acks {
		lines = append(lines, m.styles.Ack.Render("✓ "+a.Message()))
	}
	return strings.Join(lines, "\n")
}

// viewThread renders the visible thread, scrolled so the selected entry
// fits within height lines. A non-positive height disables scrolling.
func (m *Model) viewThread(height int) string {
	comments := m.engine.Visible()
	if len(comments) == 0 {
		hint := "No comments yet. Press n to start the discussion."
		if m.engine.Filter() != domain.FilterAll {
			hint = "No comments match the filter. Press f to change it."
		}
		return m.styles.Empty.Render(hint)
	}

	handleWidth := 0
	for i := range comments {
		handleWidth = max(handleWidth, runewidth.StringWidth(comments[i].AuthorHandle))
		for j := range comments[i].Replies {
			handleWidth = max(handleWidth, runewidth.StringWidth(comments[i].Replies[j].AuthorHandle))
		}
	}
	handleWidth = min(handleWidth, maxHandleWidth)

	selected, _ := m.Selected()
	now := m.clock.Now()

	var lines []string
	selStart, selEnd := 0, 0
	for i := range comments {
		c := &comments[i]
		target := domain.CommentTarget(c.ID)
		block := m.renderEntry(entryView{
			handle:   c.AuthorHandle,
			text:     c.Text,
			badges:   m.commentBadges(c),
			created:  createdLabel(c.Created, c.CreatedLabel, now),
			likes:    c.LikeCount,
			liked:    c.LikedBySelf,
			replies:  len(c.Replies),
			selected: target == selected,
		}, handleWidth, 0)
		if target == selected {
			selStart, selEnd = len(lines), len(lines)+len(block)
		}
		lines = append(lines, block...)

		for j := range c.Replies {
			r := &c.Replies[j]
			rt := domain.ReplyTarget(c.ID, r.ID)
			block := m.renderEntry(entryView{
				handle:   r.AuthorHandle,
				text:     r.Text,
				badges:   m.replyBadges(r),
				created:  createdLabel(r.Created, r.CreatedLabel, now),
				likes:    r.LikeCount,
				liked:    r.LikedBySelf,
				replies:  -1,
				selected: rt == selected,
			}, handleWidth, 4)
			if rt == selected {
				selStart, selEnd = len(lines), len(lines)+len(block)
			}
			lines = append(lines, block...)
		}
	}

	return strings.Join(scrollWindow(lines, selStart, selEnd, height), "\n")
}

// entryView is the display data of one comment or reply.
// Fields are ordered to minimize memory padding.
type entryView struct {
	handle   string
	text     string
	created  string
	badges   []string
	likes    int
	replies  int // -1 for replies
	liked    bool
	selected bool
}

// renderEntry renders a meta line followed by the wrapped body.
func (m *Model) renderEntry(e entryView, handleWidth, indent int) []string {
	cursor := m.styles.CursorNormal.Render("  ")
	author, meta, body := m.styles.Author, m.styles.Meta, m.styles.Body
	if e.selected {
		cursor = m.styles.CursorSelected.Render("› ")
		author, meta, body = m.styles.AuthorSelected, m.styles.MetaSelected, m.styles.BodySelected
	}
	pad := strings.Repeat(" ", indent)
	if indent > 0 {
		pad = strings.Repeat(" ", indent-2) + "↳ "
	}

	handle := e.handle
	if handleWidth > 0 {
		handle = runewidth.FillRight(runewidth.Truncate(handle, handleWidth, "…"), handleWidth)
	}

	parts := []string{author.Render(handle)}
	parts = append(parts, e.badges...)
	if e.liked {
		parts = append(parts, m.styles.BadgeLiked.Render("♥ "+humanize.Comma(int64(e.likes))))
	} else {
		parts = append(parts, meta.Render("♡ "+humanize.Comma(int64(e.likes))))
	}
	if e.replies > 0 {
		parts = append(parts, meta.Render(pluralize(e.replies, "reply", "replies")))
	}
	if e.created != "" {
		parts = append(parts, meta.Render(e.created))
	}

	lines := []string{cursor + pad + strings.Join(parts, meta.Render(" · "))}
	bodyPad := strings.Repeat(" ", indent+4)
	for _, line := range strings.Split(wordwrap.String(e.text, m.bodyWidth()-indent), "\n") {
		lines = append(lines, bodyPad+body.Render(line))
	}
	return lines
}

func (m *Model) commentBadges(c *domain.Comment) []string {
	var badges []string
	if c.Pinned {
		badges = append(badges, m.styles.BadgePinned.Render("pinned"))
	}
	if c.Verified {
		badges = append(badges, m.styles.BadgeVerified.Render("✓ verified"))
	}
	if c.HasDonation() {
		badges = append(badges, m.styles.BadgeDonation.Render("$"+humanize.FormatFloat("#,###.##", *c.Donation)))
	}
	return badges
}

func (m *Model) replyBadges(r *domain.Reply) []string {
	if r.Verified {
		return []string{m.styles.BadgeVerified.Render("✓ verified")}
	}
	return nil
}

// scrollWindow returns at most height lines of lines, keeping the
// selected range [start, end) visible.
func scrollWindow(lines []string, start, end, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	offset := 0
	if end > height {
		offset = end - height
	}
	if start < offset {
		offset = start
	}
	return lines[offset:min(offset+height, len(lines))]
}

// viewMenu renders the open menu as a bordered overlay.
func (m *Model) viewMenu() string {
	ref := m.engine.Menu()
	var title string
	var items []string
	switch ref.Kind {
	case domain.MenuFilter:
		title = "Filter"
		for _, f := range domain.AllFilters() {
			label := f.Display()
			if f == m.engine.Filter() {
				label += " ✓"
			}
			items = append(items, label)
		}
	case domain.MenuCommentActions, domain.MenuReplyActions:
		target, _ := ref.Target()
		title = "Actions · " + target.String()
		for _, a := range m.engine.MenuItems() {
			items = append(items, a.Display())
		}
	case domain.MenuNone:
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.MenuTitle.Render(title))
	for i, item := range items {
		b.WriteString("\n")
		if i == m.engine.MenuCursor() {
			b.WriteString(m.styles.MenuSelected.Render("› " + item))
		} else {
			b.WriteString(m.styles.MenuItem.Render("  " + item))
		}
	}
	return m.styles.Menu.Render(b.String())
}

// viewConfirmDialog renders the delete confirmation.
func (m *Model) viewConfirmDialog() string {
	target := m.pendingDelete
	what := "comment " + target.String()
	if target.IsReply() {
		what = "reply " + target.String()
	} else if c, ok := m.engine.Comment(target.CommentID); ok && len(c.Replies) > 0 {
		what += " and " + pluralize(len(c.Replies), "reply", "replies")
	}
	content := m.styles.DialogTitle.Render("Delete "+what+"?") + "\n" +
		m.styles.DialogPrompt.Render("[y] delete  [n] cancel")
	return m.styles.Dialog.Render(content)
}

// viewComposer renders the composer, or its placeholder while idle.
func (m *Model) viewComposer() string {
	if m.mode != ModeCompose {
		return m.styles.ComposerIdle.Render(m.engine.Placeholder() + " (n)")
	}
	return m.styles.ComposerLabel.Render(m.engine.Placeholder()) + "\n" + m.composer.View()
}

// viewFooter renders the status line.
func (m *Model) viewFooter() string {
	return NewStatusLine(m.width-4, &m.styles).Render(m.GetStatusInfo())
}

// viewHelp renders the key binding overlay.
func (m *Model) viewHelp() string {
	return m.styles.Header.Render("Keys") + "\n\n" +
		m.help.FullHelpView(m.keys.FullHelp()) + "\n\n" +
		m.styles.Footer.Render("esc/?/q close")
}

// createdLabel prefers a relative time for entries with a creation time
// and falls back to the stored label for seed data.
func createdLabel(created time.Time, label string, now time.Time) string {
	if created.IsZero() {
		return label
	}
	return humanize.RelTime(created, now, "ago", "from now")
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return humanize.Comma(int64(n)) + " " + plural
}
