package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// StatusLineInfo contains information for rendering the status line.
// Fields are ordered to minimize memory padding.
type StatusLineInfo struct {
	Position string // Optional cursor position (e.g., "2/7")
	KeyHints []KeyHint
	Mode     Mode
}

// KeyHint represents a key and its description.
type KeyHint struct {
	Key  string
	Desc string
}

// StatusLine renders a unified status line at the bottom of the screen.
// Fields are ordered to minimize memory padding.
type StatusLine struct {
	styles *Styles
	width  int
}

// NewStatusLine creates a new StatusLine with the given width and styles.
func NewStatusLine(width int, styles *Styles) *StatusLine {
	return &StatusLine{
		width:  width,
		styles: styles,
	}
}

// Render renders the status line with the given info.
func (s *StatusLine) Render(info StatusLineInfo) string {
	keyStyle := s.styles.FooterKey
	mutedStyle := lipgloss.NewStyle().Foreground(Colors.Muted)

	hints := make([]string, 0, len(info.KeyHints))
	for _, h := range info.KeyHints {
		hints = append(hints, keyStyle.Render(h.Key)+" "+h.Desc)
	}
	content := strings.Join(hints, "  ")

	rightContent := mutedStyle.Render("mode:" + info.Mode.String())
	if info.Position != "" {
		rightContent = info.Position + "  " + rightContent
	}

	contentWidth := s.width - 2 // Account for padding
	rightLen := lipgloss.Width(rightContent)
	maxContentWidth := contentWidth - rightLen - 2
	if lipgloss.Width(content) > maxContentWidth {
		if maxContentWidth <= 3 {
			content = "..."
		} else {
			content = truncate.StringWithTail(content, uint(maxContentWidth), "...")
		}
	}

	spacing := contentWidth - lipgloss.Width(content) - rightLen
	if spacing < 1 {
		spacing = 1
	}

	return s.styles.Footer.Width(s.width).Render(content + strings.Repeat(" ", spacing) + rightContent)
}

// GetStatusInfo returns status line info for the TUI model.
func (m *Model) GetStatusInfo() StatusLineInfo {
	info := StatusLineInfo{Mode: m.mode}
	if len(m.rows) > 0 {
		info.Position = strconv.Itoa(m.cursor+1) + "/" + strconv.Itoa(len(m.rows))
	}

	switch m.mode {
	case ModeNormal:
		info.KeyHints = []KeyHint{
			{Key: "j/k", Desc: "nav"},
			{Key: "n", Desc: "new"},
			{Key: "r", Desc: "reply"},
			{Key: "l", Desc: "like"},
			{Key: "space", Desc: "actions"},
			{Key: "f", Desc: "filter"},
			{Key: "tab", Desc: "next tab"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		}
	case ModeCompose:
		info.KeyHints = []KeyHint{
			{Key: "enter", Desc: "submit"},
			{Key: "alt+enter", Desc: "new line"},
			{Key: "esc", Desc: "cancel"},
		}
	case ModeMenu:
		info.KeyHints = []KeyHint{
			{Key: "j/k", Desc: "move"},
			{Key: "enter", Desc: "select"},
			{Key: "esc", Desc: "close"},
		}
	case ModeConfirm, ModeHelp:
		// Dialogs carry their own hints
		info.KeyHints = nil
	}

	return info
}
