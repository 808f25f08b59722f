package tui

import "github.com/charmbracelet/lipgloss"

// Colors defines the color palette for the TUI.
var Colors = struct {
	// Base colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Background lipgloss.Color

	// Text colors
	TextNormal   lipgloss.Color
	TextSelected lipgloss.Color
	MetaNormal   lipgloss.Color
	MetaSelected lipgloss.Color

	// Badges
	Verified lipgloss.Color
	Pinned   lipgloss.Color
	Donation lipgloss.Color
	Liked    lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Secondary:  lipgloss.Color("#A29BFE"), // Lavender
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Success:    lipgloss.Color("#00B894"), // Green
	Warning:    lipgloss.Color("#FDCB6E"), // Yellow
	Background: lipgloss.Color("#2D3436"), // Dark gray

	TextNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TextSelected: lipgloss.Color("#FFEAA7"), // Yellow (selected)
	MetaNormal:   lipgloss.Color("#636E72"), // Gray
	MetaSelected: lipgloss.Color("#B2BEC3"), // Light gray

	Verified: lipgloss.Color("#74B9FF"), // Light blue
	Pinned:   lipgloss.Color("#FDCB6E"), // Yellow
	Donation: lipgloss.Color("#00B894"), // Green
	Liked:    lipgloss.Color("#FD79A8"), // Pink
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// App
	App lipgloss.Style

	// Header
	Header     lipgloss.Style
	HeaderText lipgloss.Style

	// Tab bar
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	TabCount    lipgloss.Style

	// Thread
	Author         lipgloss.Style
	AuthorSelected lipgloss.Style
	Meta           lipgloss.Style
	MetaSelected   lipgloss.Style
	Body           lipgloss.Style
	BodySelected   lipgloss.Style
	CursorNormal   lipgloss.Style
	CursorSelected lipgloss.Style
	Empty          lipgloss.Style

	// Badges
	BadgeVerified lipgloss.Style
	BadgePinned   lipgloss.Style
	BadgeDonation lipgloss.Style
	BadgeLiked    lipgloss.Style

	// Acknowledgements
	Ack lipgloss.Style

	// Menu overlay
	Menu         lipgloss.Style
	MenuTitle    lipgloss.Style
	MenuItem     lipgloss.Style
	MenuSelected lipgloss.Style

	// Composer
	ComposerLabel lipgloss.Style
	ComposerIdle  lipgloss.Style

	// Dialog
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
	DialogPrompt lipgloss.Style

	// Footer
	Footer    lipgloss.Style
	FooterKey lipgloss.Style

	// Error
	ErrorMsg lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		HeaderText: lipgloss.NewStyle().
			Foreground(Colors.MetaSelected),

		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.TextSelected).
			Underline(true).
			Padding(0, 1),

		TabInactive: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Padding(0, 1),

		TabCount: lipgloss.NewStyle().
			Foreground(Colors.Secondary),

		Author: lipgloss.NewStyle().
			Foreground(Colors.TextNormal).
			Bold(true),

		AuthorSelected: lipgloss.NewStyle().
			Foreground(Colors.TextSelected).
			Bold(true),

		Meta: lipgloss.NewStyle().
			Foreground(Colors.MetaNormal),

		MetaSelected: lipgloss.NewStyle().
			Foreground(Colors.MetaSelected),

		Body: lipgloss.NewStyle().
			Foreground(Colors.TextNormal),

		BodySelected: lipgloss.NewStyle().
			Foreground(Colors.TextSelected),

		CursorNormal: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		CursorSelected: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),

		Empty: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Italic(true),

		BadgeVerified: lipgloss.NewStyle().
			Foreground(Colors.Verified),

		BadgePinned: lipgloss.NewStyle().
			Foreground(Colors.Pinned).
			Bold(true),

		BadgeDonation: lipgloss.NewStyle().
			Foreground(Colors.Donation),

		BadgeLiked: lipgloss.NewStyle().
			Foreground(Colors.Liked),

		Ack: lipgloss.NewStyle().
			Foreground(Colors.Success).
			Bold(true),

		Menu: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary).
			Padding(0, 1),

		MenuTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Secondary),

		MenuItem: lipgloss.NewStyle().
			Foreground(Colors.TextNormal),

		MenuSelected: lipgloss.NewStyle().
			Foreground(Colors.TextSelected).
			Bold(true),

		ComposerLabel: lipgloss.NewStyle().
			Foreground(Colors.Secondary).
			Bold(true),

		ComposerIdle: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Italic(true),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Warning).
			Padding(0, 1),

		DialogTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Warning),

		DialogPrompt: lipgloss.NewStyle().
			Foreground(Colors.MetaSelected),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Padding(0, 1),

		FooterKey: lipgloss.NewStyle().
			Foreground(Colors.Secondary).
			Bold(true),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
	}
}
