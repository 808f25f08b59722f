// Package tui provides the terminal discussion panel for crew-talk.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal  Mode = iota // Thread navigation
	ModeCompose             // Composer focused
	ModeMenu                // Action or filter menu open
	ModeConfirm             // Delete confirmation dialog
	ModeHelp                // Help overlay
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeCompose:
		return "compose"
	case ModeMenu:
		return "menu"
	case ModeConfirm:
		return "confirm"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeCompose:
		return true
	case ModeNormal, ModeMenu, ModeConfirm, ModeHelp:
		return false
	}
	return false
}
