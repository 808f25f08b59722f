package tui

// Msg is the sealed interface for all TUI messages.
// All message types must implement the sealed() method.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgTimerFired is sent when a scheduled callback is due.
// The callback runs inside Update so it never races the engine.
type MsgTimerFired struct {
	timer *loopTimer
}

func (MsgTimerFired) sealed() {}
