package engine

import (
	"slices"
	"sync"
	"time"

	"github.com/runoshun/crew-talk/internal/domain"
)

// AckKind describes a confirmed mutation.
type AckKind string

const (
	AckPosted   AckKind = "posted"
	AckReplied  AckKind = "replied"
	AckEdited   AckKind = "edited"
	AckDeleted  AckKind = "deleted"
	AckLiked    AckKind = "liked"
	AckUnliked  AckKind = "unliked"
	AckPinned   AckKind = "pinned"
	AckUnpinned AckKind = "unpinned"
)

// Message returns the banner text of the acknowledgement.
func (k AckKind) Message(target domain.Target) string {
	noun := "Comment"
	if target.IsReply() {
		noun = "Reply"
	}
	switch k {
	case AckPosted:
		return "Comment posted"
	case AckReplied:
		return "Reply posted"
	case AckEdited:
		return noun + " updated"
	case AckDeleted:
		return noun + " deleted"
	case AckLiked:
		return noun + " liked"
	case AckUnliked:
		return "Like removed"
	case AckPinned:
		return "Comment pinned"
	case AckUnpinned:
		return "Comment unpinned"
	default:
		return string(k)
	}
}

// Ack is a transient confirmation of a mutation on one target.
type Ack struct {
	Target     domain.Target
	Kind       AckKind
	Generation uint64
}

// Message returns the banner text.
func (a Ack) Message() string {
	return a.Kind.Message(a.Target)
}

type pendingAck struct {
	timer domain.Timer
	ack   Ack
}

// Acks holds acknowledgements until their delay elapses.
// A new acknowledgement for a target cancels the pending dismissal of the
// previous one, and a dismissal carrying an older generation is ignored,
// so a stale timer never clears newer state.
// Fields are ordered to minimize memory padding.
type Acks struct {
	sched     domain.Scheduler
	pending   map[domain.Target]*pendingAck
	onDismiss func(Ack)
	delay     time.Duration
	gen       uint64
	mu        sync.Mutex
}

// NewAcks creates an Acks that dismisses entries after delay.
// A non-positive delay keeps entries until Clear.
func NewAcks(sched domain.Scheduler, delay time.Duration) *Acks {
	if sched == nil {
		sched = domain.RealScheduler{}
	}
	return &Acks{
		sched:   sched,
		delay:   delay,
		pending: make(map[domain.Target]*pendingAck),
	}
}

// OnDismiss registers a callback run after an entry is dismissed.
func (a *Acks) OnDismiss(f func(Ack)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onDismiss = f
}

// Notify records an acknowledgement for target and arms its dismissal.
func (a *Acks) Notify(target domain.Target, kind AckKind) Ack {
	a.mu.Lock()
	defer a.mu.Unlock()

	if prev, ok := a.pending[target]; ok && prev.timer != nil {
		prev.timer.Stop()
	}
	a.gen++
	ack := Ack{Target: target, Kind: kind, Generation: a.gen}
	entry := &pendingAck{ack: ack}
	if a.delay > 0 {
		gen := a.gen
		entry.timer = a.sched.AfterFunc(a.delay, func() { a.dismiss(target, gen) })
	}
	a.pending[target] = entry
	return ack
}

// Get returns the live acknowledgement of target.
func (a *Acks) Get(target domain.Target) (Ack, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	entry, ok := a.pending[target]
	if !ok {
		return Ack{}, false
	}
	return entry.ack, true
}

// Active returns live acknowledgements, oldest first.
func (a *Acks) Active() []Ack {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Ack, 0, len(a.pending))
	for _, entry := range a.pending {
		out = append(out, entry.ack)
	}
	slices.SortFunc(out, func(x, y Ack) int {
		switch {
		case x.Generation < y.Generation:
			return -1
		case x.Generation > y.Generation:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Clear cancels every pending dismissal and drops all entries.
func (a *Acks) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for target, entry := range a.pending {
		if entry.timer != nil {
			entry.timer.Stop()
		}
		delete(a.pending, target)
	}
}

func (a *Acks) dismiss(target domain.Target, gen uint64) {
	a.mu.Lock()
	entry, ok := a.pending[target]
	if !ok || entry.ack.Generation != gen {
		a.mu.Unlock()
		return
	}
	delete(a.pending, target)
	onDismiss := a.onDismiss
	a.mu.Unlock()

	if onDismiss != nil {
		onDismiss(entry.ack)
	}
}
