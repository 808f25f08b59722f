// Package usecase contains the application use cases.
package usecase

import (
	"fmt"
	"time"

	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/engine"
)

// Discussion opens engines over the persisted collection and writes them
// back. Every mutating use case runs load → engine entry point → save.
// Fields are ordered to minimize memory padding.
type Discussion struct {
	comments   domain.CommentRepository
	ids        domain.IDGenerator
	clock      domain.Clock
	logger     domain.Logger
	moderation domain.Moderation
	scheduler  domain.Scheduler
	tabs       []domain.Tab
	ackDelay   time.Duration
}

// NewDiscussion creates a Discussion.
// tabs are the configured tabs; moderation decides who may pin.
func NewDiscussion(
	comments domain.CommentRepository,
	ids domain.IDGenerator,
	clock domain.Clock,
	logger domain.Logger,
	moderation domain.Moderation,
	tabs []domain.Tab,
) *Discussion {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Discussion{
		comments:   comments,
		ids:        ids,
		clock:      clock,
		logger:     logger,
		moderation: moderation,
		tabs:       tabs,
	}
}

// WithAcks returns a copy of d whose engines dismiss acknowledgements
// after delay using sched. Interactive surfaces use it; the CLI does not.
func (d *Discussion) WithAcks(sched domain.Scheduler, delay time.Duration) *Discussion {
	clone := *d
	clone.scheduler = sched
	clone.ackDelay = delay
	return &clone
}

// Tabs returns the configured tabs.
func (d *Discussion) Tabs() []domain.Tab {
	if len(d.tabs) == 0 {
		return domain.DefaultTabs()
	}
	return d.tabs
}

// HasTab reports whether tab is offered by the discussion.
func (d *Discussion) HasTab(tab domain.Tab) bool {
	tab = tab.Resolve()
	for _, t := range d.Tabs() {
		if t == tab {
			return true
		}
	}
	return false
}

// Open loads the collection and returns an engine acting as actor.
// extra is combined with the configured moderation policy.
func (d *Discussion) Open(actor domain.Actor, tab domain.Tab, extra ...domain.Moderation) (*engine.Engine, error) {
	seed, err := d.comments.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	moderation := d.moderation
	if len(extra) > 0 {
		moderation = append(domain.AnyModeration{d.moderation}, extra...)
	}

	e, err := engine.New(engine.Options{
		Moderation: moderation,
		Clock:      d.clock,
		IDs:        d.ids,
		Scheduler:  d.scheduler,
		Logger:     d.logger,
		Actor:      actor,
		InitialTab: tab,
		Seed:       seed,
		Tabs:       d.Tabs(),
		AckDelay:   d.ackDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("open discussion: %w", err)
	}
	return e, nil
}

// Commit saves the engine's collection if it changed.
func (d *Discussion) Commit(e *engine.Engine) error {
	if !e.Dirty() {
		return nil
	}
	if err := d.comments.Save(e.Snapshot()); err != nil {
		d.logger.Error("", "store", fmt.Sprintf("save failed: %v", err))
		return fmt.Errorf("save comments: %w", err)
	}
	e.MarkClean()
	return nil
}

// requireActor rejects mutations without a resolved identity.
func requireActor(actor domain.Actor) error {
	if actor.ID == "" {
		return domain.ErrNoActor
	}
	return nil
}

// outcomeError converts a rejected outcome into an error for outer surfaces.
// verb names the attempted action ("edit", "delete").
func outcomeError(outcome domain.Outcome, target domain.Target, verb string) error {
	err := outcome.Err(target)
	if err == nil {
		return nil
	}
	if outcome == domain.OutcomeDenied {
		if verb == "pin" {
			return fmt.Errorf("%w: only discussion hosts can pin comments", err)
		}
		kind := "comments"
		if target.IsReply() {
			kind = "replies"
		}
		return fmt.Errorf("%w: you can only %s your own %s", err, verb, kind)
	}
	return fmt.Errorf("%s %s: %w", verb, target, err)
}
