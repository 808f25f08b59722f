package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/runoshun/crew-talk/internal/domain"
)

// Options configures an Engine.
// Fields are ordered to minimize memory padding.
type Options struct {
	Moderation domain.Moderation  // Host role policy (default: nobody may pin)
	Clock      domain.Clock       // Default: domain.RealClock
	IDs        domain.IDGenerator // Required
	Scheduler  domain.Scheduler   // Default: domain.RealScheduler
	Logger     domain.Logger      // Default: domain.NopLogger
	Actor      domain.Actor       // Current actor
	InitialTab domain.Tab         // Default: domain.DefaultTab
	Seed       []domain.Comment   // Initial collection
	Tabs       []domain.Tab       // Offered tabs (default: domain.DefaultTabs)
	AckDelay   time.Duration      // Acknowledgement lifetime (0 = until cleared)
}

// Engine is one discussion instance: a comment store plus the composer,
// menu and filter state of the screen hosting it.
//
// It is single-threaded. Every entry point runs to completion and the
// caller must not invoke entry points concurrently.
// Fields are ordered to minimize memory padding.
type Engine struct {
	store     *Store
	acks      *Acks
	log       domain.Logger
	actor     domain.Actor
	activeTab domain.Tab
	filter    domain.Filter
	tabs      []domain.Tab
	composer  Composer
	menu      Menu
	dirty     bool
}

// New creates an Engine from opts.
func New(opts Options) (*Engine, error) {
	if opts.IDs == nil {
		return nil, fmt.Errorf("engine: id generator is required")
	}
	if opts.Clock == nil {
		opts.Clock = domain.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = domain.NopLogger{}
	}
	tabs := make([]domain.Tab, 0, len(opts.Tabs))
	for _, t := range opts.Tabs {
		if t = t.Resolve(); !slices.Contains(tabs, t) {
			tabs = append(tabs, t)
		}
	}
	if len(tabs) == 0 {
		tabs = domain.DefaultTabs()
	}

	store, err := NewStore(opts.Seed, opts.IDs, opts.Clock, opts.Moderation)
	if err != nil {
		return nil, err
	}
	store.ViewAs(opts.Actor)

	initial := opts.InitialTab.Resolve()
	if !slices.Contains(tabs, initial) {
		tabs = append(tabs, initial)
	}

	return &Engine{
		store:     store,
		acks:      NewAcks(opts.Scheduler, opts.AckDelay),
		log:       opts.Logger,
		actor:     opts.Actor,
		activeTab: initial,
		filter:    domain.FilterAll,
		tabs:      tabs,
	}, nil
}

// Actor returns the current actor.
func (e *Engine) Actor() domain.Actor { return e.actor }

// ActiveTab returns the tab new top-level comments go to.
func (e *Engine) ActiveTab() domain.Tab { return e.activeTab }

// Filter returns the active filter.
func (e *Engine) Filter() domain.Filter { return e.filter }

// Tabs returns the tabs offered by the discussion.
func (e *Engine) Tabs() []domain.Tab { return slices.Clone(e.tabs) }

// Intent returns the live composer intent.
func (e *Engine) Intent() domain.Intent { return e.composer.Intent() }

// Buffer returns the composer input buffer.
func (e *Engine) Buffer() string { return e.composer.Buffer() }

// SetBuffer updates the composer input buffer as the user types.
func (e *Engine) SetBuffer(text string) { e.composer.SetBuffer(text) }

// Menu returns the open menu.
func (e *Engine) Menu() domain.MenuRef { return e.menu.Current() }

// MenuCursor returns the highlighted menu item.
func (e *Engine) MenuCursor() int { return e.menu.Cursor() }

// Acks returns the live acknowledgements.
func (e *Engine) Acks() *Acks { return e.acks }

// Dirty reports whether the collection changed since the last MarkClean.
func (e *Engine) Dirty() bool { return e.dirty }

// MarkClean records that the collection has been persisted.
func (e *Engine) MarkClean() { e.dirty = false }

// Snapshot returns a deep copy of the whole collection.
func (e *Engine) Snapshot() []domain.Comment { return e.store.Snapshot() }

// Comment returns a copy of a comment.
func (e *Engine) Comment(commentID string) (domain.Comment, bool) {
	return e.store.Comment(commentID)
}

// Close cancels pending acknowledgement timers.
func (e *Engine) Close() { e.acks.Clear() }

// CanPin reports whether the current actor holds the host role.
func (e *Engine) CanPin() bool { return e.store.CanPin(e.actor) }

// Owns reports whether the current actor owns the target.
func (e *Engine) Owns(target domain.Target) bool {
	if target.IsReply() {
		r, ok := e.store.Reply(target.CommentID, target.ReplyID)
		return ok && domain.IsOwnedBy(&r, e.actor)
	}
	c, ok := e.store.Comment(target.CommentID)
	return ok && domain.IsOwnedBy(&c, e.actor)
}

// Placeholder returns the composer label for the live intent.
func (e *Engine) Placeholder() string {
	return Placeholder(e.composer.Intent(), e.handleOf)
}

func (e *Engine) handleOf(target domain.Target) (string, bool) {
	if target.IsReply() {
		r, ok := e.store.Reply(target.CommentID, target.ReplyID)
		return r.AuthorHandle, ok
	}
	c, ok := e.store.Comment(target.CommentID)
	return c.AuthorHandle, ok
}

// VisibleThread returns the ordered, filtered comments of a tab.
func (e *Engine) VisibleThread(tab domain.Tab, filter domain.Filter) []domain.Comment {
	return VisibleThread(e.store.comments, tab, filter)
}

// Visible returns the thread of the active tab under the active filter.
func (e *Engine) Visible() []domain.Comment {
	return e.VisibleThread(e.activeTab, e.filter)
}

// TabStats returns per-tab statistics.
func (e *Engine) TabStats() []TabStat {
	return IndexTabs(e.store.comments, e.tabs)
}

// SetFilter changes the active filter.
func (e *Engine) SetFilter(filter domain.Filter) error {
	if !filter.IsValid() {
		return fmt.Errorf("%q: %w", filter, domain.ErrInvalidFilter)
	}
	if filter == "" {
		filter = domain.FilterAll
	}
	e.filter = filter
	return nil
}

// SetActiveTab switches the active tab and closes any open menu.
func (e *Engine) SetActiveTab(tab domain.Tab) error {
	tab = tab.Resolve()
	if !slices.Contains(e.tabs, tab) {
		return fmt.Errorf("%q: %w", tab, domain.ErrUnknownTab)
	}
	e.activeTab = tab
	e.menu.Close()
	return nil
}

// CycleTab moves the active tab by step, wrapping around.
func (e *Engine) CycleTab(step int) domain.Tab {
	e.activeTab = NextTab(e.tabs, e.activeTab, step)
	e.menu.Close()
	return e.activeTab
}

// CreateTopLevel posts text as a new comment in the active tab through the
// composer. Empty text is rejected without touching the composer.
func (e *Engine) CreateTopLevel(text string) SubmitResult {
	if domain.NormalizeText(text) == "" {
		return SubmitResult{Intent: e.composer.Intent(), Outcome: domain.OutcomeInvalid}
	}
	e.BeginNew()
	return e.SubmitCompose(text)
}

// PostWithDonation posts a top-level comment carrying a donation.
func (e *Engine) PostWithDonation(tab domain.Tab, text string, donation float64) (domain.Comment, domain.Outcome) {
	c, outcome := e.store.CreateCommentWithDonation(tab, text, &donation, e.actor)
	if outcome.OK() {
		e.changed(c.EffectiveTab(), "comment", "posted "+c.ID)
		e.acks.Notify(domain.CommentTarget(c.ID), AckPosted)
	}
	return c, outcome
}

// BeginNew starts composing a new top-level comment.
func (e *Engine) BeginNew() {
	e.composer.BeginNew()
	e.menu.Close()
}

// BeginReply starts replying to a comment.
func (e *Engine) BeginReply(commentID string) domain.Outcome {
	if _, ok := e.store.Comment(commentID); !ok {
		e.rejected(domain.CommentTarget(commentID), "reply", domain.OutcomeNotFound)
		return domain.OutcomeNotFound
	}
	e.composer.BeginReply(commentID)
	e.menu.Close()
	return domain.OutcomeOK
}

// BeginEditComment starts editing a comment owned by the actor.
func (e *Engine) BeginEditComment(commentID string) domain.Outcome {
	c, ok := e.store.Comment(commentID)
	if !ok {
		e.rejected(domain.CommentTarget(commentID), "edit", domain.OutcomeNotFound)
		return domain.OutcomeNotFound
	}
	if !domain.IsOwnedBy(&c, e.actor) {
		e.rejected(domain.CommentTarget(commentID), "edit", domain.OutcomeDenied)
		return domain.OutcomeDenied
	}
	e.composer.BeginEditComment(commentID, c.Text)
	e.menu.Close()
	return domain.OutcomeOK
}

// BeginEditReply starts editing a reply owned by the actor.
func (e *Engine) BeginEditReply(commentID, replyID string) domain.Outcome {
	target := domain.ReplyTarget(commentID, replyID)
	r, ok := e.store.Reply(commentID, replyID)
	if !ok {
		e.rejected(target, "edit", domain.OutcomeNotFound)
		return domain.OutcomeNotFound
	}
	if !domain.IsOwnedBy(&r, e.actor) {
		e.rejected(target, "edit", domain.OutcomeDenied)
		return domain.OutcomeDenied
	}
	e.composer.BeginEditReply(commentID, replyID, r.Text)
	e.menu.Close()
	return domain.OutcomeOK
}

// SubmitCompose routes text to the store according to the live intent.
func (e *Engine) SubmitCompose(text string) SubmitResult {
	res := e.composer.Submit(text, e.store, e.activeTab, e.actor)
	if !res.Dispatched {
		return res
	}
	if !res.Outcome.OK() {
		e.rejected(res.Target, res.Intent.Kind.String(), res.Outcome)
		return res
	}

	tab := e.tabOf(res.Target.CommentID)
	switch res.Intent.Kind {
	case domain.IntentComposingNew:
		e.changed(tab, "comment", "posted "+res.Target.String())
		e.acks.Notify(res.Target, AckPosted)
	case domain.IntentReplyingTo:
		e.changed(tab, "reply", "posted "+res.Target.String())
		e.acks.Notify(res.Target, AckReplied)
	case domain.IntentEditingComment, domain.IntentEditingReply:
		e.changed(tab, "edit", "edited "+res.Target.String())
		e.acks.Notify(res.Target, AckEdited)
	case domain.IntentIdle:
	}
	return res
}

// CancelCompose returns the composer to Idle. It always succeeds.
func (e *Engine) CancelCompose() {
	e.composer.Cancel()
}

// ToggleLike flips the actor's like on a comment or reply.
func (e *Engine) ToggleLike(target domain.Target) domain.Outcome {
	outcome := e.store.ToggleLike(target)
	if !outcome.OK() {
		e.rejected(target, "like", outcome)
		return outcome
	}
	kind := AckUnliked
	if e.likedBySelf(target) {
		kind = AckLiked
	}
	e.changed(e.tabOf(target.CommentID), "like", string(kind)+" "+target.String())
	e.acks.Notify(target, kind)
	return outcome
}

// TogglePin flips the pinned flag of a comment. Hosts only.
func (e *Engine) TogglePin(commentID string) domain.Outcome {
	target := domain.CommentTarget(commentID)
	outcome := e.store.TogglePin(commentID, e.actor)
	if !outcome.OK() {
		e.rejected(target, "pin", outcome)
		return outcome
	}
	kind := AckUnpinned
	if c, ok := e.store.Comment(commentID); ok && c.Pinned {
		kind = AckPinned
	}
	e.changed(e.tabOf(commentID), "pin", string(kind)+" "+commentID)
	e.acks.Notify(target, kind)
	return outcome
}

// DeleteComment removes a comment owned by the actor with all its replies.
// A composer intent or menu pointing at the removed comment is reset.
func (e *Engine) DeleteComment(commentID string) domain.Outcome {
	target := domain.CommentTarget(commentID)
	tab := e.tabOf(commentID)
	outcome := e.store.DeleteComment(commentID, e.actor)
	if !outcome.OK() {
		e.rejected(target, "delete", outcome)
		return outcome
	}
	if intent := e.composer.Intent(); !intent.IsIdle() && intent.CommentID == commentID {
		e.composer.Cancel()
	}
	if e.menu.Current().CommentID == commentID {
		e.menu.Close()
	}
	e.changed(tab, "delete", "deleted "+commentID)
	e.acks.Notify(target, AckDeleted)
	return outcome
}

// DeleteReply removes one reply owned by the actor.
func (e *Engine) DeleteReply(commentID, replyID string) domain.Outcome {
	target := domain.ReplyTarget(commentID, replyID)
	outcome := e.store.DeleteReply(commentID, replyID, e.actor)
	if !outcome.OK() {
		e.rejected(target, "delete", outcome)
		return outcome
	}
	if intent := e.composer.Intent(); intent.Kind == domain.IntentEditingReply && intent.ReplyID == replyID && intent.CommentID == commentID {
		e.composer.Cancel()
	}
	if cur := e.menu.Current(); cur.Kind == domain.MenuReplyActions && cur.ReplyID == replyID {
		e.menu.Close()
	}
	e.changed(e.tabOf(commentID), "delete", "deleted "+target.String())
	e.acks.Notify(target, AckDeleted)
	return outcome
}

// OpenMenu opens a contextual menu, closing any other.
func (e *Engine) OpenMenu(ref domain.MenuRef) domain.Outcome {
	if target, ok := ref.Target(); ok {
		if target.IsReply() {
			if _, found := e.store.Reply(target.CommentID, target.ReplyID); !found {
				return domain.OutcomeNotFound
			}
		} else if _, found := e.store.Comment(target.CommentID); !found {
			return domain.OutcomeNotFound
		}
	}
	e.menu.Open(ref)
	return domain.OutcomeOK
}

// CloseMenu closes the open menu.
func (e *Engine) CloseMenu() { e.menu.Close() }

// DismissMenu handles an outside click or escape.
// It reports whether a menu was open.
func (e *Engine) DismissMenu() bool { return e.menu.Dismiss() }

// MoveMenuCursor moves the highlighted menu item.
func (e *Engine) MoveMenuCursor(delta int) {
	n := len(e.MenuItems())
	if e.menu.Current().Kind == domain.MenuFilter {
		n = len(domain.AllFilters())
	}
	e.menu.Move(delta, n)
}

// MenuItems returns the actions of the open action menu.
func (e *Engine) MenuItems() []domain.MenuAction {
	ref := e.menu.Current()
	target, ok := ref.Target()
	if !ok {
		return nil
	}
	return ActionItems(ref, e.Owns(target), e.CanPin())
}

// SelectMenuAction runs an action of the open action menu and closes it.
// Edit moves the composer into the matching editing state; Pin toggles the
// pin without touching the composer.
func (e *Engine) SelectMenuAction(action domain.MenuAction) domain.Outcome {
	ref := e.menu.Current()
	target, ok := ref.Target()
	if !ok || !slices.Contains(e.MenuItems(), action) {
		return domain.OutcomeDenied
	}
	e.menu.Close()

	switch action {
	case domain.ActionReply:
		return e.BeginReply(target.CommentID)
	case domain.ActionEdit:
		if target.IsReply() {
			return e.BeginEditReply(target.CommentID, target.ReplyID)
		}
		return e.BeginEditComment(target.CommentID)
	case domain.ActionDelete:
		if target.IsReply() {
			return e.DeleteReply(target.CommentID, target.ReplyID)
		}
		return e.DeleteComment(target.CommentID)
	case domain.ActionLike:
		return e.ToggleLike(target)
	case domain.ActionPin:
		return e.TogglePin(target.CommentID)
	}
	return domain.OutcomeDenied
}

// SelectHighlighted runs the highlighted item of the open menu.
func (e *Engine) SelectHighlighted() domain.Outcome {
	if e.menu.Current().Kind == domain.MenuFilter {
		filters := domain.AllFilters()
		idx := e.menu.Cursor()
		if idx < 0 || idx >= len(filters) {
			return domain.OutcomeNotFound
		}
		return e.SelectFilter(filters[idx])
	}
	items := e.MenuItems()
	idx := e.menu.Cursor()
	if idx < 0 || idx >= len(items) {
		return domain.OutcomeNotFound
	}
	return e.SelectMenuAction(items[idx])
}

// SelectFilter applies a filter picked from the filter menu and closes it.
func (e *Engine) SelectFilter(filter domain.Filter) domain.Outcome {
	if e.menu.Current().Kind != domain.MenuFilter {
		return domain.OutcomeDenied
	}
	if err := e.SetFilter(filter); err != nil {
		return domain.OutcomeInvalid
	}
	e.menu.Close()
	return domain.OutcomeOK
}

func (e *Engine) likedBySelf(target domain.Target) bool {
	if target.IsReply() {
		r, ok := e.store.Reply(target.CommentID, target.ReplyID)
		return ok && r.LikedBySelf
	}
	c, ok := e.store.Comment(target.CommentID)
	return ok && c.LikedBySelf
}

func (e *Engine) tabOf(commentID string) domain.Tab {
	if c, ok := e.store.Comment(commentID); ok {
		return c.EffectiveTab()
	}
	return e.activeTab
}

func (e *Engine) changed(tab domain.Tab, category, msg string) {
	e.dirty = true
	e.log.Info(tab, category, msg+" by "+e.actor.AuthorID())
}

func (e *Engine) rejected(target domain.Target, category string, outcome domain.Outcome) {
	e.log.Debug(e.tabOf(target.CommentID), category, fmt.Sprintf("%s %s for %s", outcome, target, e.actor.AuthorID()))
}
