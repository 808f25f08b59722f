package engine

import "github.com/runoshun/crew-talk/internal/domain"

// Composer gates which single compose action is live and routes the next
// submit to the matching store operation.
//
//	Idle ──begin*──▶ ComposingNew | ReplyingTo | EditingComment | EditingReply
//	  ▲                                   │
//	  └──────── submit ok / cancel ───────┘
//
// Beginning any intent replaces the previous one; intents never stack.
type Composer struct {
	intent domain.Intent
	buffer string
}

// SubmitResult describes what a submit did.
type SubmitResult struct {
	Intent     domain.Intent  // Intent that was live when submit was called
	Target     domain.Target  // Entry created or edited
	Outcome    domain.Outcome // Store outcome; OutcomeInvalid when not dispatched
	Dispatched bool           // False when submit was a no-op
}

// Intent returns the live intent.
func (c *Composer) Intent() domain.Intent {
	return c.intent
}

// Buffer returns the current input buffer.
func (c *Composer) Buffer() string {
	return c.buffer
}

// SetBuffer replaces the input buffer without changing the intent.
func (c *Composer) SetBuffer(text string) {
	c.buffer = text
}

// BeginNew starts composing a top-level comment.
func (c *Composer) BeginNew() {
	c.enter(domain.ComposingNewIntent(), "")
}

// BeginReply starts a reply to a comment.
func (c *Composer) BeginReply(commentID string) {
	c.enter(domain.ReplyingToIntent(commentID), "")
}

// BeginEditComment starts editing a comment, pre-filling its current text.
func (c *Composer) BeginEditComment(commentID, currentText string) {
	c.enter(domain.EditingCommentIntent(commentID), currentText)
}

// BeginEditReply starts editing a reply, pre-filling its current text.
func (c *Composer) BeginEditReply(commentID, replyID, currentText string) {
	c.enter(domain.EditingReplyIntent(commentID, replyID), currentText)
}

// Cancel returns to Idle and clears the buffer. It never fails.
func (c *Composer) Cancel() {
	c.enter(domain.IdleIntent(), "")
}

// Submit dispatches text according to the live intent.
// Empty text, or a submit while Idle, is a no-op that leaves the state
// unchanged. After dispatch the composer returns to Idle unless the store
// denied the operation, in which case the intent stays live.
func (c *Composer) Submit(text string, store *Store, tab domain.Tab, actor domain.Actor) SubmitResult {
	res := SubmitResult{Intent: c.intent, Outcome: domain.OutcomeInvalid}
	if c.intent.IsIdle() || domain.NormalizeText(text) == "" {
		return res
	}
	res.Dispatched = true

	switch c.intent.Kind {
	case domain.IntentComposingNew:
		created, outcome := store.CreateComment(tab, text, actor)
		res.Outcome = outcome
		res.Target = domain.CommentTarget(created.ID)
	case domain.IntentReplyingTo:
		created, outcome := store.CreateReply(c.intent.CommentID, text, actor)
		res.Outcome = outcome
		res.Target = domain.ReplyTarget(c.intent.CommentID, created.ID)
	case domain.IntentEditingComment:
		res.Outcome = store.EditComment(c.intent.CommentID, text, actor)
		res.Target = domain.CommentTarget(c.intent.CommentID)
	case domain.IntentEditingReply:
		res.Outcome = store.EditReply(c.intent.CommentID, c.intent.ReplyID, text, actor)
		res.Target = domain.ReplyTarget(c.intent.CommentID, c.intent.ReplyID)
	case domain.IntentIdle:
	}

	switch res.Outcome {
	case domain.OutcomeOK, domain.OutcomeNotFound:
		c.Cancel()
	case domain.OutcomeDenied, domain.OutcomeInvalid:
		c.buffer = text
	}
	return res
}

func (c *Composer) enter(intent domain.Intent, buffer string) {
	c.intent = intent
	c.buffer = buffer
}

// HandleLookup resolves the author handle of a target.
type HandleLookup func(target domain.Target) (string, bool)

// Placeholder returns the composer label for an intent.
// It is a pure function of the intent and the handles it refers to.
func Placeholder(intent domain.Intent, lookup HandleLookup) string {
	switch intent.Kind {
	case domain.IntentComposingNew:
		return "Share your thoughts…"
	case domain.IntentReplyingTo:
		if lookup != nil {
			if handle, ok := lookup(domain.CommentTarget(intent.CommentID)); ok && handle != "" {
				return "Reply to @" + handle + "…"
			}
		}
		return "Write a reply…"
	case domain.IntentEditingComment:
		return "Edit your comment…"
	case domain.IntentEditingReply:
		return "Edit your reply…"
	case domain.IntentIdle:
		return "Add a comment…"
	}
	return ""
}
