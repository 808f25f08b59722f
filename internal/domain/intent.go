package domain

// IntentKind identifies what the next submitted text will do.
type IntentKind int

const (
	IntentIdle           IntentKind = iota // Nothing live; submit is a no-op
	IntentComposingNew                     // Next submit creates a top-level comment
	IntentReplyingTo                       // Next submit replies to CommentID
	IntentEditingComment                   // Next submit replaces CommentID's text
	IntentEditingReply                     // Next submit replaces ReplyID's text
)

// String returns the string representation of the intent kind.
func (k IntentKind) String() string {
	switch k {
	case IntentIdle:
		return "idle"
	case IntentComposingNew:
		return "composing_new"
	case IntentReplyingTo:
		return "replying_to"
	case IntentEditingComment:
		return "editing_comment"
	case IntentEditingReply:
		return "editing_reply"
	default:
		return "unknown"
	}
}

// Intent is the transient composer state. It is never persisted.
type Intent struct {
	CommentID string
	ReplyID   string
	Kind      IntentKind
}

// IdleIntent returns the resting intent.
func IdleIntent() Intent { return Intent{Kind: IntentIdle} }

// ComposingNewIntent returns the intent for a new top-level comment.
func ComposingNewIntent() Intent { return Intent{Kind: IntentComposingNew} }

// ReplyingToIntent returns the intent for replying to a comment.
func ReplyingToIntent(commentID string) Intent {
	return Intent{Kind: IntentReplyingTo, CommentID: commentID}
}

// EditingCommentIntent returns the intent for editing a comment.
func EditingCommentIntent(commentID string) Intent {
	return Intent{Kind: IntentEditingComment, CommentID: commentID}
}

// EditingReplyIntent returns the intent for editing a reply.
func EditingReplyIntent(commentID, replyID string) Intent {
	return Intent{Kind: IntentEditingReply, CommentID: commentID, ReplyID: replyID}
}

// IsIdle returns true if no intent is live.
func (i Intent) IsIdle() bool {
	return i.Kind == IntentIdle
}

// IsEditing returns true for both edit intents.
func (i Intent) IsEditing() bool {
	return i.Kind == IntentEditingComment || i.Kind == IntentEditingReply
}

// Target returns the entry the intent refers to, if any.
func (i Intent) Target() (Target, bool) {
	switch i.Kind {
	case IntentReplyingTo, IntentEditingComment:
		return CommentTarget(i.CommentID), true
	case IntentEditingReply:
		return ReplyTarget(i.CommentID, i.ReplyID), true
	case IntentIdle, IntentComposingNew:
		return Target{}, false
	}
	return Target{}, false
}
