package domain

// MenuKind identifies a contextual menu.
type MenuKind int

const (
	MenuNone           MenuKind = iota // No menu open
	MenuFilter                         // Filter picker
	MenuCommentActions                 // Action menu of one comment
	MenuReplyActions                   // Action menu of one reply
)

// String returns the string representation of the menu kind.
func (k MenuKind) String() string {
	switch k {
	case MenuNone:
		return "none"
	case MenuFilter:
		return "filter"
	case MenuCommentActions:
		return "comment_actions"
	case MenuReplyActions:
		return "reply_actions"
	default:
		return "unknown"
	}
}

// MenuRef identifies one menu instance.
type MenuRef struct {
	CommentID string
	ReplyID   string
	Kind      MenuKind
}

// FilterMenu returns the ref of the filter menu.
func FilterMenu() MenuRef { return MenuRef{Kind: MenuFilter} }

// CommentMenu returns the ref of a comment's action menu.
func CommentMenu(commentID string) MenuRef {
	return MenuRef{Kind: MenuCommentActions, CommentID: commentID}
}

// ReplyMenu returns the ref of a reply's action menu.
func ReplyMenu(commentID, replyID string) MenuRef {
	return MenuRef{Kind: MenuReplyActions, CommentID: commentID, ReplyID: replyID}
}

// IsOpen returns true unless the ref is MenuNone.
func (r MenuRef) IsOpen() bool {
	return r.Kind != MenuNone
}

// Target returns the entry an action menu belongs to.
func (r MenuRef) Target() (Target, bool) {
	switch r.Kind {
	case MenuCommentActions:
		return CommentTarget(r.CommentID), true
	case MenuReplyActions:
		return ReplyTarget(r.CommentID, r.ReplyID), true
	case MenuNone, MenuFilter:
		return Target{}, false
	}
	return Target{}, false
}

// MenuAction is an item of an action menu.
type MenuAction string

const (
	ActionReply  MenuAction = "reply"
	ActionEdit   MenuAction = "edit"
	ActionDelete MenuAction = "delete"
	ActionLike   MenuAction = "like"
	ActionPin    MenuAction = "pin"
)

// Display returns the menu label of the action.
func (a MenuAction) Display() string {
	switch a {
	case ActionReply:
		return "Reply"
	case ActionEdit:
		return "Edit"
	case ActionDelete:
		return "Delete"
	case ActionLike:
		return "Like"
	case ActionPin:
		return "Pin"
	default:
		return string(a)
	}
}
