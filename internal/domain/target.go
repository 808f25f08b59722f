package domain

import (
	"fmt"
	"strings"
)

// Target addresses either a comment or one of its replies.
// A reply is only addressable through its parent comment.
type Target struct {
	CommentID string
	ReplyID   string // Empty when the target is the comment itself
}

// CommentTarget returns a target for a top-level comment.
func CommentTarget(commentID string) Target {
	return Target{CommentID: commentID}
}

// ReplyTarget returns a target for a reply.
func ReplyTarget(commentID, replyID string) Target {
	return Target{CommentID: commentID, ReplyID: replyID}
}

// IsReply returns true if the target is a reply.
func (t Target) IsReply() bool {
	return t.ReplyID != ""
}

// String returns "cid" or "cid/rid".
func (t Target) String() string {
	if t.IsReply() {
		return t.CommentID + "/" + t.ReplyID
	}
	return t.CommentID
}

// ParseTarget parses "cid" or "cid/rid".
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}, fmt.Errorf("empty target: %w", ErrInvalidTarget)
	}
	cid, rid, found := strings.Cut(s, "/")
	if cid == "" || (found && rid == "") || strings.Contains(rid, "/") {
		return Target{}, fmt.Errorf("%q: %w", s, ErrInvalidTarget)
	}
	return Target{CommentID: cid, ReplyID: rid}, nil
}
