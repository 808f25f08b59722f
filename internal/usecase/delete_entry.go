package usecase

import (
	"context"

	"github.com/runoshun/crew-talk/internal/domain"
)

// DeleteCommentInput contains the parameters for deleting a comment.
type DeleteCommentInput struct {
	Actor     domain.Actor // Must own the comment
	CommentID string       // Comment to delete (required)
}

// DeleteCommentOutput contains the result of deleting a comment.
type DeleteCommentOutput struct {
	Replies int // Number of replies removed with the comment
}

// DeleteComment is the use case for deleting a comment with its replies.
type DeleteComment struct {
	discussion *Discussion
}

// NewDeleteComment creates a new DeleteComment use case.
func NewDeleteComment(discussion *Discussion) *DeleteComment {
	return &DeleteComment{discussion: discussion}
}

// Execute deletes a comment owned by the actor.
func (uc *DeleteComment) Execute(_ context.Context, in DeleteCommentInput) (*DeleteCommentOutput, error) {
	if err := requireActor(in.Actor); err != nil {
		return nil, err
	}

	e, err := uc.discussion.Open(in.Actor, "")
	if err != nil {
		return nil, err
	}
	defer e.Close()

	before, _ := e.Comment(in.CommentID)
	if err := outcomeError(e.DeleteComment(in.CommentID), domain.CommentTarget(in.CommentID), "delete"); err != nil {
		return nil, err
	}
	if err := uc.discussion.Commit(e); err != nil {
		return nil, err
	}
	return &DeleteCommentOutput{Replies: len(before.Replies)}, nil
}

// DeleteReplyInput contains the parameters for deleting a reply.
type DeleteReplyInput struct {
	Actor     domain.Actor // Must own the reply
	CommentID string       // Parent comment (required)
	ReplyID   string       // Reply to delete (required)
}

// DeleteReply is the use case for deleting one reply.
type DeleteReply struct {
	discussion *Discussion
}

// NewDeleteReply creates a new DeleteReply use case.
func NewDeleteReply(discussion *Discussion) *DeleteReply {
	return &DeleteReply{discussion: discussion}
}

// Execute deletes a reply owned by the actor.
func (uc *DeleteReply) Execute(_ context.Context, in DeleteReplyInput) error {
	if err := requireActor(in.Actor); err != nil {
		return err
	}

	e, err := uc.discussion.Open(in.Actor, "")
	if err != nil {
		return err
	}
	defer e.Close()

	target := domain.ReplyTarget(in.CommentID, in.ReplyID)
	if err := outcomeError(e.DeleteReply(in.CommentID, in.ReplyID), target, "delete"); err != nil {
		return err
	}
	return uc.discussion.Commit(e)
}
