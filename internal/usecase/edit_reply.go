package usecase

import (
	"context"

	"github.com/runoshun/crew-talk/internal/domain"
)

// EditReplyInput contains the parameters for editing a reply.
// Fields are ordered to minimize memory padding.
type EditReplyInput struct {
	Actor     domain.Actor // Editor (must own the reply)
	CommentID string       // Parent comment (required)
	ReplyID   string       // Reply to edit (required)
	Text      string       // Replacement text (required)
}

// EditReplyOutput contains the result of editing a reply.
type EditReplyOutput struct {
	Reply domain.Reply // The edited reply
}

// EditReply is the use case for editing a reply's text.
type EditReply struct {
	discussion *Discussion
}

// NewEditReply creates a new EditReply use case.
func NewEditReply(discussion *Discussion) *EditReply {
	return &EditReply{discussion: discussion}
}

// Execute replaces the text of a reply owned by the actor.
func (uc *EditReply) Execute(_ context.Context, in EditReplyInput) (*EditReplyOutput, error) {
	if err := requireActor(in.Actor); err != nil {
		return nil, err
	}
	target := domain.ReplyTarget(in.CommentID, in.ReplyID)

	e, err := uc.discussion.Open(in.Actor, "")
	if err != nil {
		return nil, err
	}
	defer e.Close()

	if err := outcomeError(e.BeginEditReply(in.CommentID, in.ReplyID), target, "edit"); err != nil {
		return nil, err
	}
	res := e.SubmitCompose(in.Text)
	if err := outcomeError(res.Outcome, target, "edit"); err != nil {
		return nil, err
	}

	if err := uc.discussion.Commit(e); err != nil {
		return nil, err
	}

	out := &EditReplyOutput{}
	if c, ok := e.Comment(in.CommentID); ok {
		if r := c.Reply(in.ReplyID); r != nil {
			out.Reply = *r
		}
	}
	return out, nil
}
