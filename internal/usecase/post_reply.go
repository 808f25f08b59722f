package usecase

import (
	"context"

	"github.com/runoshun/crew-talk/internal/domain"
)

// PostReplyInput contains the parameters for replying to a comment.
// Fields are ordered to minimize memory padding.
type PostReplyInput struct {
	Actor     domain.Actor // Author (required)
	CommentID string       // Parent comment (required)
	Text      string       // Reply text (required)
}

// PostReplyOutput contains the result of posting a reply.
type PostReplyOutput struct {
	Reply   domain.Reply   // The created reply
	Comment domain.Comment // Parent comment after the reply was appended
}

// PostReply is the use case for replying to a comment.
type PostReply struct {
	discussion *Discussion
}

// NewPostReply creates a new PostReply use case.
func NewPostReply(discussion *Discussion) *PostReply {
	return &PostReply{discussion: discussion}
}

// Execute appends a reply to the comment.
func (uc *PostReply) Execute(_ context.Context, in PostReplyInput) (*PostReplyOutput, error) {
	if err := requireActor(in.Actor); err != nil {
		return nil, err
	}
	target := domain.CommentTarget(in.CommentID)

	e, err := uc.discussion.Open(in.Actor, "")
	if err != nil {
		return nil, err
	}
	defer e.Close()

	if err := outcomeError(e.BeginReply(in.CommentID), target, "reply to"); err != nil {
		return nil, err
	}
	res := e.SubmitCompose(in.Text)
	if err := outcomeError(res.Outcome, target, "reply to"); err != nil {
		return nil, err
	}

	if err := uc.discussion.Commit(e); err != nil {
		return nil, err
	}

	comment, _ := e.Comment(in.CommentID)
	out := &PostReplyOutput{Comment: comment}
	if r := comment.Reply(res.Target.ReplyID); r != nil {
		out.Reply = *r
	}
	return out, nil
}
