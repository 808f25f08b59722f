package usecase

import (
	"context"

	"github.com/runoshun/crew-talk/internal/domain"
)

// EditCommentInput contains the parameters for editing a comment.
// Fields are ordered to minimize memory padding.
type EditCommentInput struct {
	Actor     domain.Actor // Editor (must own the comment)
	CommentID string       // Comment to edit (required)
	Text      string       // Replacement text (required)
}

// EditCommentOutput contains the result of editing a comment.
type EditCommentOutput struct {
	Comment domain.Comment // The edited comment
}

// EditComment is the use case for editing a comment's text.
type EditComment struct {
	discussion *Discussion
}

// NewEditComment creates a new EditComment use case.
func NewEditComment(discussion *Discussion) *EditComment {
	return &EditComment{discussion: discussion}
}

// Execute replaces the text of a comment owned by the actor.
func (uc *EditComment) Execute(_ context.Context, in EditCommentInput) (*EditCommentOutput, error) {
	if err := requireActor(in.Actor); err != nil {
		return nil, err
	}
	target := domain.CommentTarget(in.CommentID)

	e, err := uc.discussion.Open(in.Actor, "")
	if err != nil {
		return nil, err
	}
	defer e.Close()

	if err := outcomeError(e.BeginEditComment(in.CommentID), target, "edit"); err != nil {
		return nil, err
	}
	res := e.SubmitCompose(in.Text)
	if err := outcomeError(res.Outcome, target, "edit"); err != nil {
		return nil, err
	}

	if err := uc.discussion.Commit(e); err != nil {
		return nil, err
	}

	comment, _ := e.Comment(in.CommentID)
	return &EditCommentOutput{Comment: comment}, nil
}
