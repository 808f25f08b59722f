package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/crew-talk/internal/domain"
)

// PostCommentInput contains the parameters for posting a top-level comment.
// Fields are ordered to minimize memory padding.
type PostCommentInput struct {
	Actor    domain.Actor // Author (required)
	Tab      domain.Tab   // Target tab (empty = default tab)
	Text     string       // Comment text (required)
	Donation float64      // Optional donation amount (0 = none)
}

// PostCommentOutput contains the result of posting a comment.
type PostCommentOutput struct {
	Comment domain.Comment // The created comment
}

// PostComment is the use case for posting a top-level comment.
type PostComment struct {
	discussion *Discussion
}

// NewPostComment creates a new PostComment use case.
func NewPostComment(discussion *Discussion) *PostComment {
	return &PostComment{discussion: discussion}
}

// Execute posts a comment.
func (uc *PostComment) Execute(_ context.Context, in PostCommentInput) (*PostCommentOutput, error) {
	if err := requireActor(in.Actor); err != nil {
		return nil, err
	}
	if in.Donation < 0 {
		return nil, domain.ErrInvalidDonation
	}
	if domain.NormalizeText(in.Text) == "" {
		return nil, domain.ErrEmptyText
	}
	tab := in.Tab.Resolve()
	if !uc.discussion.HasTab(tab) {
		return nil, fmt.Errorf("%q: %w", tab, domain.ErrUnknownTab)
	}

	e, err := uc.discussion.Open(in.Actor, tab)
	if err != nil {
		return nil, err
	}
	defer e.Close()

	var id string
	if in.Donation > 0 {
		c, outcome := e.PostWithDonation(tab, in.Text, in.Donation)
		if err := outcomeError(outcome, domain.CommentTarget(c.ID), "post"); err != nil {
			return nil, err
		}
		id = c.ID
	} else {
		res := e.CreateTopLevel(in.Text)
		if err := outcomeError(res.Outcome, res.Target, "post"); err != nil {
			return nil, err
		}
		id = res.Target.CommentID
	}

	if err := uc.discussion.Commit(e); err != nil {
		return nil, err
	}

	comment, _ := e.Comment(id)
	return &PostCommentOutput{Comment: comment}, nil
}
