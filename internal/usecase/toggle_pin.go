package usecase

import (
	"context"

	"github.com/runoshun/crew-talk/internal/domain"
)

// TogglePinInput contains the parameters for pinning or unpinning a comment.
type TogglePinInput struct {
	Actor     domain.Actor // Acting host (required)
	CommentID string       // Comment to pin (required)
	Host      bool         // Grants the host role for this invocation
}

// TogglePinOutput contains the pin state after the toggle.
type TogglePinOutput struct {
	Pinned bool
}

// TogglePin is the use case for pinning and unpinning comments.
type TogglePin struct {
	discussion *Discussion
}

// NewTogglePin creates a new TogglePin use case.
func NewTogglePin(discussion *Discussion) *TogglePin {
	return &TogglePin{discussion: discussion}
}

// Execute flips the pinned flag of a comment. Only hosts may pin.
func (uc *TogglePin) Execute(_ context.Context, in TogglePinInput) (*TogglePinOutput, error) {
	if err := requireActor(in.Actor); err != nil {
		return nil, err
	}

	e, err := uc.discussion.Open(in.Actor, "", domain.FixedModeration(in.Host))
	if err != nil {
		return nil, err
	}
	defer e.Close()

	if err := outcomeError(e.TogglePin(in.CommentID), domain.CommentTarget(in.CommentID), "pin"); err != nil {
		return nil, err
	}
	if err := uc.discussion.Commit(e); err != nil {
		return nil, err
	}

	c, _ := e.Comment(in.CommentID)
	return &TogglePinOutput{Pinned: c.Pinned}, nil
}
