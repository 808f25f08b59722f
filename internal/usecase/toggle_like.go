package usecase

import (
	"context"

	"github.com/runoshun/crew-talk/internal/domain"
)

// ToggleLikeInput contains the parameters for toggling a like.
type ToggleLikeInput struct {
	Actor  domain.Actor  // Liking actor (required)
	Target domain.Target // Comment or reply
}

// ToggleLikeOutput contains the like state after the toggle.
type ToggleLikeOutput struct {
	Count int  // Like count after the toggle
	Liked bool // True if the actor now likes the entry
}

// ToggleLike is the use case for liking and unliking entries.
type ToggleLike struct {
	discussion *Discussion
}

// NewToggleLike creates a new ToggleLike use case.
func NewToggleLike(discussion *Discussion) *ToggleLike {
	return &ToggleLike{discussion: discussion}
}

// Execute flips the actor's like on the target.
func (uc *ToggleLike) Execute(_ context.Context, in ToggleLikeInput) (*ToggleLikeOutput, error) {
	if err := requireActor(in.Actor); err != nil {
		return nil, err
	}

	e, err := uc.discussion.Open(in.Actor, "")
	if err != nil {
		return nil, err
	}
	defer e.Close()

	if err := outcomeError(e.ToggleLike(in.Target), in.Target, "like"); err != nil {
		return nil, err
	}
	if err := uc.discussion.Commit(e); err != nil {
		return nil, err
	}

	out := &ToggleLikeOutput{}
	if c, ok := e.Comment(in.Target.CommentID); ok {
		if in.Target.IsReply() {
			if r := c.Reply(in.Target.ReplyID); r != nil {
				out.Count, out.Liked = r.LikeCount, r.LikedBySelf
			}
		} else {
			out.Count, out.Liked = c.LikeCount, c.LikedBySelf
		}
	}
	return out, nil
}
