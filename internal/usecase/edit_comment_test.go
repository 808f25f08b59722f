package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/crew-talk/internal/domain"
)

func TestEditComment_Execute_Success(t *testing.T) {
	d, repo := newTestDiscussion(t, seedData()...)

	out, err := NewEditComment(d).Execute(context.Background(), EditCommentInput{
		Actor:     alice,
		CommentID: "c1",
		Text:      "First! (edited)",
	})

	require.NoError(t, err)
	assert.Equal(t, "First! (edited)", out.Comment.Text)
	assert.Equal(t, "First! (edited)", repo.Comments[0].Text)
	// Replies survive an edit.
	assert.Len(t, repo.Comments[0].Replies, 1)
}

func TestEditComment_Execute_NotOwner(t *testing.T) {
	d, repo := newTestDiscussion(t, seedData()...)

	_, err := NewEditComment(d).Execute(context.Background(), EditCommentInput{
		Actor:     bob,
		CommentID: "c1",
		Text:      "hijacked",
	})

	require.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Equal(t, "First!", repo.Comments[0].Text)
	assert.Equal(t, 0, repo.SaveCalls)
}

func TestEditComment_Execute_SelfAuthoredSeedDenied(t *testing.T) {
	d, repo := newTestDiscussion(t, domain.Comment{ID: "c1", AuthorID: domain.SelfAuthorID, Text: "mine"})

	_, err := NewEditComment(d).Execute(context.Background(), EditCommentInput{
		Actor:     bob,
		CommentID: "c1",
		Text:      "taken over",
	})

	require.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Equal(t, "mine", repo.Comments[0].Text)
	assert.Equal(t, 0, repo.SaveCalls)
}

func TestEditComment_Execute_Errors(t *testing.T) {
	d, _ := newTestDiscussion(t, seedData()...)
	uc := NewEditComment(d)

	_, err := uc.Execute(context.Background(), EditCommentInput{Actor: alice, CommentID: "c9", Text: "x"})
	require.ErrorIs(t, err, domain.ErrCommentNotFound)

	_, err = uc.Execute(context.Background(), EditCommentInput{Actor: alice, CommentID: "c1", Text: " "})
	require.ErrorIs(t, err, domain.ErrEmptyText)

	_, err = uc.Execute(context.Background(), EditCommentInput{CommentID: "c1", Text: "x"})
	require.ErrorIs(t, err, domain.ErrNoActor)
}

func TestEditReply_Execute(t *testing.T) {
	t.Run("owner edits reply", func(t *testing.T) {
		d, repo := newTestDiscussion(t, seedData()...)

		out, err := NewEditReply(d).Execute(context.Background(), EditReplyInput{
			Actor: bob, CommentID: "c1", ReplyID: "r1", Text: "Welcome aboard",
		})

		require.NoError(t, err)
		assert.Equal(t, "Welcome aboard", out.Reply.Text)
		assert.Equal(t, "Welcome aboard", repo.Comments[0].Replies[0].Text)
	})

	t.Run("comment author cannot edit reply", func(t *testing.T) {
		d, _ := newTestDiscussion(t, seedData()...)

		_, err := NewEditReply(d).Execute(context.Background(), EditReplyInput{
			Actor: alice, CommentID: "c1", ReplyID: "r1", Text: "nope",
		})

		require.ErrorIs(t, err, domain.ErrPermissionDenied)
	})

	t.Run("missing reply", func(t *testing.T) {
		d, _ := newTestDiscussion(t, seedData()...)

		_, err := NewEditReply(d).Execute(context.Background(), EditReplyInput{
			Actor: bob, CommentID: "c1", ReplyID: "r9", Text: "x",
		})

		require.ErrorIs(t, err, domain.ErrReplyNotFound)
	})
}
