package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/crew-talk/internal/domain"
)

func TestEditCommand_Comment(t *testing.T) {
	c, repo := newTestContainer(t, seedComments()...)

	out, err := runRoot(t, c, "edit", "c1", "First!", "(edited)")

	require.NoError(t, err)
	assert.Equal(t, "Edited c1\n", out)
	assert.Equal(t, "First! (edited)", mustComment(t, repo, "c1").Text)
}

func TestEditCommand_Reply(t *testing.T) {
	c, repo := newTestContainer(t, seedComments()...)

	out, err := runRoot(t, c, "--as", "u2", "edit", "c1/r1", "Welcome aboard")

	require.NoError(t, err)
	assert.Equal(t, "Edited c1/r1\n", out)
	assert.Equal(t, "Welcome aboard", mustComment(t, repo, "c1").Replies[0].Text)
}

func TestEditCommand_Errors(t *testing.T) {
	tests := []struct {
		want    error
		name    string
		message string
		args    []string
	}{
		{domain.ErrPermissionDenied, "not the author", "you can only edit your own comments", []string{"edit", "c3", "mine now"}},
		{domain.ErrPermissionDenied, "reply of someone else", "you can only edit your own replies", []string{"edit", "c1/r1", "mine now"}},
		{domain.ErrCommentNotFound, "missing comment", "", []string{"edit", "zz", "text"}},
		{domain.ErrReplyNotFound, "missing reply", "", []string{"edit", "c1/zz", "text"}},
		{domain.ErrEmptyText, "blank text", "", []string{"edit", "c1", " "}},
		{domain.ErrInvalidTarget, "malformed target", "", []string{"edit", "c1/", "text"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, repo := newTestContainer(t, seedComments()...)

			_, err := runRoot(t, c, tt.args...)

			require.ErrorIs(t, err, tt.want)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
			assert.Equal(t, 0, repo.SaveCalls)
		})
	}
}

func TestRmCommand_Comment(t *testing.T) {
	c, repo := newTestContainer(t, seedComments()...)

	out, err := runRoot(t, c, "rm", "c1")

	require.NoError(t, err)
	assert.Equal(t, "Deleted comment c1 (1 reply)\n", out)
	assert.Len(t, repo.Comments, 2)
}

func TestRmCommand_Reply(t *testing.T) {
	c, repo := newTestContainer(t, seedComments()...)

	out, err := runRoot(t, c, "--as", "u2", "delete", "c1/r1")

	require.NoError(t, err)
	assert.Equal(t, "Deleted reply c1/r1\n", out)
	assert.Empty(t, mustComment(t, repo, "c1").Replies)
}

func TestRmCommand_Denied(t *testing.T) {
	c, repo := newTestContainer(t, seedComments()...)

	_, err := runRoot(t, c, "rm", "c2")

	require.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Contains(t, err.Error(), "you can only delete your own comments")
	assert.Len(t, repo.Comments, 3)
}

func TestLikeCommand_Toggles(t *testing.T) {
	c, repo := newTestContainer(t, seedComments()...)

	out, err := runRoot(t, c, "like", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Liked c1 (3 likes)\n", out)
	assert.Equal(t, []string{"u1"}, mustComment(t, repo, "c1").LikedBy)

	out, err = runRoot(t, c, "like", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Unliked c1 (2 likes)\n", out)
	assert.Empty(t, mustComment(t, repo, "c1").LikedBy)
}

func TestLikeCommand_Reply(t *testing.T) {
	c, repo := newTestContainer(t, seedComments()...)

	out, err := runRoot(t, c, "like", "c1/r1")

	require.NoError(t, err)
	assert.Equal(t, "Liked c1/r1 (1 like)\n", out)
	assert.Equal(t, 1, mustComment(t, repo, "c1").Replies[0].LikeCount)
}

func TestLikeCommand_NotFound(t *testing.T) {
	c, _ := newTestContainer(t, seedComments()...)

	_, err := runRoot(t, c, "like", "c1/r9")

	require.ErrorIs(t, err, domain.ErrReplyNotFound)
}

func TestPinCommand(t *testing.T) {
	t.Run("non-host is denied", func(t *testing.T) {
		c, repo := newTestContainer(t, seedComments()...)

		_, err := runRoot(t, c, "pin", "c3")

		require.ErrorIs(t, err, domain.ErrPermissionDenied)
		assert.Contains(t, err.Error(), "only discussion hosts can pin comments")
		assert.False(t, mustComment(t, repo, "c3").Pinned)
	})

	t.Run("configured host pins and unpins", func(t *testing.T) {
		c, repo := newTestContainer(t, seedComments()...)

		out, err := runRoot(t, c, "--as", "host", "pin", "c3")
		require.NoError(t, err)
		assert.Equal(t, "Pinned c3\n", out)
		assert.True(t, mustComment(t, repo, "c3").Pinned)

		out, err = runRoot(t, c, "--as", "host", "pin", "c3")
		require.NoError(t, err)
		assert.Equal(t, "Unpinned c3\n", out)
	})

	t.Run("host flag", func(t *testing.T) {
		c, repo := newTestContainer(t, seedComments()...)

		_, err := runRoot(t, c, "--host", "pin", "c3")

		require.NoError(t, err)
		assert.True(t, mustComment(t, repo, "c3").Pinned)
	})

	t.Run("replies cannot be pinned", func(t *testing.T) {
		c, _ := newTestContainer(t, seedComments()...)

		_, err := runRoot(t, c, "--host", "pin", "c1/r1")

		require.ErrorIs(t, err, domain.ErrInvalidTarget)
	})
}
