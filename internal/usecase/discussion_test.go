package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/testutil"
)

var (
	alice = domain.Actor{ID: "u1", DisplayName: "alice"}
	bob   = domain.Actor{ID: "u2", DisplayName: "bob"}
	host  = domain.Actor{ID: "host", DisplayName: "Host"}
)

// seedData returns a small discussion: c1 by alice with a reply by bob,
// c2 by bob in faqs.
func seedData() []domain.Comment {
	return []domain.Comment{
		{
			ID: "c1", AuthorID: "u1", AuthorHandle: "alice", Text: "First!",
			Replies: []domain.Reply{{ID: "r1", AuthorID: "u2", AuthorHandle: "bob", Text: "Welcome"}},
		},
		{ID: "c2", AuthorID: "u2", AuthorHandle: "bob", Text: "How do I join?", Tab: domain.TabFAQs},
	}
}

func newTestDiscussion(t *testing.T, seed ...domain.Comment) (*Discussion, *testutil.MockCommentRepository) {
	t.Helper()
	repo := testutil.NewMockCommentRepository(seed...)
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)}
	d := NewDiscussion(repo, &testutil.SequenceIDs{}, clock, &testutil.MockLogger{}, domain.HostList{"host"}, nil)
	return d, repo
}

func TestDiscussion_Tabs(t *testing.T) {
	d, _ := newTestDiscussion(t)
	assert.Equal(t, domain.DefaultTabs(), d.Tabs())
	assert.True(t, d.HasTab(""))
	assert.True(t, d.HasTab(domain.TabQA))
	assert.False(t, d.HasTab("news"))

	custom := NewDiscussion(testutil.NewMockCommentRepository(), &testutil.SequenceIDs{}, nil, nil, nil,
		[]domain.Tab{"news", domain.TabComments})
	assert.True(t, custom.HasTab("news"))
	assert.False(t, custom.HasTab(domain.TabFAQs))
}

func TestDiscussion_CommitOnlyWhenDirty(t *testing.T) {
	d, repo := newTestDiscussion(t, seedData()...)

	e, err := d.Open(alice, "")
	require.NoError(t, err)
	require.NoError(t, d.Commit(e))
	assert.Equal(t, 0, repo.SaveCalls)

	require.True(t, e.ToggleLike(domain.CommentTarget("c2")).OK())
	require.NoError(t, d.Commit(e))
	assert.Equal(t, 1, repo.SaveCalls)
	assert.False(t, e.Dirty())
}

func TestDiscussion_WithAcks(t *testing.T) {
	d, _ := newTestDiscussion(t, seedData()...)
	sched := &testutil.FakeScheduler{}

	live := d.WithAcks(sched, 2*time.Second)
	e, err := live.Open(alice, "")
	require.NoError(t, err)
	require.True(t, e.ToggleLike(domain.CommentTarget("c1")).OK())
	require.Len(t, sched.Pending(), 1)
	assert.Equal(t, 2*time.Second, sched.Pending()[0].Delay)

	// The original discussion keeps acknowledgements without timers.
	plain, err := d.Open(alice, "")
	require.NoError(t, err)
	require.True(t, plain.ToggleLike(domain.CommentTarget("c1")).OK())
	assert.Len(t, sched.Timers(), 1)
}

func TestDiscussion_LoadError(t *testing.T) {
	d, repo := newTestDiscussion(t)
	repo.LoadErr = errors.New("disk on fire")

	_, err := d.Open(alice, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load comments")
}

func TestDiscussion_SaveErrorIsLogged(t *testing.T) {
	d, repo := newTestDiscussion(t, seedData()...)
	repo.SaveErr = errors.New("read-only")

	e, err := d.Open(alice, "")
	require.NoError(t, err)
	require.True(t, e.ToggleLike(domain.CommentTarget("c1")).OK())

	err = d.Commit(e)
	require.ErrorIs(t, err, repo.SaveErr)
	assert.True(t, e.Dirty())
	assert.Equal(t, []string{"store"}, d.logger.(*testutil.MockLogger).Categories("ERROR"))
}

func TestOutcomeError(t *testing.T) {
	tests := []struct {
		name    string
		target  domain.Target
		verb    string
		want    error
		message string
		outcome domain.Outcome
	}{
		{"ok", domain.CommentTarget("c1"), "edit", nil, "", domain.OutcomeOK},
		{"invalid", domain.CommentTarget("c1"), "edit", domain.ErrEmptyText, "edit c1: text cannot be empty", domain.OutcomeInvalid},
		{"comment not found", domain.CommentTarget("c9"), "delete", domain.ErrCommentNotFound, "delete c9: comment not found", domain.OutcomeNotFound},
		{"reply not found", domain.ReplyTarget("c1", "r9"), "edit", domain.ErrReplyNotFound, "edit c1/r9: reply not found", domain.OutcomeNotFound},
		{"denied comment", domain.CommentTarget("c1"), "edit", domain.ErrPermissionDenied, "permission denied: you can only edit your own comments", domain.OutcomeDenied},
		{"denied reply", domain.ReplyTarget("c1", "r1"), "delete", domain.ErrPermissionDenied, "permission denied: you can only delete your own replies", domain.OutcomeDenied},
		{"denied pin", domain.CommentTarget("c1"), "pin", domain.ErrPermissionDenied, "permission denied: only discussion hosts can pin comments", domain.OutcomeDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := outcomeError(tt.outcome, tt.target, tt.verb)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}
