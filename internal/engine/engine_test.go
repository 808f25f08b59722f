package engine

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/testutil"
)

func newTestEngine(t *testing.T, actor domain.Actor, seed ...domain.Comment) (*Engine, *testutil.FakeScheduler, *testutil.MockLogger) {
	t.Helper()
	sched := &testutil.FakeScheduler{}
	logger := &testutil.MockLogger{}
	e, err := New(Options{
		Actor:      actor,
		Moderation: domain.HostList{"host"},
		Seed:       seed,
		Clock:      &testutil.MockClock{NowTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		IDs:        &testutil.SequenceIDs{},
		Scheduler:  sched,
		AckDelay:   2 * time.Second,
		Logger:     logger,
	})
	require.NoError(t, err)
	return e, sched, logger
}

func TestNew_RequiresIDs(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	e, _, _ := newTestEngine(t, u1)
	assert.Equal(t, domain.TabComments, e.ActiveTab())
	assert.Equal(t, domain.FilterAll, e.Filter())
	assert.Equal(t, domain.DefaultTabs(), e.Tabs())
	assert.True(t, e.Intent().IsIdle())
	assert.False(t, e.Menu().IsOpen())
	assert.False(t, e.Dirty())
	assert.Empty(t, e.Visible())
}

func TestNew_AddsInitialTabToTabs(t *testing.T) {
	e, err := New(Options{
		IDs:        &testutil.SequenceIDs{},
		InitialTab: "announcements",
		Tabs:       []domain.Tab{domain.TabComments, domain.TabComments, ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Tab{domain.TabComments, "announcements"}, e.Tabs())
}

func TestEngine_CreateTopLevelThenLike(t *testing.T) {
	e, _, _ := newTestEngine(t, u1)

	res := e.CreateTopLevel("Great talk!")
	require.True(t, res.Outcome.OK())

	visible := e.VisibleThread(domain.TabComments, domain.FilterAll)
	require.Len(t, visible, 1)
	assert.Equal(t, "Great talk!", visible[0].Text)
	assert.False(t, visible[0].Pinned)
	assert.Equal(t, 0, visible[0].LikeCount)
	assert.True(t, e.Intent().IsIdle())
	assert.True(t, e.Dirty())

	target := domain.CommentTarget(visible[0].ID)
	require.True(t, e.ToggleLike(target).OK())
	c, _ := e.Comment(target.CommentID)
	assert.Equal(t, 1, c.LikeCount)
	assert.True(t, c.LikedBySelf)

	require.True(t, e.ToggleLike(target).OK())
	c, _ = e.Comment(target.CommentID)
	assert.Equal(t, 0, c.LikeCount)
	assert.False(t, c.LikedBySelf)
}

func TestEngine_CreateTopLevelEmptyIsNoop(t *testing.T) {
	e, _, _ := newTestEngine(t, u1)
	e.BeginReply("missing")

	res := e.CreateTopLevel("   ")
	assert.False(t, res.Dispatched)
	assert.Empty(t, e.Snapshot())
	assert.False(t, e.Dirty())
}

func TestEngine_PinReorders(t *testing.T) {
	e, _, _ := newTestEngine(t, host,
		seedComment("c1", "u1", domain.TabComments),
		seedComment("c2", "u2", domain.TabComments),
	)

	require.True(t, e.TogglePin("c2").OK())
	assert.Equal(t, []string{"c2", "c1"}, ids(e.Visible()))

	acks := e.Acks().Active()
	require.Len(t, acks, 1)
	assert.Equal(t, AckPinned, acks[0].Kind)
}

func TestEngine_PinRequiresHost(t *testing.T) {
	e, _, logger := newTestEngine(t, u1, seedComment("c1", "u1", domain.TabComments))

	assert.Equal(t, domain.OutcomeDenied, e.TogglePin("c1"))
	c, _ := e.Comment("c1")
	assert.False(t, c.Pinned)
	assert.False(t, e.Dirty())
	assert.Contains(t, logger.Categories("DEBUG"), "pin")
}

func TestEngine_SubmitAfterCancelIsNoop(t *testing.T) {
	e, _, _ := newTestEngine(t, u1, seedComment("c1", "u1", domain.TabComments))
	before := e.Snapshot()

	require.True(t, e.BeginEditComment("c1").OK())
	e.CancelCompose()
	res := e.SubmitCompose("x")

	assert.False(t, res.Dispatched)
	assert.Equal(t, before, e.Snapshot())
	assert.False(t, e.Dirty())
}

func TestEngine_DeleteByOtherActorDenied(t *testing.T) {
	e, _, _ := newTestEngine(t, u2, seedComment("c1", "u1", domain.TabComments))
	before := e.Snapshot()

	assert.Equal(t, domain.OutcomeDenied, e.DeleteComment("c1"))
	assert.Equal(t, before, e.Snapshot())
}

func TestEngine_TabIsolation(t *testing.T) {
	e, _, _ := newTestEngine(t, u1)
	require.NoError(t, e.SetActiveTab(domain.TabFAQs))

	res := e.CreateTopLevel("How do I register?")
	require.True(t, res.Outcome.OK())

	for _, f := range domain.AllFilters() {
		assert.Empty(t, e.VisibleThread(domain.TabComments, f))
	}
	assert.Len(t, e.VisibleThread(domain.TabFAQs, domain.FilterAll), 1)
}

func TestEngine_SetActiveTabUnknown(t *testing.T) {
	e, _, _ := newTestEngine(t, u1)
	require.ErrorIs(t, e.SetActiveTab("nope"), domain.ErrUnknownTab)
	assert.Equal(t, domain.TabComments, e.ActiveTab())
}

func TestEngine_SetActiveTabClosesMenu(t *testing.T) {
	e, _, _ := newTestEngine(t, u1)
	require.True(t, e.OpenMenu(domain.FilterMenu()).OK())
	require.NoError(t, e.SetActiveTab(domain.TabQA))
	assert.False(t, e.Menu().IsOpen())

	e.OpenMenu(domain.FilterMenu())
	assert.Equal(t, domain.TabComments, e.CycleTab(1))
	assert.False(t, e.Menu().IsOpen())
}

func TestEngine_SetFilter(t *testing.T) {
	verified := seedComment("c2", "u2", domain.TabComments)
	verified.Verified = true
	e, _, _ := newTestEngine(t, u1, seedComment("c1", "u1", domain.TabComments), verified)

	require.NoError(t, e.SetFilter(domain.FilterVerifiedOnly))
	assert.Equal(t, []string{"c2"}, ids(e.Visible()))
	require.ErrorIs(t, e.SetFilter("bogus"), domain.ErrInvalidFilter)
	assert.Equal(t, domain.FilterVerifiedOnly, e.Filter())
	require.NoError(t, e.SetFilter(""))
	assert.Equal(t, domain.FilterAll, e.Filter())
}

func TestEngine_SingleLiveIntent(t *testing.T) {
	seed := seedComment("c1", "u1", domain.TabComments)
	seed.Replies = []domain.Reply{{ID: "r1", AuthorID: "u1", Text: "reply"}}
	e, _, _ := newTestEngine(t, u1, seed, seedComment("c2", "u1", domain.TabComments))

	rng := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		switch rng.IntN(5) {
		case 0:
			e.BeginReply([]string{"c1", "c2", "missing"}[rng.IntN(3)])
		case 1:
			e.BeginEditComment([]string{"c1", "c2"}[rng.IntN(2)])
		case 2:
			e.BeginEditReply("c1", "r1")
		case 3:
			e.BeginNew()
		case 4:
			e.CancelCompose()
		}
		intent := e.Intent()
		switch intent.Kind {
		case domain.IntentIdle, domain.IntentComposingNew:
			assert.Empty(t, intent.CommentID)
			assert.Empty(t, intent.ReplyID)
		case domain.IntentReplyingTo, domain.IntentEditingComment:
			assert.NotEmpty(t, intent.CommentID)
			assert.Empty(t, intent.ReplyID)
		case domain.IntentEditingReply:
			assert.Equal(t, "c1", intent.CommentID)
			assert.Equal(t, "r1", intent.ReplyID)
		}
	}
}

func TestEngine_BeginTransitionsReplacePrevious(t *testing.T) {
	seed := seedComment("c1", "u1", domain.TabComments)
	seed.Replies = []domain.Reply{{ID: "r1", AuthorID: "u1", Text: "reply"}}
	e, _, _ := newTestEngine(t, u1, seed)

	require.True(t, e.BeginReply("c1").OK())
	require.True(t, e.BeginEditReply("c1", "r1").OK())
	assert.Equal(t, domain.EditingReplyIntent("c1", "r1"), e.Intent())
	assert.Equal(t, "reply", e.Buffer())

	res := e.SubmitCompose("edited reply")
	require.True(t, res.Outcome.OK())
	r, _ := e.store.Reply("c1", "r1")
	assert.Equal(t, "edited reply", r.Text)
	c, _ := e.Comment("c1")
	assert.Len(t, c.Replies, 1)
}

func TestEngine_BeginEditGuards(t *testing.T) {
	seed := seedComment("c1", "u2", domain.TabComments)
	seed.Replies = []domain.Reply{{ID: "r1", AuthorID: "u2"}}
	e, _, _ := newTestEngine(t, u1, seed)

	assert.Equal(t, domain.OutcomeDenied, e.BeginEditComment("c1"))
	assert.Equal(t, domain.OutcomeDenied, e.BeginEditReply("c1", "r1"))
	assert.Equal(t, domain.OutcomeNotFound, e.BeginEditComment("c9"))
	assert.Equal(t, domain.OutcomeNotFound, e.BeginEditReply("c1", "r9"))
	assert.Equal(t, domain.OutcomeNotFound, e.BeginReply("c9"))
	assert.True(t, e.Intent().IsIdle())
}

func TestEngine_ReplyFlow(t *testing.T) {
	e, sched, _ := newTestEngine(t, u2, seedComment("c1", "u1", domain.TabComments))

	require.True(t, e.BeginReply("c1").OK())
	assert.Equal(t, "Reply to @u1…", e.Placeholder())
	res := e.SubmitCompose("thanks!")
	require.True(t, res.Outcome.OK())
	assert.True(t, res.Target.IsReply())
	assert.Equal(t, "Add a comment…", e.Placeholder())

	ack, ok := e.Acks().Get(res.Target)
	require.True(t, ok)
	assert.Equal(t, AckReplied, ack.Kind)

	sched.FireAll()
	assert.Empty(t, e.Acks().Active())
}

func TestEngine_DeleteResetsComposerAndMenu(t *testing.T) {
	e, _, _ := newTestEngine(t, u1, seedComment("c1", "u1", domain.TabComments))

	require.True(t, e.BeginReply("c1").OK())
	require.True(t, e.OpenMenu(domain.CommentMenu("c1")).OK())
	require.True(t, e.DeleteComment("c1").OK())

	assert.True(t, e.Intent().IsIdle())
	assert.False(t, e.Menu().IsOpen())
	assert.Empty(t, e.Visible())
}

func TestEngine_DeleteReplyResetsEdit(t *testing.T) {
	seed := seedComment("c1", "u2", domain.TabComments)
	seed.Replies = []domain.Reply{{ID: "r1", AuthorID: "u1", Text: "mine"}}
	e, _, _ := newTestEngine(t, u1, seed)

	require.True(t, e.BeginEditReply("c1", "r1").OK())
	require.True(t, e.DeleteReply("c1", "r1").OK())
	assert.True(t, e.Intent().IsIdle())
	c, _ := e.Comment("c1")
	assert.Empty(t, c.Replies)
}

func TestEngine_MenuActions(t *testing.T) {
	seed := seedComment("c1", "u1", domain.TabComments)
	seed.Replies = []domain.Reply{{ID: "r1", AuthorID: "u2"}}
	e, _, _ := newTestEngine(t, u1, seed)

	assert.Equal(t, domain.OutcomeNotFound, e.OpenMenu(domain.CommentMenu("c9")))
	assert.Equal(t, domain.OutcomeNotFound, e.OpenMenu(domain.ReplyMenu("c1", "r9")))

	require.True(t, e.OpenMenu(domain.CommentMenu("c1")).OK())
	assert.Equal(t, []domain.MenuAction{domain.ActionReply, domain.ActionLike, domain.ActionEdit, domain.ActionDelete}, e.MenuItems())
	assert.Equal(t, domain.OutcomeDenied, e.SelectMenuAction(domain.ActionPin))

	require.True(t, e.SelectMenuAction(domain.ActionEdit).OK())
	assert.Equal(t, domain.EditingCommentIntent("c1"), e.Intent())
	assert.False(t, e.Menu().IsOpen())

	require.True(t, e.OpenMenu(domain.ReplyMenu("c1", "r1")).OK())
	assert.Equal(t, []domain.MenuAction{domain.ActionLike}, e.MenuItems())
	assert.Equal(t, domain.EditingCommentIntent("c1"), e.Intent())
	require.True(t, e.SelectMenuAction(domain.ActionLike).OK())
	r, _ := e.store.Reply("c1", "r1")
	assert.True(t, r.LikedBySelf)
}

func TestEngine_OpenMenuTwiceStaysOpen(t *testing.T) {
	e, _, _ := newTestEngine(t, u1, seedComment("c1", "u1", domain.TabComments))

	require.True(t, e.OpenMenu(domain.CommentMenu("c1")).OK())
	assert.Equal(t, domain.OutcomeOK, e.OpenMenu(domain.CommentMenu("c1")))
	assert.True(t, e.Menu().IsOpen())
	assert.Equal(t, domain.CommentMenu("c1"), e.Menu())
}

func TestEngine_MenuPinKeepsComposer(t *testing.T) {
	e, _, _ := newTestEngine(t, host, seedComment("c1", "u1", domain.TabComments))
	e.BeginNew()

	require.True(t, e.OpenMenu(domain.CommentMenu("c1")).OK())
	e.MoveMenuCursor(10)
	items := e.MenuItems()
	assert.Equal(t, domain.ActionPin, items[e.MenuCursor()])
	require.True(t, e.SelectHighlighted().OK())

	c, _ := e.Comment("c1")
	assert.True(t, c.Pinned)
	assert.Equal(t, domain.ComposingNewIntent(), e.Intent())
}

func TestEngine_FilterMenu(t *testing.T) {
	e, _, _ := newTestEngine(t, u1)

	assert.Equal(t, domain.OutcomeDenied, e.SelectFilter(domain.FilterLikedBySelf))
	require.True(t, e.OpenMenu(domain.FilterMenu()).OK())
	e.MoveMenuCursor(2)
	require.True(t, e.SelectHighlighted().OK())
	assert.Equal(t, domain.FilterLikedBySelf, e.Filter())
	assert.False(t, e.Menu().IsOpen())

	e.OpenMenu(domain.FilterMenu())
	assert.True(t, e.DismissMenu())
	assert.False(t, e.DismissMenu())
}

func TestEngine_DeniedEditKeepsBuffer(t *testing.T) {
	e, _, _ := newTestEngine(t, u1, seedComment("c1", "u1", domain.TabComments))
	require.True(t, e.BeginEditComment("c1").OK())

	res := e.SubmitCompose("  ")
	assert.False(t, res.Dispatched)
	assert.Equal(t, domain.EditingCommentIntent("c1"), e.Intent())
}

func TestEngine_PostWithDonation(t *testing.T) {
	e, _, _ := newTestEngine(t, u1)
	c, outcome := e.PostWithDonation(domain.TabTestimonials, "Loved it", 10)
	require.True(t, outcome.OK())
	require.NoError(t, e.SetActiveTab(domain.TabTestimonials))
	require.NoError(t, e.SetFilter(domain.FilterHasDonation))
	assert.Equal(t, []string{c.ID}, ids(e.Visible()))
}

func TestEngine_TabStats(t *testing.T) {
	e, _, _ := newTestEngine(t, u1,
		seedComment("c1", "u1", domain.TabComments),
		seedComment("c2", "u1", domain.TabFAQs),
	)
	stats := e.TabStats()
	require.Len(t, stats, 4)
	assert.Equal(t, 1, stats[0].Comments)
	assert.Equal(t, domain.TabFAQs, stats[2].Tab)
	assert.Equal(t, 1, stats[2].Comments)
}

func TestEngine_MarkClean(t *testing.T) {
	e, _, logger := newTestEngine(t, u1)
	e.CreateTopLevel("hello")
	assert.True(t, e.Dirty())
	e.MarkClean()
	assert.False(t, e.Dirty())
	assert.Equal(t, []string{"comment"}, logger.Categories("INFO"))
}

func TestEngine_CloseCancelsAcks(t *testing.T) {
	e, sched, _ := newTestEngine(t, u1)
	e.CreateTopLevel("hello")
	require.Len(t, sched.Pending(), 1)

	e.Close()
	assert.Empty(t, sched.Pending())
	assert.Empty(t, e.Acks().Active())
}
