package tui

import (
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/crew-talk/internal/app"
	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/testutil"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// seedComments returns c1 by alice (u1) with a reply by bob (u2),
// a verified testimonial with a donation by bob, and a FAQ by carol.
func seedComments() []domain.Comment {
	donation := 5.0
	return []domain.Comment{
		{
			ID: "c1", AuthorID: "u1", AuthorHandle: "alice", Text: "First!",
			Created: testNow.Add(-2 * time.Hour), LikeCount: 2,
			Replies: []domain.Reply{{ID: "r1", AuthorID: "u2", AuthorHandle: "bob", Text: "Welcome", CreatedLabel: "Feb 28, 2026 09:00"}},
		},
		{
			ID: "c2", AuthorID: "u2", AuthorHandle: "bob", Text: "Worth it", Tab: domain.TabTestimonials,
			Verified: true, Donation: &donation,
		},
		{ID: "c3", AuthorID: "u3", AuthorHandle: "carol", Text: "Is there a recording?", Tab: domain.TabFAQs},
	}
}

// newTestContainer creates a container over an in-memory repository,
// acting as alice.
func newTestContainer(t *testing.T, seed ...domain.Comment) (*app.Container, *testutil.MockCommentRepository) {
	t.Helper()
	repo := testutil.NewMockCommentRepository(seed...)
	cfg := domain.NewDefaultConfig()
	cfg.Identity = domain.Actor{ID: "u1", DisplayName: "alice"}
	cfg.Discussion.Hosts = []string{"host"}
	cfg.Discussion.AckDelay = time.Hour
	c := app.NewWithDeps(app.Config{TalkDir: t.TempDir()}, cfg, repo, &testutil.MockStoreInitializer{},
		&testutil.MockClock{NowTime: testNow}, &testutil.SequenceIDs{}, nil)
	return c, repo
}

// newTestModel opens a sized model over the seed data.
func newTestModel(t *testing.T, seed ...domain.Comment) (*Model, *testutil.MockCommentRepository) {
	t.Helper()
	c, repo := newTestContainer(t, seed...)
	return openModel(t, c), repo
}

func openModel(t *testing.T, c *app.Container) *Model {
	t.Helper()
	m, err := New(c)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 100})
	return m
}

// press feeds keys to the model one at a time.
func press(m *Model, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keyUp       = tea.KeyMsg{Type: tea.KeyUp}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keySpace    = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func mustComment(t *testing.T, repo *testutil.MockCommentRepository, id string) domain.Comment {
	t.Helper()
	for _, c := range repo.Comments {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("comment %q not found", id)
	return domain.Comment{}
}
