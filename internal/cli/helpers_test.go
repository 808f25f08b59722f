package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/crew-talk/internal/app"
	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/testutil"
)

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
	c := app.NewWithDeps(app.Config{TalkDir: t.TempDir()}, cfg, repo, &testutil.MockStoreInitializer{},
		&testutil.MockClock{NowTime: testNow}, &testutil.SequenceIDs{}, nil)
	return c, repo
}

// runCommand executes cmd with args and returns stdout.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// runRoot executes the root command so global flags apply.
func runRoot(t *testing.T, c *app.Container, args ...string) (string, error) {
	t.Helper()
	return runCommand(t, NewRootCommand(c, "test"), args...)
}

// runRootWithStdin executes the root command reading stdin from input.
func runRootWithStdin(t *testing.T, c *app.Container, input string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(c, "test")
	root.SetIn(strings.NewReader(input))
	return runCommand(t, root, args...)
}

func mustComment(t *testing.T, repo *testutil.MockCommentRepository, id string) domain.Comment {
	t.Helper()
	for _, c := range repo.Comments {
		if c.ID == id {
			return c
		}
	}
	require.FailNow(t, "comment not found", id)
	return domain.Comment{}
}
