package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runoshun/crew-talk/internal/domain"
)

func ids(comments []domain.Comment) []string {
	out := make([]string, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.ID)
	}
	return out
}

func TestVisibleThread_PinnedFirstStable(t *testing.T) {
	comments := []domain.Comment{
		{ID: "a", Tab: domain.TabComments},
		{ID: "b", Tab: domain.TabComments, Pinned: true},
		{ID: "c", Tab: domain.TabComments},
		{ID: "d", Tab: domain.TabComments, Pinned: true},
		{ID: "e", Tab: domain.TabComments},
	}
	got := VisibleThread(comments, domain.TabComments, domain.FilterAll)
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ids(got))
}

func TestVisibleThread_TabIsolation(t *testing.T) {
	comments := []domain.Comment{
		{ID: "default"},
		{ID: "faq", Tab: domain.TabFAQs},
		{ID: "comment", Tab: domain.TabComments},
	}
	for _, f := range domain.AllFilters() {
		got := VisibleThread(comments, domain.TabComments, f)
		assert.NotContains(t, ids(got), "faq", "filter %s", f)
	}
	assert.Equal(t, []string{"default", "comment"}, ids(VisibleThread(comments, domain.TabComments, domain.FilterAll)))
	assert.Equal(t, []string{"faq"}, ids(VisibleThread(comments, domain.TabFAQs, domain.FilterAll)))
	assert.Equal(t, []string{"default", "comment"}, ids(VisibleThread(comments, "", domain.FilterAll)))
}

func TestVisibleThread_Filters(t *testing.T) {
	amount := 3.5
	negative := -1.0
	comments := []domain.Comment{
		{ID: "plain"},
		{ID: "verified", Verified: true},
		{ID: "liked", LikedBySelf: true},
		{ID: "donated", Donation: &amount},
		{ID: "refund", Donation: &negative},
	}
	tests := []struct {
		filter domain.Filter
		want   []string
	}{
		{domain.FilterAll, []string{"plain", "verified", "liked", "donated", "refund"}},
		{domain.FilterVerifiedOnly, []string{"verified"}},
		{domain.FilterLikedBySelf, []string{"liked"}},
		{domain.FilterHasDonation, []string{"donated"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(VisibleThread(comments, domain.TabComments, tt.filter)))
		})
	}
}

func TestVisibleThread_RepliesAreNotFiltered(t *testing.T) {
	comments := []domain.Comment{{
		ID:       "c1",
		Verified: true,
		Replies:  []domain.Reply{{ID: "r1"}, {ID: "r2", Verified: true}},
	}}
	got := VisibleThread(comments, domain.TabComments, domain.FilterVerifiedOnly)
	assert.Len(t, got, 1)
	assert.Len(t, got[0].Replies, 2)
}

func TestVisibleThread_DoesNotMutateInput(t *testing.T) {
	comments := []domain.Comment{
		{ID: "a"},
		{ID: "b", Pinned: true, Replies: []domain.Reply{{ID: "r1", Text: "orig"}}},
	}
	got := VisibleThread(comments, domain.TabComments, domain.FilterAll)
	got[0].Replies[0].Text = "changed"

	assert.Equal(t, "a", comments[0].ID)
	assert.Equal(t, "orig", comments[1].Replies[0].Text)
	assert.Empty(t, VisibleThread(nil, domain.TabComments, domain.FilterAll))
}
