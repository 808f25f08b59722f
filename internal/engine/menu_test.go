package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runoshun/crew-talk/internal/domain"
)

func TestMenu_SingleOpen(t *testing.T) {
	var m Menu
	assert.False(t, m.Current().IsOpen())

	m.Open(domain.CommentMenu("c1"))
	m.Open(domain.ReplyMenu("c1", "r1"))
	assert.Equal(t, domain.ReplyMenu("c1", "r1"), m.Current())
	assert.False(t, m.IsOpen(domain.CommentMenu("c1")))

	m.Open(domain.FilterMenu())
	assert.True(t, m.IsOpen(domain.FilterMenu()))
	assert.False(t, m.IsOpen(domain.ReplyMenu("c1", "r1")))
}

func TestMenu_ReopenKeepsOpen(t *testing.T) {
	var m Menu
	m.Open(domain.CommentMenu("c1"))
	m.Move(2, 4)
	m.Open(domain.CommentMenu("c1"))
	assert.True(t, m.IsOpen(domain.CommentMenu("c1")))
	assert.Equal(t, 0, m.Cursor())
}

func TestMenu_Dismiss(t *testing.T) {
	var m Menu
	assert.False(t, m.Dismiss())

	m.Open(domain.FilterMenu())
	assert.True(t, m.Dismiss())
	assert.False(t, m.Current().IsOpen())
}

func TestMenu_Move(t *testing.T) {
	var m Menu
	m.Open(domain.CommentMenu("c1"))
	m.Move(1, 3)
	m.Move(1, 3)
	m.Move(1, 3)
	assert.Equal(t, 2, m.Cursor())
	m.Move(-5, 3)
	assert.Equal(t, 0, m.Cursor())

	m.Move(1, 3)
	m.Open(domain.ReplyMenu("c1", "r1"))
	assert.Equal(t, 0, m.Cursor())
}

func TestActionItems(t *testing.T) {
	tests := []struct {
		name   string
		ref    domain.MenuRef
		owned  bool
		canPin bool
		want   []domain.MenuAction
	}{
		{"foreign comment", domain.CommentMenu("c1"), false, false, []domain.MenuAction{domain.ActionReply, domain.ActionLike}},
		{"own comment", domain.CommentMenu("c1"), true, false, []domain.MenuAction{domain.ActionReply, domain.ActionLike, domain.ActionEdit, domain.ActionDelete}},
		{"host on foreign comment", domain.CommentMenu("c1"), false, true, []domain.MenuAction{domain.ActionReply, domain.ActionLike, domain.ActionPin}},
		{"foreign reply", domain.ReplyMenu("c1", "r1"), false, true, []domain.MenuAction{domain.ActionLike}},
		{"own reply", domain.ReplyMenu("c1", "r1"), true, false, []domain.MenuAction{domain.ActionLike, domain.ActionEdit, domain.ActionDelete}},
		{"filter menu", domain.FilterMenu(), true, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActionItems(tt.ref, tt.owned, tt.canPin))
		})
	}
}
