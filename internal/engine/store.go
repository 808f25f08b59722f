// Package engine implements the threaded discussion engine: the comment
// store, the composer state machine, the query layer, the menu controller
// and transient acknowledgements.
package engine

import (
	"fmt"
	"slices"

	"github.com/runoshun/crew-talk/internal/domain"
)

// Store owns the canonical comment collection and every mutation on it.
// It never returns errors for rejected operations; it reports an Outcome.
// Fields are ordered to minimize memory padding.
type Store struct {
	ids        domain.IDGenerator
	clock      domain.Clock
	moderation domain.Moderation
	viewer     domain.Actor
	comments   []domain.Comment
}

// NewStore creates a Store seeded with comments.
// Seed comments are deep-copied. Duplicate comment IDs, or duplicate reply
// IDs within one comment, are rejected.
func NewStore(seed []domain.Comment, ids domain.IDGenerator, clock domain.Clock, moderation domain.Moderation) (*Store, error) {
	if moderation == nil {
		moderation = domain.FixedModeration(false)
	}
	comments := domain.CloneComments(seed)
	seen := make(map[string]bool, len(comments))
	for i := range comments {
		c := &comments[i]
		if c.ID == "" || seen[c.ID] {
			return nil, fmt.Errorf("comment %q: %w", c.ID, domain.ErrDuplicateID)
		}
		seen[c.ID] = true
		c.LikedBy = normalizeLikers(c.LikedBy)
		c.LikeCount = max(c.LikeCount, len(c.LikedBy), 0)

		replySeen := make(map[string]bool, len(c.Replies))
		for j := range c.Replies {
			r := &c.Replies[j]
			if r.ID == "" || replySeen[r.ID] {
				return nil, fmt.Errorf("reply %q of comment %q: %w", r.ID, c.ID, domain.ErrDuplicateID)
			}
			replySeen[r.ID] = true
			r.LikedBy = normalizeLikers(r.LikedBy)
			r.LikeCount = max(r.LikeCount, len(r.LikedBy), 0)
		}
	}
	return &Store{
		ids:        ids,
		clock:      clock,
		moderation: moderation,
		comments:   comments,
	}, nil
}

// ViewAs binds the store to the actor whose like state LikedBySelf reports.
// For an identified actor the flags are recomputed from LikedBy; a seed
// flag without a matching liker is taken as that actor's like.
// An actor without an ID keeps the flags as stored.
func (s *Store) ViewAs(actor domain.Actor) {
	s.viewer = actor
	if actor.ID == "" {
		return
	}
	for i := range s.comments {
		c := &s.comments[i]
		c.LikedBy, c.LikedBySelf = resolveLike(c.LikedBy, c.LikedBySelf, actor.ID)
		c.LikeCount = max(c.LikeCount, len(c.LikedBy))
		for j := range c.Replies {
			r := &c.Replies[j]
			r.LikedBy, r.LikedBySelf = resolveLike(r.LikedBy, r.LikedBySelf, actor.ID)
			r.LikeCount = max(r.LikeCount, len(r.LikedBy))
		}
	}
}

// Viewer returns the actor bound by ViewAs.
func (s *Store) Viewer() domain.Actor {
	return s.viewer
}

// Len returns the number of top-level comments across all tabs.
func (s *Store) Len() int {
	return len(s.comments)
}

// Comment returns a copy of the comment with the given ID.
func (s *Store) Comment(commentID string) (domain.Comment, bool) {
	c := s.find(commentID)
	if c == nil {
		return domain.Comment{}, false
	}
	return c.Clone(), true
}

// Reply returns a copy of a reply addressed through its parent.
func (s *Store) Reply(commentID, replyID string) (domain.Reply, bool) {
	c := s.find(commentID)
	if c == nil {
		return domain.Reply{}, false
	}
	r := c.Reply(replyID)
	if r == nil {
		return domain.Reply{}, false
	}
	return r.Clone(), true
}

// Snapshot returns a deep copy of the whole collection in insertion order.
// With an identified viewer the LikedBySelf flags are cleared, since LikedBy
// already records the viewer's likes and the flags must not be attributed
// to whoever loads the snapshot next.
func (s *Store) Snapshot() []domain.Comment {
	out := domain.CloneComments(s.comments)
	if out == nil {
		out = []domain.Comment{}
	}
	if s.viewer.ID != "" {
		for i := range out {
			out[i].LikedBySelf = false
			for j := range out[i].Replies {
				out[i].Replies[j].LikedBySelf = false
			}
		}
	}
	return out
}

// CanPin reports whether the actor holds the host role.
func (s *Store) CanPin(actor domain.Actor) bool {
	return s.moderation.CanPin(actor)
}

// CreateComment appends a new top-level comment to tab.
func (s *Store) CreateComment(tab domain.Tab, text string, actor domain.Actor) (domain.Comment, domain.Outcome) {
	return s.CreateCommentWithDonation(tab, text, nil, actor)
}

// CreateCommentWithDonation appends a new top-level comment carrying an
// optional donation. Non-positive donations are dropped.
func (s *Store) CreateCommentWithDonation(tab domain.Tab, text string, donation *float64, actor domain.Actor) (domain.Comment, domain.Outcome) {
	text = domain.NormalizeText(text)
	if text == "" {
		return domain.Comment{}, domain.OutcomeInvalid
	}
	now := s.clock.Now()
	c := domain.Comment{
		ID:           s.nextID(),
		AuthorHandle: actor.Handle(),
		AuthorID:     actor.AuthorID(),
		Text:         text,
		Created:      now,
		CreatedLabel: now.Format(domain.LabelLayout),
		Tab:          tab.Resolve(),
	}
	if donation != nil && *donation > 0 {
		d := *donation
		c.Donation = &d
	}
	s.comments = append(s.comments, c)
	return c.Clone(), domain.OutcomeOK
}

// CreateReply appends a reply to the end of a comment's replies.
func (s *Store) CreateReply(commentID, text string, actor domain.Actor) (domain.Reply, domain.Outcome) {
	text = domain.NormalizeText(text)
	if text == "" {
		return domain.Reply{}, domain.OutcomeInvalid
	}
	c := s.find(commentID)
	if c == nil {
		return domain.Reply{}, domain.OutcomeNotFound
	}
	now := s.clock.Now()
	r := domain.Reply{
		ID:           s.nextID(),
		AuthorHandle: actor.Handle(),
		AuthorID:     actor.AuthorID(),
		Text:         text,
		Created:      now,
		CreatedLabel: now.Format(domain.LabelLayout),
	}
	c.Replies = append(c.Replies, r)
	return r, domain.OutcomeOK
}

// EditComment replaces the text of a comment owned by actor.
func (s *Store) EditComment(commentID, newText string, actor domain.Actor) domain.Outcome {
	c := s.find(commentID)
	if c == nil {
		return domain.OutcomeNotFound
	}
	if !domain.IsOwnedBy(c, actor) {
		return domain.OutcomeDenied
	}
	text := domain.NormalizeText(newText)
	if text == "" {
		return domain.OutcomeInvalid
	}
	c.Text = text
	return domain.OutcomeOK
}

// EditReply replaces the text of a reply owned by actor.
func (s *Store) EditReply(commentID, replyID, newText string, actor domain.Actor) domain.Outcome {
	r, outcome := s.findReply(commentID, replyID)
	if !outcome.OK() {
		return outcome
	}
	if !domain.IsOwnedBy(r, actor) {
		return domain.OutcomeDenied
	}
	text := domain.NormalizeText(newText)
	if text == "" {
		return domain.OutcomeInvalid
	}
	r.Text = text
	return domain.OutcomeOK
}

// DeleteComment removes a comment owned by actor together with its replies.
func (s *Store) DeleteComment(commentID string, actor domain.Actor) domain.Outcome {
	idx := s.indexOf(commentID)
	if idx < 0 {
		return domain.OutcomeNotFound
	}
	if !domain.IsOwnedBy(&s.comments[idx], actor) {
		return domain.OutcomeDenied
	}
	s.comments = slices.Delete(s.comments, idx, idx+1)
	return domain.OutcomeOK
}

// DeleteReply removes one reply owned by actor.
func (s *Store) DeleteReply(commentID, replyID string, actor domain.Actor) domain.Outcome {
	c := s.find(commentID)
	if c == nil {
		return domain.OutcomeNotFound
	}
	idx := slices.IndexFunc(c.Replies, func(r domain.Reply) bool { return r.ID == replyID })
	if idx < 0 {
		return domain.OutcomeNotFound
	}
	if !domain.IsOwnedBy(&c.Replies[idx], actor) {
		return domain.OutcomeDenied
	}
	c.Replies = slices.Delete(c.Replies, idx, idx+1)
	return domain.OutcomeOK
}

// ToggleLike flips the viewer's like on a comment or reply.
// The like count moves by exactly one in the same direction. An identified
// viewer is added to or removed from LikedBy as well.
func (s *Store) ToggleLike(target domain.Target) domain.Outcome {
	if target.IsReply() {
		r, outcome := s.findReply(target.CommentID, target.ReplyID)
		if !outcome.OK() {
			return outcome
		}
		r.LikedBy, r.LikedBySelf, r.LikeCount = s.toggleLike(r.LikedBy, r.LikedBySelf, r.LikeCount)
		return domain.OutcomeOK
	}
	c := s.find(target.CommentID)
	if c == nil {
		return domain.OutcomeNotFound
	}
	c.LikedBy, c.LikedBySelf, c.LikeCount = s.toggleLike(c.LikedBy, c.LikedBySelf, c.LikeCount)
	return domain.OutcomeOK
}

func (s *Store) toggleLike(likedBy []string, liked bool, count int) ([]string, bool, int) {
	id := s.viewer.ID
	if id == "" {
		liked, count = toggle(liked, count)
		return likedBy, liked, count
	}
	if idx := slices.Index(likedBy, id); idx >= 0 {
		likedBy = slices.Delete(likedBy, idx, idx+1)
		if len(likedBy) == 0 {
			likedBy = nil
		}
		return likedBy, false, max(count-1, 0)
	}
	return append(likedBy, id), true, count + 1
}

// TogglePin flips the pinned flag. Only hosts may pin; ownership of the
// comment is not required.
func (s *Store) TogglePin(commentID string, actor domain.Actor) domain.Outcome {
	c := s.find(commentID)
	if c == nil {
		return domain.OutcomeNotFound
	}
	if !s.moderation.CanPin(actor) {
		return domain.OutcomeDenied
	}
	c.Pinned = !c.Pinned
	return domain.OutcomeOK
}

func toggle(liked bool, count int) (bool, int) {
	if liked {
		return false, max(count-1, 0)
	}
	return true, count + 1
}

// resolveLike reports whether id liked an entry, folding a stored flag into
// likedBy when id is not listed yet.
func resolveLike(likedBy []string, flag bool, id string) ([]string, bool) {
	if slices.Contains(likedBy, id) {
		return likedBy, true
	}
	if flag {
		return append(likedBy, id), true
	}
	return likedBy, false
}

// normalizeLikers drops empty and repeated IDs, keeping first occurrence order.
func normalizeLikers(likedBy []string) []string {
	if len(likedBy) == 0 {
		return nil
	}
	out := make([]string, 0, len(likedBy))
	for _, id := range likedBy {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (s *Store) indexOf(commentID string) int {
	return slices.IndexFunc(s.comments, func(c domain.Comment) bool { return c.ID == commentID })
}

func (s *Store) find(commentID string) *domain.Comment {
	idx := s.indexOf(commentID)
	if idx < 0 {
		return nil
	}
	return &s.comments[idx]
}

func (s *Store) findReply(commentID, replyID string) (*domain.Reply, domain.Outcome) {
	c := s.find(commentID)
	if c == nil {
		return nil, domain.OutcomeNotFound
	}
	r := c.Reply(replyID)
	if r == nil {
		return nil, domain.OutcomeNotFound
	}
	return r, domain.OutcomeOK
}

// nextID returns a fresh ID that collides with no comment or reply.
func (s *Store) nextID() string {
	for {
		id := s.ids.NewID()
		if !s.usesID(id) {
			return id
		}
	}
}

func (s *Store) usesID(id string) bool {
	for i := range s.comments {
		if s.comments[i].ID == id || s.comments[i].Reply(id) != nil {
			return true
		}
	}
	return false
}
