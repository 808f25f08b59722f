package engine

import "github.com/runoshun/crew-talk/internal/domain"

// VisibleThread projects the comments of one tab for display.
//
// Comments are selected by tab (unset tabs belong to the default tab),
// kept if they pass filter, then stably partitioned so pinned comments come
// first. Insertion order is preserved inside each partition and replies are
// returned whole. The result is a deep copy; comments is never modified.
func VisibleThread(comments []domain.Comment, tab domain.Tab, filter domain.Filter) []domain.Comment {
	tab = tab.Resolve()
	pinned := make([]domain.Comment, 0)
	rest := make([]domain.Comment, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		if c.EffectiveTab() != tab || !filter.Matches(c) {
			continue
		}
		if c.Pinned {
			pinned = append(pinned, c.Clone())
		} else {
			rest = append(rest, c.Clone())
		}
	}
	return append(pinned, rest...)
}
