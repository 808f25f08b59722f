package engine

import (
	"slices"

	"github.com/runoshun/crew-talk/internal/domain"
)

// TabStat summarizes one tab of a discussion.
type TabStat struct {
	Tab      domain.Tab
	Comments int
	Pinned   int
	Replies  int
}

// IndexTabs returns per-tab statistics. Configured tabs come first in
// their configured order, followed by tabs that only exist in the data,
// sorted by name.
func IndexTabs(comments []domain.Comment, configured []domain.Tab) []TabStat {
	stats := make(map[domain.Tab]*TabStat)
	order := make([]domain.Tab, 0, len(configured))
	add := func(tab domain.Tab) *TabStat {
		if st, ok := stats[tab]; ok {
			return st
		}
		st := &TabStat{Tab: tab}
		stats[tab] = st
		return st
	}
	for _, tab := range configured {
		tab = tab.Resolve()
		if _, ok := stats[tab]; !ok {
			order = append(order, tab)
			add(tab)
		}
	}

	var extra []domain.Tab
	for i := range comments {
		c := &comments[i]
		tab := c.EffectiveTab()
		if _, ok := stats[tab]; !ok {
			extra = append(extra, tab)
		}
		st := add(tab)
		st.Comments++
		st.Replies += len(c.Replies)
		if c.Pinned {
			st.Pinned++
		}
	}
	slices.Sort(extra)
	order = append(order, extra...)

	out := make([]TabStat, 0, len(order))
	for _, tab := range order {
		out = append(out, *stats[tab])
	}
	return out
}

// NextTab returns the tab after current in tabs, wrapping around.
// A negative step moves backwards.
func NextTab(tabs []domain.Tab, current domain.Tab, step int) domain.Tab {
	if len(tabs) == 0 {
		return current.Resolve()
	}
	idx := slices.Index(tabs, current.Resolve())
	if idx < 0 {
		return tabs[0]
	}
	n := len(tabs)
	return tabs[((idx+step)%n+n)%n]
}
