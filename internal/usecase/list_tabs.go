package usecase

import (
	"context"

	"github.com/runoshun/crew-talk/internal/engine"
)

// ListTabsInput contains the parameters for listing tabs.
type ListTabsInput struct{}

// ListTabsOutput contains per-tab statistics.
type ListTabsOutput struct {
	Tabs []engine.TabStat // Configured tabs first, then data-only tabs
}

// ListTabs is the use case for summarizing the tabs of a discussion.
type ListTabs struct {
	discussion *Discussion
}

// NewListTabs creates a new ListTabs use case.
func NewListTabs(discussion *Discussion) *ListTabs {
	return &ListTabs{discussion: discussion}
}

// Execute returns the statistics of every tab.
func (uc *ListTabs) Execute(_ context.Context, _ ListTabsInput) (*ListTabsOutput, error) {
	seed, err := uc.discussion.comments.LoadAll()
	if err != nil {
		return nil, err
	}
	return &ListTabsOutput{Tabs: engine.IndexTabs(seed, uc.discussion.Tabs())}, nil
}
