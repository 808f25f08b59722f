package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/crew-talk/internal/domain"
)

// ShowThreadInput contains the parameters for showing a tab's thread.
type ShowThreadInput struct {
	Actor  domain.Actor  // Viewer (may be empty)
	Tab    domain.Tab    // Tab to show (empty = default tab)
	Filter domain.Filter // Filter (empty = all)
}

// ShowThreadOutput contains the visible thread.
// Fields are ordered to minimize memory padding.
type ShowThreadOutput struct {
	Tab      domain.Tab       // Resolved tab
	Filter   domain.Filter    // Resolved filter
	Comments []domain.Comment // Pinned first, then stored order
	CanPin   bool             // True if the viewer holds the host role
}

// ShowThread is the use case for reading a tab's thread.
type ShowThread struct {
	discussion *Discussion
}

// NewShowThread creates a new ShowThread use case.
func NewShowThread(discussion *Discussion) *ShowThread {
	return &ShowThread{discussion: discussion}
}

// Execute returns the filtered thread of a tab.
// Tabs that only exist in stored data are readable even if not configured.
func (uc *ShowThread) Execute(_ context.Context, in ShowThreadInput) (*ShowThreadOutput, error) {
	e, err := uc.discussion.Open(in.Actor, "")
	if err != nil {
		return nil, err
	}
	defer e.Close()

	tab := in.Tab.Resolve()
	known := false
	for _, st := range e.TabStats() {
		if st.Tab == tab {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%q: %w", tab, domain.ErrUnknownTab)
	}
	if err := e.SetFilter(in.Filter); err != nil {
		return nil, err
	}

	return &ShowThreadOutput{
		Tab:      tab,
		Filter:   e.Filter(),
		Comments: e.VisibleThread(tab, e.Filter()),
		CanPin:   e.CanPin(),
	}, nil
}
