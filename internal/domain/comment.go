// Package domain contains core discussion entities and interfaces.
package domain

import (
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Tab is the discussion scope a comment belongs to.
type Tab string

// Well-known tabs.
const (
	TabComments     Tab = "comments"     // General discussion (default)
	TabTestimonials Tab = "testimonials" // Testimonials
	TabFAQs         Tab = "faqs"         // Frequently asked questions
	TabQA           Tab = "qa"           // Questions and answers
)

// DefaultTab is the tab of comments created without an explicit tab.
const DefaultTab = TabComments

// DefaultTabs returns the tabs a discussion has unless configured otherwise.
func DefaultTabs() []Tab {
	return []Tab{TabComments, TabTestimonials, TabFAQs, TabQA}
}

// Resolve returns the tab, mapping the empty tab to DefaultTab.
func (t Tab) Resolve() Tab {
	if t == "" {
		return DefaultTab
	}
	return t
}

// Display returns a human-readable tab title.
func (t Tab) Display() string {
	switch t.Resolve() {
	case TabComments:
		return "Discussion"
	case TabTestimonials:
		return "Testimonials"
	case TabFAQs:
		return "FAQs"
	case TabQA:
		return "Q&A"
	default:
		s := string(t)
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError {
			return s
		}
		return string(unicode.ToUpper(r)) + s[size:]
	}
}

// Comment is a top-level message in a tab-scoped discussion.
// Fields are ordered to minimize memory padding.
type Comment struct {
	Created      time.Time `json:"created" yaml:"created,omitempty"`             // Creation time (zero for seed data)
	Donation     *float64  `json:"donation,omitempty" yaml:"donation,omitempty"` // Optional positive donation amount
	ID           string    `json:"id" yaml:"id"`                                 // Unique across the store
	AuthorHandle string    `json:"author" yaml:"author"`                         // Handle shown to readers
	AuthorID     string    `json:"authorID" yaml:"authorID"`                     // Actor ID or SelfAuthorID
	Text         string    `json:"text" yaml:"text"`                             // Body
	CreatedLabel string    `json:"createdLabel" yaml:"createdLabel,omitempty"`   // Opaque human timestamp label
	Tab          Tab       `json:"tab,omitempty" yaml:"tab,omitempty"`           // Scope; empty means DefaultTab
	Replies      []Reply   `json:"replies,omitempty" yaml:"replies,omitempty"`   // Append-ordered replies
	LikedBy      []string  `json:"likedBy,omitempty" yaml:"likedBy,omitempty"`   // Actor IDs that liked the comment
	LikeCount    int       `json:"likes" yaml:"likes,omitempty"`                 // Never negative
	Verified     bool      `json:"verified,omitempty" yaml:"verified,omitempty"` // Author-level trust flag
	Pinned       bool      `json:"pinned,omitempty" yaml:"pinned,omitempty"`     // Sorted first within its tab
	LikedBySelf  bool      `json:"liked,omitempty" yaml:"liked,omitempty"`       // Viewing actor's like state
}

// Author returns the author ID of the comment.
func (c *Comment) Author() string {
	return c.AuthorID
}

// EffectiveTab returns the tab the comment belongs to.
func (c *Comment) EffectiveTab() Tab {
	return c.Tab.Resolve()
}

// HasDonation returns true if the comment carries a positive donation.
func (c *Comment) HasDonation() bool {
	return c.Donation != nil && *c.Donation > 0
}

// Reply returns the reply with the given ID, or nil.
func (c *Comment) Reply(replyID string) *Reply {
	for i := range c.Replies {
		if c.Replies[i].ID == replyID {
			return &c.Replies[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the comment.
func (c *Comment) Clone() Comment {
	out := *c
	if c.Donation != nil {
		d := *c.Donation
		out.Donation = &d
	}
	out.LikedBy = slices.Clone(c.LikedBy)
	if c.Replies != nil {
		out.Replies = make([]Reply, len(c.Replies))
		for i := range c.Replies {
			out.Replies[i] = c.Replies[i].Clone()
		}
	}
	return out
}

// Reply is a message nested one level under exactly one Comment.
// Fields are ordered to minimize memory padding.
type Reply struct {
	Created      time.Time `json:"created" yaml:"created,omitempty"`
	ID           string    `json:"id" yaml:"id"`
	AuthorHandle string    `json:"author" yaml:"author"`
	AuthorID     string    `json:"authorID" yaml:"authorID"`
	Text         string    `json:"text" yaml:"text"`
	CreatedLabel string    `json:"createdLabel" yaml:"createdLabel,omitempty"`
	LikedBy      []string  `json:"likedBy,omitempty" yaml:"likedBy,omitempty"`
	LikeCount    int       `json:"likes" yaml:"likes,omitempty"`
	Verified     bool      `json:"verified,omitempty" yaml:"verified,omitempty"`
	LikedBySelf  bool      `json:"liked,omitempty" yaml:"liked,omitempty"`
}

// Author returns the author ID of the reply.
func (r *Reply) Author() string {
	return r.AuthorID
}

// Clone returns a deep copy of the reply.
func (r *Reply) Clone() Reply {
	out := *r
	out.LikedBy = slices.Clone(r.LikedBy)
	return out
}

// CloneComments deep-copies a comment slice.
func CloneComments(comments []Comment) []Comment {
	if comments == nil {
		return nil
	}
	out := make([]Comment, len(comments))
	for i := range comments {
		out[i] = comments[i].Clone()
	}
	return out
}

// PartitionByTab groups comments by effective tab, keeping stored order.
func PartitionByTab(comments []Comment) map[Tab][]Comment {
	out := make(map[Tab][]Comment)
	for i := range comments {
		tab := comments[i].EffectiveTab()
		out[tab] = append(out[tab], comments[i].Clone())
	}
	return out
}

// LabelLayout is the layout of CreatedLabel for entries created locally.
const LabelLayout = "Jan 2, 2006 15:04"

// NormalizeText trims surrounding whitespace from entry text.
// An empty result means the text is invalid.
func NormalizeText(text string) string {
	return strings.TrimSpace(text)
}
