package domain

// Filter is the view-only predicate applied to a tab's comments.
type Filter string

const (
	FilterAll          Filter = "all"      // Keep everything
	FilterVerifiedOnly Filter = "verified" // Keep verified authors
	FilterLikedBySelf  Filter = "liked"    // Keep comments the local actor liked
	FilterHasDonation  Filter = "donation" // Keep comments with a positive donation
)

// AllFilters returns every filter in menu order.
func AllFilters() []Filter {
	return []Filter{FilterAll, FilterVerifiedOnly, FilterLikedBySelf, FilterHasDonation}
}

// IsValid returns true if the filter is known. The empty filter is treated as All.
func (f Filter) IsValid() bool {
	switch f {
	case "", FilterAll, FilterVerifiedOnly, FilterLikedBySelf, FilterHasDonation:
		return true
	default:
		return false
	}
}

// Matches reports whether the comment passes the filter.
// Replies are never filtered independently.
func (f Filter) Matches(c *Comment) bool {
	switch f {
	case FilterVerifiedOnly:
		return c.Verified
	case FilterLikedBySelf:
		return c.LikedBySelf
	case FilterHasDonation:
		return c.HasDonation()
	default:
		return true
	}
}

// Display returns a human-readable representation of the filter.
func (f Filter) Display() string {
	switch f {
	case FilterVerifiedOnly:
		return "Verified only"
	case FilterLikedBySelf:
		return "Liked by me"
	case FilterHasDonation:
		return "With donation"
	default:
		return "All"
	}
}
