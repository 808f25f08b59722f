package domain

// Outcome is the result of a store operation.
// Rejections are values, not errors; callers decide how to surface them.
type Outcome int

const (
	OutcomeOK       Outcome = iota // Applied
	OutcomeInvalid                 // Empty or whitespace-only text
	OutcomeNotFound                // Comment or reply no longer exists
	OutcomeDenied                  // Actor is not the owner or not privileged
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// OK returns true if the operation was applied.
func (o Outcome) OK() bool {
	return o == OutcomeOK
}

// Err maps the outcome to a sentinel error, or nil for OutcomeOK.
// target selects between the comment and reply not-found errors.
func (o Outcome) Err(target Target) error {
	switch o {
	case OutcomeOK:
		return nil
	case OutcomeInvalid:
		return ErrEmptyText
	case OutcomeNotFound:
		if target.IsReply() {
			return ErrReplyNotFound
		}
		return ErrCommentNotFound
	case OutcomeDenied:
		return ErrPermissionDenied
	}
	return nil
}
