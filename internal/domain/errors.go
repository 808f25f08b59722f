package domain

import "errors"

// Domain errors.
var (
	ErrEmptyText          = errors.New("text cannot be empty")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrReplyNotFound      = errors.New("reply not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrDuplicateID        = errors.New("duplicate comment id")
	ErrInvalidTarget      = errors.New("invalid target (expected <comment-id> or <comment-id>/<reply-id>)")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrUnknownTab         = errors.New("unknown tab")
	ErrInvalidDonation    = errors.New("donation must be a positive amount")
	ErrNoActor            = errors.New("no actor configured (set [identity] id or pass --as)")
	ErrAlreadyInitialized = errors.New("talk store already initialized")
	ErrNotInitialized     = errors.New("talk store not initialized (run 'talk init' first)")
	ErrConfigExists       = errors.New("config file already exists")
	ErrInvalidBackend     = errors.New("invalid store backend")
	ErrNoPassphrase       = errors.New("encryption enabled but passphrase is empty")
	ErrNotGitRepository   = errors.New("not a git repository")
)
