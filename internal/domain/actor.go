package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
)

// SelfAuthorID marks an entry authored by an actor without an identity.
// Only such an actor owns it; importers rewrite it to the importing actor.
const SelfAuthorID = "self"

// anonHandlePrefix prefixes handles of anonymous actors.
const anonHandlePrefix = "anon-"

// Actor is the already-resolved identity acting on a discussion.
type Actor struct {
	ID          string `json:"id" toml:"id"`
	DisplayName string `json:"name" toml:"name"`
	Anonymous   bool   `json:"anonymous" toml:"anonymous"`
}

// Handle returns the author handle recorded on new entries.
// Anonymous actors get a stable pseudonym derived from their ID.
func (a Actor) Handle() string {
	if a.Anonymous {
		return AnonymousHandle(a.ID)
	}
	if a.DisplayName == "" {
		return a.ID
	}
	return a.DisplayName
}

// AuthorID returns the ID recorded as the author of new entries.
func (a Actor) AuthorID() string {
	if a.ID == "" {
		return SelfAuthorID
	}
	return a.ID
}

// AnonymousHandle derives the anonymized handle for an actor ID.
func AnonymousHandle(id string) string {
	sum := sha256.Sum256([]byte(id))
	return anonHandlePrefix + hex.EncodeToString(sum[:])[:6]
}

// Authored is implemented by every entry that has an author.
type Authored interface {
	Author() string
}

// IsOwnedBy reports whether actor may edit or delete the entry.
// It is the only ownership rule; every mutating operation goes through it.
// A SelfAuthorID entry belongs only to an actor with no ID.
func IsOwnedBy(entry Authored, actor Actor) bool {
	author := entry.Author()
	return author != "" && author == actor.AuthorID()
}

// Moderation decides who holds the host/creator role of a discussion.
type Moderation interface {
	// CanPin reports whether the actor may pin and unpin comments.
	CanPin(actor Actor) bool
}

// HostList grants the host role to the listed actor IDs.
type HostList []string

// CanPin returns true if the actor is a configured host.
func (h HostList) CanPin(actor Actor) bool {
	return actor.ID != "" && slices.Contains(h, actor.ID)
}

// FixedModeration is a role flag resolved by the hosting screen.
type FixedModeration bool

// CanPin returns the fixed flag regardless of actor.
func (f FixedModeration) CanPin(Actor) bool {
	return bool(f)
}

// AnyModeration grants the role if any of the policies grants it.
type AnyModeration []Moderation

// CanPin returns true if one of the policies allows pinning.
func (m AnyModeration) CanPin(actor Actor) bool {
	for _, p := range m {
		if p != nil && p.CanPin(actor) {
			return true
		}
	}
	return false
}
