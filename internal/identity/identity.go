// Package identity resolves the per-client identifier that scopes every work
// item. One identifier is chosen per page load from session memory, the page
// URL or a durable client-side store, in that order, and once a session has
// one it never changes.
package identity

import (
	"context"
)

// State is the resolution state of a session.
type State string

const (
	StateUnresolved State = "UNRESOLVED"
	StateResolved   State = "RESOLVED"
)

// Source names where a resolved identity came from.
type Source string

const (
	SourceNone    Source = "none"
	SourceSession Source = "session"
	SourceURL     Source = "url"
	SourceDurable Source = "durable"
	SourceMinted  Source = "minted"
)

// DegradedSessionOnly means no URL binding accepted the identity, so it will
// not survive a full reload unless the durable store kept it.
const DegradedSessionOnly = "session-only"

// SessionContext is the explicit per-session state the resolver reads and
// writes. The transport layer loads it from the session store before
// resolution and persists it afterwards.
type SessionContext struct {
	ID       string
	ClientID string
}

// State reports whether the session already holds an identity.
func (sc *SessionContext) State() State {
	if sc.ClientID == "" {
		return StateUnresolved
	}
	return StateResolved
}

// adopt sets the identity if the session has none. RESOLVED is terminal.
func (sc *SessionContext) adopt(id string) bool {
	if sc.ClientID != "" {
		return false
	}
	sc.ClientID = id
	return true
}

// URLBinding reads and writes the identity carried in the page URL.
// Bindings are tried in order: the first is the current mechanism, later
// ones are compatibility fallbacks for older URL shapes.
type URLBinding interface {
	// Lookup returns the identity carried in the URL, if any.
	Lookup() (string, bool, error)
	// Publish makes id part of the page URL.
	Publish(id string) error
}

// DurableStore is client-side durable storage. Failures are never fatal.
type DurableStore interface {
	Load(ctx context.Context) (string, bool, error)
	Store(ctx context.Context, id string) error
}

// Sources are the per-request identity carriers. Durable may be nil when the
// environment has no durable client storage.
type Sources struct {
	URL     []URLBinding
	Durable DurableStore
}

// Resolution is the outcome of Resolve or Confirm.
type Resolution struct {
	ClientID string
	State    State
	Source   Source
	// Published is true when the identity was written to the URL during
	// this call and the page should rewrite its address.
	Published      bool
	Degraded       bool
	DegradedReason string
}
