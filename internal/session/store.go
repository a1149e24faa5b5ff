// Package session persists server-side session state: the resolved client
// identity and the consult chat history of one browser session.
package session

import (
	"context"
	"errors"
)

// Common errors for session store operations.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidStoreType = errors.New("invalid store type")
	ErrVersionConflict  = errors.New("session version conflict")
	ErrNotFound         = errors.New("session not found")
	ErrAlreadyExists    = errors.New("session already exists")
)

// Store defines the interface for session storage operations.
type Store interface {
	// Create creates a new session with Version set to 1.
	// Returns ErrAlreadyExists if the session already exists.
	Create(ctx context.Context, data *SessionData) error

	// Get retrieves a session by ID.
	// Returns nil if the session is not found (not an error).
	Get(ctx context.Context, id string) (*SessionData, error)

	// Update updates an existing session with optimistic locking.
	// Verifies the Version matches the stored version, increments Version,
	// updates UpdatedAt timestamp, and persists the SessionData.
	// Returns ErrVersionConflict if the version does not match.
	// Returns ErrNotFound if the session does not exist.
	Update(ctx context.Context, data *SessionData) error

	// Delete deletes a session by ID.
	Delete(ctx context.Context, id string) error

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error

	// Close closes the store and releases any resources.
	Close() error
}
