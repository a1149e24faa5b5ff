// Package docstore defines the key-document persistence contract the work
// store is built on. Drivers live in their own packages.
package docstore

import (
	"context"
	"fmt"

	"github.com/heartmarshall/mog-workshop/internal/domain"
)

// Driver errors. Both wrap the matching domain sentinel so callers can
// classify them with errors.Is against either.
var (
	ErrUnavailable   = fmt.Errorf("document store: %w", domain.ErrUnavailable)
	ErrMisconfigured = fmt.Errorf("document store: %w", domain.ErrMisconfigured)
)

// Document is a flat JSON object.
type Document map[string]any

// String returns the value of a string field, or "".
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Filter selects documents whose top-level fields equal the given strings.
type Filter map[string]string

// Match reports whether doc satisfies f.
func (f Filter) Match(doc Document) bool {
	for k, v := range f {
		if doc.String(k) != v {
			return false
		}
	}
	return true
}

// Store is a key-document database.
type Store interface {
	// Put creates or fully replaces the document stored under docID.
	Put(ctx context.Context, collection, docID string, doc Document) error
	// Query returns every document in collection matching filter.
	Query(ctx context.Context, collection string, filter Filter) ([]Document, error)
	// Delete removes docID. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, docID string) error
	Ping(ctx context.Context) error
	Close() error
}
