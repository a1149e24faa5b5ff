// Package supabase implements docstore.Store on top of a Supabase (PostgREST)
// project. Each collection is a table with columns doc_id, body and
// updated_at.
package supabase

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/heartmarshall/mog-workshop/internal/adapter/docstore"
)

// Config holds Supabase connection configuration.
type Config struct {
	URL    string
	APIKey string
	// HealthTable is the table Ping reads from.
	HealthTable string
}

type row struct {
	DocID     string            `json:"doc_id"`
	Body      docstore.Document `json:"body"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// DocStore implements docstore.Store using Supabase.
type DocStore struct {
	client      *supabase.Client
	healthTable string
	now         func() time.Time
}

// New creates a new Supabase document store.
func New(cfg Config) (*DocStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: supabase URL is required", docstore.ErrMisconfigured)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: supabase API key is required", docstore.ErrMisconfigured)
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create supabase client: %w", docstore.ErrMisconfigured, err)
	}

	return &DocStore{client: client, healthTable: cfg.HealthTable, now: time.Now}, nil
}

// Put implements docstore.Store.
func (s *DocStore) Put(ctx context.Context, collection, docID string, doc docstore.Document) error {
	r := row{DocID: docID, Body: doc, UpdatedAt: s.now().UTC()}

	err := call(ctx, func() error {
		_, _, err := s.client.From(collection).
			Upsert(r, "doc_id", "minimal", "").
			Execute()
		return err
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w: %w", collection, docID, docstore.ErrUnavailable, err)
	}
	return nil
}

// Query implements docstore.Store. Filters compare body fields as text.
func (s *DocStore) Query(ctx context.Context, collection string, filter docstore.Filter) ([]docstore.Document, error) {
	q := s.client.From(collection).Select("doc_id,body,updated_at", "", false)
	for field, value := range filter {
		q = q.Eq("body->>"+field, value)
	}

	var rows []row
	err := call(ctx, func() error {
		_, err := q.ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w: %w", collection, docstore.ErrUnavailable, err)
	}

	docs := make([]docstore.Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, r.Body)
	}
	return docs, nil
}

// Delete implements docstore.Store.
func (s *DocStore) Delete(ctx context.Context, collection, docID string) error {
	err := call(ctx, func() error {
		_, _, err := s.client.From(collection).
			Delete("minimal", "").
			Eq("doc_id", docID).
			Execute()
		return err
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w: %w", collection, docID, docstore.ErrUnavailable, err)
	}
	return nil
}

// Ping issues a query that matches nothing.
func (s *DocStore) Ping(ctx context.Context) error {
	err := call(ctx, func() error {
		var rows []row
		_, err := s.client.From(s.healthTable).
			Select("doc_id", "", false).
			Eq("doc_id", "").
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return fmt.Errorf("ping: %w: %w", docstore.ErrUnavailable, err)
	}
	return nil
}

// call runs fn and waits for it or for ctx, whichever ends first. The
// PostgREST client takes no context, so a call abandoned on ctx keeps running
// in the background until the server answers; its result is discarded.
func call(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements docstore.Store. The client holds no resources.
func (s *DocStore) Close() error {
	return nil
}

var _ docstore.Store = (*DocStore)(nil)
