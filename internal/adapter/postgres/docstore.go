package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/mog-workshop/internal/adapter/docstore"
)

const documentsTable = "documents"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DocStore is a docstore.Store over a single JSONB table keyed by
// (collection, doc_id).
type DocStore struct {
	q     Querier
	close func()
}

// NewDocStore creates a document store on top of q. closeFn releases q and
// may be nil.
func NewDocStore(q Querier, closeFn func()) *DocStore {
	return &DocStore{q: q, close: closeFn}
}

// Put implements docstore.Store. The whole body is replaced.
func (s *DocStore) Put(ctx context.Context, collection, docID string, doc docstore.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", docID, err)
	}

	query, args, err := psql.
		Insert(documentsTable).
		Columns("collection", "doc_id", "body", "updated_at").
		Values(collection, docID, body, sq.Expr("now()")).
		Suffix("ON CONFLICT (collection, doc_id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build put query: %w", err)
	}

	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		return mapError(err, "put", collection)
	}
	return nil
}

// Query implements docstore.Store using JSONB containment on body.
func (s *DocStore) Query(ctx context.Context, collection string, filter docstore.Filter) ([]docstore.Document, error) {
	builder := psql.
		Select("body").
		From(documentsTable).
		Where(sq.Eq{"collection": collection}).
		OrderBy("updated_at DESC")

	if len(filter) > 0 {
		contains, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("marshal filter: %w", err)
		}
		builder = builder.Where("body @> ?::jsonb", string(contains))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query", collection)
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, mapError(err, "scan", collection)
		}
		var doc docstore.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document in %s: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "query", collection)
	}

	return docs, nil
}

// Delete implements docstore.Store.
func (s *DocStore) Delete(ctx context.Context, collection, docID string) error {
	query, args, err := psql.
		Delete(documentsTable).
		Where(sq.Eq{"collection": collection, "doc_id": docID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		return mapError(err, "delete", collection)
	}
	return nil
}

// Ping implements docstore.Store.
func (s *DocStore) Ping(ctx context.Context) error {
	if err := s.q.Ping(ctx); err != nil {
		return mapError(err, "ping", documentsTable)
	}
	return nil
}

// Close implements docstore.Store.
func (s *DocStore) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

var _ docstore.Store = (*DocStore)(nil)
