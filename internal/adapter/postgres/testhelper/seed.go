package testhelper

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UniqueCollection returns a collection name no other test uses, so tests
// sharing the container do not see each other's documents.
func UniqueCollection(prefix string) string {
	return prefix + "_" + uuid.New().String()[:8]
}

// SeedDocument inserts a raw document row.
func SeedDocument(t *testing.T, pool *pgxpool.Pool, collection, docID string, body map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("SeedDocument: marshal: %v", err)
	}

	_, err = pool.Exec(context.Background(),
		`INSERT INTO documents (collection, doc_id, body) VALUES ($1, $2, $3)`,
		collection, docID, raw,
	)
	if err != nil {
		t.Fatalf("SeedDocument: insert: %v", err)
	}
}
