package testhelper

import (
	"context"
	"testing"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	collection := UniqueCollection("smoke")
	SeedDocument(t, pool, collection, "a_1", map[string]any{"client_id": "a"})

	var clientID string
	err := pool.QueryRow(
		context.Background(),
		`SELECT body->>'client_id' FROM documents WHERE collection = $1 AND doc_id = $2`,
		collection, "a_1",
	).Scan(&clientID)
	if err != nil {
		t.Fatalf("expected document in DB, got error: %v", err)
	}

	if clientID != "a" {
		t.Fatalf("expected client_id %q, got %q", "a", clientID)
	}
}
