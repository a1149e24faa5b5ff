package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/heartmarshall/mog-workshop/internal/adapter/docstore"
	"github.com/heartmarshall/mog-workshop/internal/domain"
)

func TestNew_MissingCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no url", Config{APIKey: "k"}},
		{"no key", Config{URL: "http://localhost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.cfg)
			if !errors.Is(err, domain.ErrMisconfigured) {
				t.Errorf("New() err = %v, want ErrMisconfigured", err)
			}
		})
	}
}

func TestDocStore_QueryFiltersOnBody(t *testing.T) {
	t.Parallel()

	var gotFilter, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFilter = r.URL.Query().Get("body->>client_id")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"doc_id": "a_1", "body": map[string]any{"client_id": "a", "work_id": "1"}, "updated_at": "2026-03-01T12:00:00Z"},
		})
	}))
	defer srv.Close()

	store, err := New(Config{URL: srv.URL, APIKey: "test-key", HealthTable: "work_items"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	docs, err := store.Query(context.Background(), "work_items", docstore.Filter{"client_id": "a"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !strings.HasSuffix(gotPath, "/work_items") {
		t.Errorf("path = %q, want table work_items", gotPath)
	}
	if gotFilter != "eq.a" {
		t.Errorf("filter = %q, want eq.a", gotFilter)
	}
	if len(docs) != 1 || docs[0].String("work_id") != "1" {
		t.Errorf("docs = %v", docs)
	}
}

func TestDocStore_PutSendsRow(t *testing.T) {
	t.Parallel()

	var body map[string]any
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store, err := New(Config{URL: srv.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = store.Put(context.Background(), "work_items", "a_1", docstore.Document{"client_id": "a"})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if method != http.MethodPost {
		t.Errorf("method = %s, want POST", method)
	}
	if body["doc_id"] != "a_1" {
		t.Errorf("doc_id = %v, want a_1", body["doc_id"])
	}
	if inner, _ := body["body"].(map[string]any); inner["client_id"] != "a" {
		t.Errorf("body = %v", body["body"])
	}
}

func TestDocStore_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store, err := New(Config{URL: url, APIKey: "test-key", HealthTable: "work_items"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if _, err := store.Query(ctx, "work_items", nil); !errors.Is(err, docstore.ErrUnavailable) {
		t.Errorf("Query err = %v, want ErrUnavailable", err)
	}
	if err := store.Put(ctx, "work_items", "a_1", docstore.Document{}); !errors.Is(err, docstore.ErrUnavailable) {
		t.Errorf("Put err = %v, want ErrUnavailable", err)
	}
	if err := store.Delete(ctx, "work_items", "a_1"); !errors.Is(err, docstore.ErrUnavailable) {
		t.Errorf("Delete err = %v, want ErrUnavailable", err)
	}
	if err := store.Ping(ctx); !errors.Is(err, docstore.ErrUnavailable) {
		t.Errorf("Ping err = %v, want ErrUnavailable", err)
	}
}

func TestDocStore_StalledServerHonoursDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	store, err := New(Config{URL: srv.URL, APIKey: "test-key", HealthTable: "work_items"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ops := map[string]func(ctx context.Context) error{
		"query": func(ctx context.Context) error {
			_, err := store.Query(ctx, "work_items", docstore.Filter{"client_id": "a"})
			return err
		},
		"put": func(ctx context.Context) error {
			return store.Put(ctx, "work_items", "a_1", docstore.Document{"client_id": "a"})
		},
		"delete": func(ctx context.Context) error {
			return store.Delete(ctx, "work_items", "a_1")
		},
		"ping": store.Ping,
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			start := time.Now()
			err := op(ctx)
			elapsed := time.Since(start)

			if !errors.Is(err, docstore.ErrUnavailable) {
				t.Errorf("err = %v, want ErrUnavailable", err)
			}
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("err = %v, want DeadlineExceeded", err)
			}
			if elapsed > 2*time.Second {
				t.Errorf("call returned after %v, want it bounded by the deadline", elapsed)
			}
		})
	}
}

func TestDocStore_CanceledContextSkipsCall(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store, err := New(Config{URL: srv.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Put(ctx, "work_items", "a_1", docstore.Document{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Put err = %v, want context.Canceled", err)
	}
	if hits != 0 {
		t.Errorf("server hit %d times, want 0", hits)
	}
}
