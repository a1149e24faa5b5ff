package docstore

import (
	"context"
	"maps"
	"sync"
)

// Memory is an in-process Store. Documents are copied on the way in and out.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]Document
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]Document)}
}

// Put implements Store.
func (m *Memory) Put(ctx context.Context, collection, docID string, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.data[collection]
	if !ok {
		coll = make(map[string]Document)
		m.data[collection] = coll
	}
	coll[docID] = maps.Clone(doc)
	return nil
}

// Query implements Store.
func (m *Memory) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Document
	for _, doc := range m.data[collection] {
		if filter.Match(doc) {
			out = append(out, maps.Clone(doc))
		}
	}
	return out, nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, collection, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data[collection], docID)
	return nil
}

// Ping implements Store.
func (m *Memory) Ping(ctx context.Context) error { return nil }

// Close implements Store.
func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
