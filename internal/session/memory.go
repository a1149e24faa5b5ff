package session

import (
	"context"
	"sync"
	"time"
)

const memorySweepInterval = time.Minute

type memoryEntry struct {
	data      *SessionData
	expiresAt time.Time
}

// memoryStore implements Store using an in-memory map with optimistic locking.
// Entries expire ttl after their last read or write, like the Redis store.
// Expired entries are invisible at once and dropped by a sweep that runs on
// Create at most once per memorySweepInterval.
type memoryStore struct {
	mu        sync.Mutex
	sessions  map[string]*memoryEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func newMemoryStore(ttl time.Duration, now func() time.Time) *memoryStore {
	return &memoryStore{
		sessions:  make(map[string]*memoryEntry),
		ttl:       ttl,
		now:       now,
		lastSweep: now(),
	}
}

// live returns the unexpired entry for id. Caller holds s.mu.
func (s *memoryStore) live(id string, now time.Time) (*memoryEntry, bool) {
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if !now.Before(e.expiresAt) {
		delete(s.sessions, id)
		return nil, false
	}
	return e, true
}

func (s *memoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < memorySweepInterval {
		return
	}
	s.lastSweep = now
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

// Create implements Store.
func (s *memoryStore) Create(ctx context.Context, data *SessionData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if _, exists := s.live(data.ID, now); exists {
		return ErrAlreadyExists
	}

	data.CreatedAt = now.UTC()
	data.UpdatedAt = now.UTC()
	data.Version = 1

	s.sessions[data.ID] = &memoryEntry{data: data.clone(), expiresAt: now.Add(s.ttl)}
	return nil
}

// Get implements Store. Refreshes the expiry on every read.
func (s *memoryStore) Get(ctx context.Context, id string) (*SessionData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, exists := s.live(id, now)
	if !exists {
		return nil, nil
	}
	e.expiresAt = now.Add(s.ttl)
	return e.data.clone(), nil
}

// Update implements Store.
func (s *memoryStore) Update(ctx context.Context, data *SessionData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, exists := s.live(data.ID, now)
	if !exists {
		return ErrNotFound
	}

	if e.data.Version != data.Version {
		return ErrVersionConflict
	}

	data.Version++
	data.UpdatedAt = now.UTC()

	s.sessions[data.ID] = &memoryEntry{data: data.clone(), expiresAt: now.Add(s.ttl)}
	return nil
}

// Delete implements Store.
func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Ping implements Store.
func (s *memoryStore) Ping(ctx context.Context) error { return nil }

// Close implements Store.
func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*memoryEntry)
	return nil
}

func (s *memoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
