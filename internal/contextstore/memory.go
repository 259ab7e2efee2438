package contextstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is the default in-process backend. Expired entries are
// evicted lazily on read and listing.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, ref, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[ref] = entry
	s.mu.Unlock()
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, ref string) (string, error) {
	s.mu.RLock()
	entry, ok := s.entries[ref]
	s.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	if entry.expired(s.now()) {
		// Re-check under the write lock: a Set may have replaced the
		// entry between the read above and this eviction.
		s.mu.Lock()
		if cur, ok := s.entries[ref]; ok && cur.expired(s.now()) {
			delete(s.entries, ref)
		}
		s.mu.Unlock()
		return "", ErrNotFound
	}
	return entry.value, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	delete(s.entries, ref)
	s.mu.Unlock()
	return nil
}

// Refs implements Store. Expired entries are excluded and evicted.
func (s *MemoryStore) Refs(_ context.Context) ([]string, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	refs := make([]string, 0, len(s.entries))
	for ref, entry := range s.entries {
		if entry.expired(now) {
			delete(s.entries, ref)
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string]memoryEntry)
	s.mu.Unlock()
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
