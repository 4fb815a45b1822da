package caching

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter is an in-process window counter with the same
// increment-then-compare semantics as the Redis implementation. It backs
// tests and keeps rate limiting functional when Redis is unavailable.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*counterEntry
}

type counterEntry struct {
	count     int64
	expiresAt time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{entries: make(map[string]*counterEntry)}
}

// IncrementWindow increments the counter under the mutex so two racing
// requests can never both observe a pre-quota value.
func (m *MemoryCounter) IncrementWindow(_ context.Context, key string, ttl time.Duration) (int64, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &counterEntry{expiresAt: now.Add(ttl)}
		m.entries[key] = entry
	}
	entry.count++

	// Opportunistically drop elapsed windows so the map does not grow
	// unbounded between restarts.
	if len(m.entries) > 1024 {
		for k, e := range m.entries {
			if now.After(e.expiresAt) {
				delete(m.entries, k)
			}
		}
	}

	return entry.count, nil
}
