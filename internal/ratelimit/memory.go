package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory keeps counters in process. It is used when no redis is configured.
type Memory struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	count   int64
	expires time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *Memory) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	entry, ok := m.entries[key]
	if !ok || (!entry.expires.IsZero() && !now.Before(entry.expires)) {
		entry = memoryEntry{}
		if ttl > 0 {
			entry.expires = now.Add(ttl)
		}
	}
	entry.count++
	m.entries[key] = entry
	return entry.count, nil
}
