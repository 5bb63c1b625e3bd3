package session

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Data is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memEntry
	now     func() time.Time

	lastSweep time.Time
}

// NewMemoryStore returns a MemoryStore whose sessions expire after ttl of inactivity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, entries: make(map[string]memEntry), now: time.Now}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok || !m.now().Before(e.expires) {
		return nil, ErrNotFound
	}
	return decodeValues(id, e.data)
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	b, err := encodeValues(s.Values)
	if err != nil {
		return err
	}
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.ID] = memEntry{data: b, expires: now.Add(m.ttl)}
	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweepLocked(now)
	}
	return nil
}

// sweepLocked drops expired entries. The caller holds mu.
func (m *MemoryStore) sweepLocked(now time.Time) {
	for id, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, id)
		}
	}
	m.lastSweep = now
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
