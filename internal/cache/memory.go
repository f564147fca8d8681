package cache

import (
	"context"
	"sync"
)

// MemoryStore keeps encoded envelopes in process. Entries go through the same
// JSON encoding as the remote stores so reads never alias the writer's slices.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Read(_ context.Context, key string) (Envelope, bool) {
	m.mu.RLock()
	body, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return Envelope{}, false
	}
	env, err := decode(body)
	if err != nil {
		return Envelope{}, false
	}
	return env, true
}

func (m *MemoryStore) Write(_ context.Context, key string, env Envelope) error {
	body, err := encode(env)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = body
	m.mu.Unlock()
	return nil
}

// Put stores raw bytes under key, used to seed corrupt entries in tests.
func (m *MemoryStore) Put(key string, body []byte) {
	m.mu.Lock()
	m.entries[key] = body
	m.mu.Unlock()
}
