package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps everything in a map. It backs tests and the "memory" backend.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Init() error           { return nil }
func (m *MemoryStore) Load() error           { return nil }
func (m *MemoryStore) Close() error          { return nil }
func (m *MemoryStore) GetConfigPath() string { return "memory" }

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Copy writes every key of src into dst.
func Copy(ctx context.Context, dst KV, src Provider) (int, error) {
	keys, err := src.Keys(ctx)
	if err != nil {
		return 0, err
	}
	for i, key := range keys {
		value, ok, err := src.Get(ctx, key)
		if err != nil {
			return i, err
		}
		if !ok {
			continue
		}
		if err := dst.Set(ctx, key, value); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}
