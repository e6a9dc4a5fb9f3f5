package database

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is a process-local SlotStorage used by tests and STORAGE_DRIVER=memory
type MemoryStore struct {
	mu       sync.RWMutex
	slots    map[string][]byte
	writeErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (m *MemoryStore) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return slices.Clone(data), nil
}

func (m *MemoryStore) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.slots[key] = slices.Clone(data)
	return nil
}

// FailWrites makes every later Write return err; nil restores normal writes
func (m *MemoryStore) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Keys lists the slots written so far
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.slots))
	for k := range m.slots {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (m *MemoryStore) HealthCheck() error { return nil }

func (m *MemoryStore) Close() error { return nil }
