package storage

import (
	"context"
	"sync"
)

// MemoryAdapter is an in-process KVStore used for tests and the dev
// storage driver. Values are copied on the way in and out.
type MemoryAdapter struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{slots: make(map[string][]byte)}
}

func (m *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	val, ok := m.slots[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MemoryAdapter) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = clone(value)
	return nil
}

func (m *MemoryAdapter) SetMulti(ctx context.Context, kv map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, value := range kv {
		m.slots[key] = clone(value)
	}
	return nil
}

func (m *MemoryAdapter) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
