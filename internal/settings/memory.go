package settings

import (
	"context"
	"maps"
	"sync"
)

// MemoryKV keeps values in process memory. Err, when set, is returned from
// every call.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
	Err    error
	Writes int
}

// NewMemoryKV creates an in-memory backend seeded with values.
func NewMemoryKV(values map[string]string) *MemoryKV {
	m := &MemoryKV{values: make(map[string]string)}
	maps.Copy(m.values, values)
	return m
}

// Get implements KV.
func (m *MemoryKV) Get(_ context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return maps.Clone(m.values), nil
}

// Set implements KV.
func (m *MemoryKV) Set(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	maps.Copy(m.values, values)
	m.Writes++
	return nil
}
