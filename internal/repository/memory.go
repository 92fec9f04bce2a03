package repository

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory, concurrency-safe KeyValue.
// Nothing survives Close; it backs tests and the "memory" driver.
type MemoryRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryRepository constructs an empty MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[string]string)}
}

func (m *MemoryRepository) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryRepository) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryRepository) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *MemoryRepository) Close() error {
	return nil
}
