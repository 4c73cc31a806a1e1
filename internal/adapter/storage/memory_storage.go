package storage

import (
	"context"
	"sync"

	"github.com/example/tarana-storefront/internal/domain"
)

type MemoryStorage struct {
	mu    sync.RWMutex
	store map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{store: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.store[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.store[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.store, key)
	m.mu.Unlock()
	return nil
}

var _ domain.CartStorage = (*MemoryStorage)(nil)
