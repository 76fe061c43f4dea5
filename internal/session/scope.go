// Package session persists the current actor across requests, processes and
// browser tabs. A Store reads and writes a model.Session over two injected
// storage scopes: a durable one for tenant credentials and a tab-scoped one for
// the master flag.
package session

import (
	"context"
	"sync"
)

// Scope is a key-value storage scope. Implementations must make a completed
// Set or Delete visible to the next Get on the same scope.
type Scope interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryScope is an in-process Scope.
type MemoryScope struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryScope returns an empty MemoryScope.
func NewMemoryScope() *MemoryScope {
	return &MemoryScope{values: make(map[string]string)}
}

func (m *MemoryScope) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryScope) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryScope) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryScope) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
