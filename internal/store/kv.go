// Package store persists one durable JSON record per interview session
// behind a narrow key-value contract.
package store

import (
	"context"
	"sync"
)

// KV is the minimal durable primitive the session adapter builds on: one
// opaque blob per key, replaced wholesale on write.
type KV interface {
	// Get returns the stored blob for key, reporting whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put replaces the blob for key.
	Put(ctx context.Context, key string, value []byte) error
}

// MemoryKV implements KV with a mutex-guarded map, suitable for tests and
// for running without a database.
type MemoryKV struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string][]byte)}
}

// Get returns a copy of the stored blob.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Put stores a copy of value under key.
func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = append([]byte(nil), value...)
	return nil
}
