// Package layout persists per-node position overrides and view preferences
// in a durable key-value backend and resolves the position each node is drawn at.
package layout

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned by a Backend when the key has never been written
	ErrNotFound = errors.New("layout: key not found")

	// ErrUnknownBackend is returned by NewBackend for an unsupported kind
	ErrUnknownBackend = errors.New("layout: unknown backend")

	// ErrClosed is returned by Flush after Close
	ErrClosed = errors.New("layout: store closed")
)

// Backend is a durable key-value store holding whole documents under fixed keys
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// MemoryBackend keeps documents in process memory. It survives Store
// re-opens within one process, which is what tests and the CLI default use.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v := make([]byte, len(value))
	copy(v, value)

	m.mu.Lock()
	m.data[key] = v
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
