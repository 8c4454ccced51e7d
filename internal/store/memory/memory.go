// Package memory is a process-local Backend, used for tests and for
// running without persistence.
package memory

import (
	"context"
	"sync"
)

type Backend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func New() *Backend {
	return &Backend{values: make(map[string][]byte)}
}

func (b *Backend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (b *Backend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.values[key] = append([]byte(nil), value...)
	return nil
}

func (b *Backend) Close() error { return nil }
