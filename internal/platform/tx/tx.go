package tx

import (
	"context"
	"sync"
)

// Manager serializes read-modify-write work on a shared resource, such as a
// log document, identified by key.
type Manager interface {
	Within(ctx context.Context, key string, fn func(context.Context) error) error
}

// KeyedManager holds one lock per key. Waiting honors ctx cancellation.
type KeyedManager struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewKeyedManager() *KeyedManager {
	return &KeyedManager{locks: map[string]chan struct{}{}}
}

func (m *KeyedManager) Within(ctx context.Context, key string, fn func(context.Context) error) error {
	lock := m.lockFor(key)
	select {
	case lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock }()
	return fn(ctx)
}

func (m *KeyedManager) lockFor(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[key]
	if !ok {
		lock = make(chan struct{}, 1)
		m.locks[key] = lock
	}
	return lock
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, _ string, fn func(context.Context) error) error {
	return fn(ctx)
}
