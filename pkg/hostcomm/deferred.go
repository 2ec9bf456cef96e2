// Package hostcomm implements the bidirectional, versioned, origin-validated
// message bus between a Loom app and the host page embedding it. Inbound
// messages failing the version or origin check are dropped without side
// effects; this boundary fails closed and fails silent.
package hostcomm

import (
	"context"
	"sync"
)

// Deferred is a single-resolution future. It is created unresolved, resolves
// at most once, and hands the value to any number of waiters. Resolving an
// already-resolved Deferred is a harmless no-op.
type Deferred[T any] struct {
	mu       sync.Mutex
	done     chan struct{}
	value    T
	resolved bool
}

// NewDeferred creates an unresolved Deferred.
func NewDeferred[T any]() *Deferred[T] {
	return &Deferred[T]{done: make(chan struct{})}
}

// Resolve sets the value and releases all waiters. It reports whether this
// call performed the resolution.
func (d *Deferred[T]) Resolve(value T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.resolved {
		return false
	}
	d.value = value
	d.resolved = true
	close(d.done)
	return true
}

// Resolved reports whether the value has been set.
func (d *Deferred[T]) Resolved() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resolved
}

// Wait blocks until the value is resolved or the context ends. There is no
// built-in timeout; callers bound the wait through ctx.
func (d *Deferred[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
