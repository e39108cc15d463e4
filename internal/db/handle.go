package db

import (
	"context"
	"sync/atomic"
)

// Handle is a lazily connected, process-wide resource. The first successful
// connect wins and is reused by every later caller; a failed attempt is not
// cached, so the next Get tries again.
type Handle[T any] struct {
	connect func(ctx context.Context) (T, error)
	value   atomic.Pointer[T]
	sem     chan struct{}
}

func NewHandle[T any](connect func(ctx context.Context) (T, error)) *Handle[T] {
	return &Handle[T]{
		connect: connect,
		sem:     make(chan struct{}, 1),
	}
}

// Get returns the shared resource, connecting on first use. Concurrent callers
// wait for the in-flight attempt instead of starting their own.
func (h *Handle[T]) Get(ctx context.Context) (T, error) {
	if v := h.value.Load(); v != nil {
		return *v, nil
	}

	var zero T
	select {
	case h.sem <- struct{}{}:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	defer func() { <-h.sem }()

	if v := h.value.Load(); v != nil {
		return *v, nil
	}

	v, err := h.connect(ctx)
	if err != nil {
		return zero, err
	}
	h.value.Store(&v)
	return v, nil
}

// Peek returns the resource only if a connection was already established.
func (h *Handle[T]) Peek() (T, bool) {
	if v := h.value.Load(); v != nil {
		return *v, true
	}
	var zero T
	return zero, false
}
