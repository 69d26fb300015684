// Package mailbox provides a single-slot job buffer where the latest job
// always wins. It is not a queue: a burst of triggers collapses into one
// pending backup instead of a backlog.
package mailbox

import (
	"context"
	"sync"
)

type Mailbox[T any] struct {
	mu    sync.Mutex
	job   *T
	ready chan struct{}
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{ready: make(chan struct{}, 1)}
}

// Put stores a job, replacing any job already waiting. It never blocks.
func (m *Mailbox[T]) Put(j T) {
	m.mu.Lock()
	m.job = &j
	m.mu.Unlock()

	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// Take blocks until a job is available or the context is cancelled.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	for {
		if j, ok := m.TryTake(); ok {
			return j, true
		}

		select {
		case <-m.ready:
		case <-ctx.Done():
			var zero T
			return zero, false
		}
	}
}

// TryTake returns the pending job, if any, without blocking.
func (m *Mailbox[T]) TryTake() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.job == nil {
		var zero T
		return zero, false
	}
	j := *m.job
	m.job = nil
	return j, true
}
