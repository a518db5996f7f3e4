// Package queue runs a single background worker over a bounded buffer.
// Producers never block: when the buffer is full the item is dropped.
package queue

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type Queue[T any] struct {
	name   string
	items  chan T
	handle func(T)

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// New starts the worker. handle is called for each item in order.
func New[T any](name string, size int, handle func(T)) *Queue[T] {
	if size <= 0 {
		size = 100
	}
	q := &Queue[T]{
		name:   name,
		items:  make(chan T, size),
		handle: handle,
		done:   make(chan struct{}),
	}

	go q.work()
	return q
}

func (q *Queue[T]) work() {
	defer close(q.done)
	for item := range q.items {
		q.handle(item)
	}
}

// Push reports whether item was queued. It returns false after Close or when
// the buffer is full.
func (q *Queue[T]) Push(item T) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}

	select {
	case q.items <- item:
		return true
	default:
		log.Warn().Str("queue", q.name).Msg("queue full, dropping item")
		return false
	}
}

// Close stops accepting items and waits for the queued ones to be handled.
// It is safe to call more than once.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.items)
	}
	q.mu.Unlock()
	<-q.done
}
