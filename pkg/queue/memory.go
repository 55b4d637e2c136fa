package queue

import (
	"errors"
	"sync"
)

// ErrQueueFull is returned when an enqueue would exceed the queue's capacity.
var ErrQueueFull = errors.New("queue is full")

// InMemoryQueue implements a bounded in-memory queue backed by a channel.
type InMemoryQueue struct {
	ch   chan interface{}
	lock sync.RWMutex
}

// NewInMemoryQueue creates a new queue with the given capacity.
func NewInMemoryQueue(capacity int) *InMemoryQueue {
	return &InMemoryQueue{
		ch: make(chan interface{}, capacity),
	}
}

// Enqueue adds an item to the end of the queue.
func (q *InMemoryQueue) Enqueue(item interface{}) error {
	q.lock.Lock()
	defer q.lock.Unlock()
	select {
	case q.ch <- item:
		return nil
	default:
		return ErrQueueFull
	}
}

// DrainAll removes and returns all pending items in the queue.
func (q *InMemoryQueue) DrainAll() []interface{} {
	q.lock.Lock()
	defer q.lock.Unlock()

	var items []interface{}
	for len(q.ch) > 0 {
		items = append(items, <-q.ch)
	}

	return items
}

// Size returns the current size of the queue.
func (q *InMemoryQueue) Size() int {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return len(q.ch)
}

// Clear discards all pending items in the queue.
func (q *InMemoryQueue) Clear() {
	q.lock.Lock()
	defer q.lock.Unlock()

	for len(q.ch) > 0 {
		<-q.ch
	}
}
