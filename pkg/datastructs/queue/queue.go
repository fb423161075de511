package queue

import (
	"context"
	"time"
)

// Queue is a generic interface for FIFO queues.
type Queue[T any] interface {
	// Enqueue adds an item to the queue.
	// Returns true if successful, false if the queue is full.
	Enqueue(item T) bool

	// Dequeue removes and returns an item from the queue.
	// Returns (item, true) if successful, (zero, false) if the queue is empty.
	Dequeue() (T, bool)

	// Capacity returns the total capacity of the queue.
	Capacity() uint64
}

// BlockingQueue extends Queue with blocking and deadline-bounded operations.
// Producers suspend while the queue is full, consumers while it is empty.
type BlockingQueue[T any] interface {
	Queue[T]

	// Put appends an item, blocking until room is available or ctx is done.
	Put(ctx context.Context, item T) error

	// Take removes the head item, blocking until one is available or ctx is done.
	Take(ctx context.Context) (T, error)

	// Offer behaves like Put but gives up after timeout.
	// Returns true if the item was inserted.
	Offer(item T, timeout time.Duration) bool

	// Poll behaves like Take but gives up after timeout.
	// Returns (zero, false) if no item arrived in time.
	Poll(timeout time.Duration) (T, bool)

	// Len returns the number of items currently buffered.
	Len() int
}
