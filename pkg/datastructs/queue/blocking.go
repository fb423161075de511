package queue

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidCapacity is returned by NewBlocking for non-positive capacities.
// A zero-capacity queue could never satisfy Put.
var ErrInvalidCapacity = errors.New("queue: capacity must be at least 1")

var _ BlockingQueue[int] = (*Blocking[int])(nil)

// Blocking is a bounded, mutex-guarded MPMC FIFO queue used as a backpressure
// primitive between producers and consumers. Put blocks while the queue is
// full, Take blocks while it is empty. Waiters park on a broadcast channel
// that is closed and replaced after every committed mutation, so a wake is
// only ever a hint: every waiter re-checks the real condition under the lock
// before acting.
//
// The wake channel is captured while the lock is held, before the condition
// check fails. A state change between the failed check and the select is
// therefore never lost: it closes exactly the channel the waiter parks on.
type Blocking[T any] struct {
	mu       sync.Mutex
	items    []T // ring storage, len(items) == capacity
	head     int
	size     int
	capacity int
	wake     chan struct{}
}

// NewBlocking creates a blocking queue with the given fixed capacity.
// Capacity is immutable for the life of the queue.
func NewBlocking[T any](capacity int) (*Blocking[T], error) {
	if capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}
	return &Blocking[T]{
		items:    make([]T, capacity),
		capacity: capacity,
		wake:     make(chan struct{}),
	}, nil
}

// Put appends item to the tail, blocking without spinning while the queue is
// full. It returns nil once the item is inserted, or ctx.Err() if ctx is done
// first. On cancellation the queue is left untouched.
func (q *Blocking[T]) Put(ctx context.Context, item T) error {
	for {
		q.mu.Lock()
		if q.size < q.capacity {
			q.items[(q.head+q.size)%q.capacity] = item
			q.size++
			q.broadcastLocked()
			q.mu.Unlock()
			return nil
		}
		wake := q.wake
		q.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Take removes and returns the head item, blocking while the queue is empty.
// Returns the zero value and ctx.Err() if ctx is done before an item arrives.
func (q *Blocking[T]) Take(ctx context.Context) (T, error) {
	var zero T
	for {
		q.mu.Lock()
		if q.size > 0 {
			item := q.popLocked()
			q.broadcastLocked()
			q.mu.Unlock()
			return item, nil
		}
		wake := q.wake
		q.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// Offer behaves like Put bounded by timeout. Returns true if the item was
// inserted before the deadline. A zero timeout still performs one immediate
// probe before giving up.
func (q *Blocking[T]) Offer(item T, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return q.Put(ctx, item) == nil
}

// Poll behaves like Take bounded by timeout. Returns (zero, false) if no item
// became available before the deadline.
func (q *Blocking[T]) Poll(timeout time.Duration) (T, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	item, err := q.Take(ctx)
	return item, err == nil
}

// TryPut inserts item without blocking. Returns false if the queue is full.
func (q *Blocking[T]) TryPut(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == q.capacity {
		return false
	}
	q.items[(q.head+q.size)%q.capacity] = item
	q.size++
	q.broadcastLocked()
	return true
}

// TryTake removes the head item without blocking. ok is false if empty.
func (q *Blocking[T]) TryTake() (T, bool) {
	var zero T
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == 0 {
		return zero, false
	}
	item := q.popLocked()
	q.broadcastLocked()
	return item, true
}

// Enqueue implements Queue. It is the non-blocking TryPut.
func (q *Blocking[T]) Enqueue(item T) bool { return q.TryPut(item) }

// Dequeue implements Queue. It is the non-blocking TryTake.
func (q *Blocking[T]) Dequeue() (T, bool) { return q.TryTake() }

// Len returns the number of items currently buffered.
func (q *Blocking[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Capacity returns the fixed maximum queue size.
func (q *Blocking[T]) Capacity() uint64 { return uint64(q.capacity) }

// IsEmpty returns true if the queue holds no items.
func (q *Blocking[T]) IsEmpty() bool { return q.Len() == 0 }

// IsFull returns true if the queue is at capacity.
func (q *Blocking[T]) IsFull() bool { return q.Len() == q.capacity }

// popLocked removes the head item. Caller must hold q.mu and have checked
// q.size > 0.
func (q *Blocking[T]) popLocked() T {
	var zero T
	item := q.items[q.head]
	q.items[q.head] = zero // release the reference for GC
	q.head = (q.head + 1) % q.capacity
	q.size--
	return item
}

// broadcastLocked wakes every parked waiter by closing the current wake
// channel and installing a fresh one. Caller must hold q.mu, and must only
// call after a committed mutation.
func (q *Blocking[T]) broadcastLocked() {
	close(q.wake)
	q.wake = make(chan struct{})
}
