package xydeque

import (
	"sync"

	"github.com/edwingeng/deque/v2"
)

// Deque is a generic, concurrency-safe double-ended queue. Storage is a
// chunked ring from github.com/edwingeng/deque/v2, so pushes and pops at
// either end do not move the remaining elements. The zero value is not ready
// for use; construct via New.
type Deque[T any] struct {
	mu    sync.Mutex
	items *deque.Deque[T]
}

// New creates an empty deque.
func New[T any]() *Deque[T] {
	return &Deque[T]{items: deque.NewDeque[T]()}
}

// PushFront inserts v at the head, ahead of every element already queued.
// Amortized complexity: O(1).
func (d *Deque[T]) PushFront(v T) {
	d.mu.Lock()
	d.items.PushFront(v)
	d.mu.Unlock()
}

// PushBack appends v to the tail. Amortized complexity: O(1).
func (d *Deque[T]) PushBack(v T) {
	d.mu.Lock()
	d.items.PushBack(v)
	d.mu.Unlock()
}

// PushBackMany appends items to the tail in order and returns how many were
// added. Amortized complexity: O(k) for k items.
func (d *Deque[T]) PushBackMany(items ...T) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, v := range items {
		d.items.PushBack(v)
	}
	return len(items)
}

// PopFront removes and returns the head value.
//
// The second result is false when the deque is empty.
func (d *Deque[T]) PopFront() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.items.TryPopFront()
}

// PopBack removes and returns the tail value.
//
// The second result is false when the deque is empty.
func (d *Deque[T]) PopBack() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.items.TryPopBack()
}

// PeekFront returns the head value without removing it.
// The second result is false when the deque is empty.
func (d *Deque[T]) PeekFront() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.items.Front()
}

// Len returns the number of elements currently queued.
func (d *Deque[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.items.Len()
}

// IsEmpty reports whether the deque is empty. Equivalent to Len() == 0.
func (d *Deque[T]) IsEmpty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.items.IsEmpty()
}

// ToSlice returns a copy of the deque's contents from front to back.
// Complexity: O(n). The returned slice is independent of the deque.
func (d *Deque[T]) ToSlice() []T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.items.Dump()
}

// TakeAll removes every element and returns them from front to back. The
// result is nil when the deque was already empty. Use it to clear the deque.
func (d *Deque[T]) TakeAll() []T {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.items.IsEmpty() {
		return nil
	}
	out := d.items.Dump()
	d.items.Clear()
	return out
}
