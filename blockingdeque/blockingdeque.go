package blockingdeque

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	base "github.com/xyhelper/xydeque"
)

// Timeout values understood by WaitAndPop.
const (
	// NoWait makes WaitAndPop return immediately when the deque is empty.
	NoWait = 0
	// WaitForever makes WaitAndPop block until an element arrives or the
	// deque is closed.
	WaitForever = -1
)

var (
	// ErrClosed is returned by pops once the deque is closed, or while it is
	// draining and nothing is left to hand out.
	ErrClosed = errors.New("blockingdeque: deque is closed")

	// ErrInvalidTimeout is returned by WaitAndPop and PopFrontTimeout for a
	// negative timeout other than the WaitForever sentinel.
	ErrInvalidTimeout = errors.New("blockingdeque: invalid timeout")
)

// Deque is a blocking, concurrency-safe double-ended queue built on xydeque.
// Producers insert at either end; consumers remove from the front and may
// wait for an element to arrive.
//
// A single mutex guards the elements and the lifecycle state, and a single
// condition variable wakes waiting consumers. Which of several waiters is
// woken by a push is unspecified.
//
// All methods are safe for concurrent use by multiple goroutines.
type Deque[T any] struct {
	mu    sync.Mutex
	cv    *sync.Cond
	q     *base.Deque[T]
	state State
	done  chan struct{}
}

// New creates an empty, running deque.
func New[T any]() *Deque[T] {
	b := &Deque[T]{
		q:    base.New[T](),
		done: make(chan struct{}),
	}
	b.cv = sync.NewCond(&b.mu)
	return b
}

// PushFront inserts v at the head, so it is the next element handed out.
// Intended for re-queueing. Wakes at most one waiter. Returns false, without
// inserting, once the deque is draining or closed.
func (b *Deque[T]) PushFront(v T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Running {
		return false
	}
	b.q.PushFront(v)
	b.cv.Signal()
	return true
}

// PushBack appends v to the tail. Wakes at most one waiter. Returns false,
// without inserting, once the deque is draining or closed.
func (b *Deque[T]) PushBack(v T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Running {
		return false
	}
	b.q.PushBack(v)
	b.cv.Signal()
	return true
}

// PushBackMany appends items to the tail and returns the count added, which
// is zero once the deque is draining or closed. Broadcasts once if any
// element is added.
func (b *Deque[T]) PushBackMany(items ...T) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Running {
		return 0
	}
	n := b.q.PushBackMany(items...)
	if n > 0 {
		b.cv.Broadcast()
	}
	return n
}

// NotifyAll wakes every goroutine blocked in a pop without touching the
// elements. Each woken waiter re-checks the deque and goes back to waiting
// if it is still empty and its own deadline has not passed.
func (b *Deque[T]) NotifyAll() {
	b.mu.Lock()
	b.cv.Broadcast()
	b.mu.Unlock()
}

// TryPopFront removes and returns the head value without blocking.
// ok is false if the deque is empty or closed.
func (b *Deque[T]) TryPopFront() (v T, ok bool) {
	b.mu.Lock()
	v, ok = b.popLocked()
	b.mu.Unlock()
	return
}

// PopFront blocks until an element is available, ctx is done, or the deque is
// closed. On success returns (value, nil). On cancellation returns the zero
// value and ctx.Err(); after close it returns ErrClosed.
//
// An element that is already queued is returned even if ctx is done.
func (b *Deque[T]) PopFront(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	// Broadcast on cancellation to wake Wait. The callback takes b.mu, so it
	// cannot fire between the ctx check below and the waiter parking.
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, b.NotifyAll)
		defer stop()
	}
	for {
		if v, ok := b.popLocked(); ok {
			return v, nil
		}
		if b.state == Closed {
			var zero T
			return zero, ErrClosed
		}
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		b.cv.Wait() // releases and re-acquires b.mu
	}
}

// PopFrontTimeout removes and returns the head value, waiting up to d for one
// to arrive. The deadline is fixed when the call starts; wake-ups that find
// the deque still empty keep waiting against it. ok is false when the
// deadline passes first. A zero d never blocks; a negative d is rejected with
// ErrInvalidTimeout.
func (b *Deque[T]) PopFrontTimeout(d time.Duration) (v T, ok bool, err error) {
	switch {
	case d < 0:
		return v, false, fmt.Errorf("%w: %v", ErrInvalidTimeout, d)
	case d == 0:
		return b.popNoWait()
	}
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	v, err = b.PopFront(ctx)
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, context.DeadlineExceeded):
		return v, false, nil
	default:
		return v, false, err
	}
}

// WaitAndPop removes and returns the head value under one of three waiting
// disciplines selected by timeoutMs:
//
//   - NoWait (0): return immediately; ok is false when the deque is empty.
//   - WaitForever (-1): block until an element arrives.
//   - > 0: block for at most timeoutMs milliseconds; ok is false on expiry.
//
// Any other negative value fails with ErrInvalidTimeout without waiting.
// Emptiness and expiry are not errors. err is ErrClosed once the deque is
// closed, or draining with nothing left.
func (b *Deque[T]) WaitAndPop(timeoutMs int) (v T, ok bool, err error) {
	switch {
	case timeoutMs == NoWait:
		return b.popNoWait()
	case timeoutMs == WaitForever:
		v, err = b.PopFront(context.Background())
		return v, err == nil, err
	case timeoutMs > 0:
		return b.PopFrontTimeout(millis(timeoutMs))
	default:
		return v, false, fmt.Errorf("%w: %d", ErrInvalidTimeout, timeoutMs)
	}
}

// millis converts a positive millisecond count to a Duration, saturating at
// the largest Duration instead of overflowing.
func millis(ms int) time.Duration {
	if int64(ms) > math.MaxInt64/int64(time.Millisecond) {
		return math.MaxInt64
	}
	return time.Duration(ms) * time.Millisecond
}

func (b *Deque[T]) popNoWait() (v T, ok bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok = b.popLocked(); ok {
		return v, true, nil
	}
	if b.state == Closed {
		return v, false, ErrClosed
	}
	return v, false, nil
}

// popLocked removes the head while b.mu is held. Taking the last element of
// a draining deque closes it.
func (b *Deque[T]) popLocked() (T, bool) {
	if b.state == Closed {
		var zero T
		return zero, false
	}
	v, ok := b.q.PopFront()
	if ok && b.state == Draining && b.q.IsEmpty() {
		b.closeLocked()
	}
	return v, ok
}

// PeekFront returns the head value without removing it. ok is false when
// empty or closed.
func (b *Deque[T]) PeekFront() (v T, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == Closed {
		return v, false
	}
	return b.q.PeekFront()
}

// Len returns the number of elements currently queued.
func (b *Deque[T]) Len() int {
	b.mu.Lock()
	n := b.q.Len()
	b.mu.Unlock()
	return n
}

// IsEmpty reports whether the deque is empty. The answer may be stale as
// soon as it is returned; use TryPopFront to check and remove atomically.
func (b *Deque[T]) IsEmpty() bool { return b.Len() == 0 }

// Drain stops accepting pushes while letting consumers take what is already
// queued. The deque closes once it is empty, immediately if it already is.
// Calling Drain on a deque that is not running is a no-op.
func (b *Deque[T]) Drain() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Running {
		return
	}
	b.state = Draining
	if b.q.IsEmpty() {
		b.closeLocked()
	}
}

// Close closes the deque at once, wakes every waiter, and returns the
// elements that were still queued, front first. Subsequent calls return nil.
func (b *Deque[T]) Close() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == Closed {
		return nil
	}
	left := b.q.TakeAll()
	b.closeLocked()
	return left
}

func (b *Deque[T]) closeLocked() {
	b.state = Closed
	close(b.done)
	b.cv.Broadcast()
}

// State returns the current lifecycle stage.
func (b *Deque[T]) State() State {
	b.mu.Lock()
	s := b.state
	b.mu.Unlock()
	return s
}

// Done returns a channel that is closed when the deque reaches Closed.
func (b *Deque[T]) Done() <-chan struct{} { return b.done }

// IsContextError reports whether err equals context.Canceled or context.DeadlineExceeded.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
