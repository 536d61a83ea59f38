// Package xydeque provides a generic double-ended queue.
//
// The deque is concurrency-safe: all exported methods use internal locking and
// may be called from multiple goroutines. Construct a deque with New. Values
// can be inserted and removed at either end and no method ever blocks. For
// producer/consumer hand-off with waiting pops, see the blockingdeque
// subpackage.
package xydeque
