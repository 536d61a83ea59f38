// Package pipeline runs long-lived consumer workers on a blockingdeque.
//
// A Consumer starts a fixed number of goroutines that loop on the deque and
// pass every element to a Handler, typically a collaborator outside this
// module such as an order router. Workers stop when the deque closes (after
// Drain has emptied it, or after Close) or when the context given to Run is
// done.
//
// A Handler that returns an error wrapping ErrRequeue has its element pushed
// back to the front of the deque, so it is retried before anything queued
// after it. Other errors and panics are logged and counted; the worker keeps
// running.
package pipeline
