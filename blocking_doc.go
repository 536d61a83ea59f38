package xydeque

// Advanced: Blocking, Timeout and Shutdown Patterns
//
// xydeque exposes a non-blocking, concurrency-safe API. The blockingdeque
// subpackage layers waiting pops on top of it with one sync.Mutex and one
// sync.Cond. Its WaitAndPop accepts a millisecond timeout with three meanings:
//
//	bq := blockingdeque.New[Tick]()
//	v, ok, err := bq.WaitAndPop(blockingdeque.NoWait)      // never blocks
//	v, ok, err = bq.WaitAndPop(blockingdeque.WaitForever)  // blocks until data or close
//	v, ok, err = bq.WaitAndPop(250)                        // blocks at most 250ms
//
// Design notes:
//   - Pushes wake at most one waiter; which one is unspecified.
//   - Waiters always re-check in a loop, so NotifyAll and spurious wake-ups
//     never hand out a value that is not there.
//   - Timed waits keep the deadline fixed at call entry; wake-ups that find
//     the deque empty do not extend it.
//   - Negative timeouts other than -1 are rejected with ErrInvalidTimeout.
//
// Shutdown is explicit. Drain stops producers and lets consumers empty the
// deque; Close discards what is left and releases every waiter. Either way,
// waiters observe ErrClosed:
//
//	for {
//	    tick, ok, err := bq.WaitAndPop(100)
//	    if errors.Is(err, blockingdeque.ErrClosed) {
//	        return
//	    }
//	    if !ok {
//	        continue // timed out, check for other work
//	    }
//	    handle(tick)
//	}
//
// The pipeline subpackage packages this loop as a pool of consumer workers.
