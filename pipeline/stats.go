package pipeline

import "sync/atomic"

// Stats is a point-in-time snapshot of a Consumer's counters.
type Stats struct {
	Processed uint64 // handled without error
	Failed    uint64 // handler errors, panics and rejected re-queues
	Requeued  uint64 // pushed back to the front after ErrRequeue
	IdlePolls uint64 // timed waits that expired with no element
}

type counters struct {
	processed atomic.Uint64
	failed    atomic.Uint64
	requeued  atomic.Uint64
	idle      atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Processed: c.processed.Load(),
		Failed:    c.failed.Load(),
		Requeued:  c.requeued.Load(),
		IdlePolls: c.idle.Load(),
	}
}
