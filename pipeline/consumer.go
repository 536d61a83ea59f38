package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/xyhelper/xydeque/blockingdeque"
)

var (
	// ErrRequeue tells the Consumer to push the element back to the front of
	// the deque. Wrap it to keep a cause: fmt.Errorf("%w: venue busy", ErrRequeue).
	ErrRequeue = errors.New("pipeline: requeue")

	// ErrRunning is returned by Run when the Consumer is already running.
	ErrRunning = errors.New("pipeline: consumer already running")
)

// Handler processes one element taken from the deque.
type Handler[T any] interface {
	Handle(ctx context.Context, v T) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[T any] func(ctx context.Context, v T) error

// Handle calls f(ctx, v).
func (f HandlerFunc[T]) Handle(ctx context.Context, v T) error { return f(ctx, v) }

// Consumer drains a blocking deque with a pool of workers.
type Consumer[T any] struct {
	dq      *blockingdeque.Deque[T]
	h       Handler[T]
	opts    options
	log     *zap.SugaredLogger
	stats   counters
	running atomic.Bool
}

// New creates a Consumer for dq that hands elements to h.
func New[T any](dq *blockingdeque.Deque[T], h Handler[T], opts ...Option) *Consumer[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Consumer[T]{
		dq:   dq,
		h:    h,
		opts: o,
		log:  o.logger.With("consumer", o.name),
	}
}

// Run starts the workers and blocks until all of them exit. It returns nil
// when the deque closed, ctx.Err() when ctx ended the run, or ErrRunning if
// Run is already in progress.
func (c *Consumer[T]) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !c.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer c.running.Store(false)

	c.log.Infow("consumer started", "workers", c.opts.workers, "poll", c.pollString())
	var wg sync.WaitGroup
	for i := 0; i < c.opts.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.work(ctx, id)
		}(i)
	}
	wg.Wait()

	s := c.stats.snapshot()
	c.log.Infow("consumer stopped",
		"processed", s.Processed,
		"failed", s.Failed,
		"requeued", s.Requeued,
	)
	return ctx.Err()
}

// Stats returns a snapshot of the consumer's counters.
func (c *Consumer[T]) Stats() Stats { return c.stats.snapshot() }

func (c *Consumer[T]) work(ctx context.Context, id int) {
	for ctx.Err() == nil {
		v, ok, err := c.next(ctx)
		switch {
		case errors.Is(err, blockingdeque.ErrClosed):
			c.log.Debugw("deque closed, worker exiting", "worker", id)
			return
		case blockingdeque.IsContextError(err):
			return
		case err != nil:
			c.log.Errorw("wait failed, worker exiting", "worker", id, "error", err)
			return
		case !ok:
			c.stats.idle.Add(1)
			continue
		}
		c.handle(ctx, id, v)
	}
}

// next waits for one element using the configured discipline.
func (c *Consumer[T]) next(ctx context.Context) (T, bool, error) {
	if c.opts.poll < 0 {
		v, err := c.dq.PopFront(ctx)
		return v, err == nil, err
	}
	return c.dq.WaitAndPop(c.pollMillis())
}

func (c *Consumer[T]) handle(ctx context.Context, id int, v T) {
	defer func() {
		if r := recover(); r != nil {
			c.stats.failed.Add(1)
			c.log.Errorw("handler panic", "worker", id, "panic", r)
		}
	}()

	err := c.h.Handle(ctx, v)
	switch {
	case err == nil:
		c.stats.processed.Add(1)
	case errors.Is(err, ErrRequeue):
		if c.dq.PushFront(v) {
			c.stats.requeued.Add(1)
			c.log.Debugw("element requeued", "worker", id, "reason", err)
			return
		}
		c.stats.failed.Add(1)
		c.log.Warnw("requeue rejected, deque not running", "worker", id, "state", c.dq.State())
	default:
		c.stats.failed.Add(1)
		c.log.Warnw("handler failed", "worker", id, "error", err)
	}
}

func (c *Consumer[T]) pollMillis() int {
	ms := int((c.opts.poll + time.Millisecond - 1) / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	return ms
}

func (c *Consumer[T]) pollString() string {
	if c.opts.poll < 0 {
		return "forever"
	}
	return c.opts.poll.String()
}
