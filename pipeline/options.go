package pipeline

import (
	"time"

	"go.uber.org/zap"
)

const (
	defaultWorkers     = 1
	defaultPollTimeout = 100 * time.Millisecond
	defaultName        = "consumer"
)

type options struct {
	workers int
	poll    time.Duration
	logger  *zap.SugaredLogger
	name    string
}

func defaultOptions() options {
	return options{
		workers: defaultWorkers,
		poll:    defaultPollTimeout,
		logger:  zap.NewNop().Sugar(),
		name:    defaultName,
	}
}

// Option configures a Consumer.
type Option func(*options)

// WithWorkers sets the number of worker goroutines. Values below one are
// ignored.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithPollTimeout sets how long each worker waits for an element before
// re-checking its context. A negative d makes workers wait indefinitely; they
// then leave only on close or context cancellation. Zero is ignored. Positive
// values are rounded up to whole milliseconds.
func WithPollTimeout(d time.Duration) Option {
	return func(o *options) {
		switch {
		case d < 0:
			o.poll = -1
		case d > 0:
			o.poll = d
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName sets the name attached to every log entry of the consumer.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}
