package sprout

import (
	"time"

	"go.uber.org/zap"
)

const defaultEmptyQueueSleep = 10 * time.Millisecond

type options struct {
	logger          *zap.Logger
	parallel        bool
	workers         int
	emptyQueueSleep time.Duration
}

// Option configures how trees and forests are grown
type Option func(*options)

// WithLogger makes growing log its decisions on the given logger
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithParallelBranches makes growing develop the two children of every
// split in separate goroutines
func WithParallelBranches(parallel bool) Option {
	return func(o *options) {
		o.parallel = parallel
	}
}

// WithWorkers sets the number of workers growing the trees of a forest
// at the same time
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithEmptyQueueSleep sets how long workers wait before pulling again
// from a queue with no pending tasks but some running ones
func WithEmptyQueueSleep(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.emptyQueueSleep = d
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:          zap.NewNop(),
		workers:         1,
		emptyQueueSleep: defaultEmptyQueueSleep,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
