package queue

import (
	"context"
	"fmt"
	"sync"
	"time"
)

/*
Queue holds the tasks to grow the trees of forests. A worker pulls a task,
grows its tree and then either completes the task or drops it so another
worker can pull it again.

Every method takes a context.Context that implementations use to allow
timeouts and cancellations of the operation.
*/
type Queue interface {
	// Push adds the task to the queue as pending. Pushing a task with
	// the ID of a task already pending or running has no effect.
	Push(context.Context, *Task) error
	// Pull takes a pending task and marks it as running. It returns the
	// task along with a context for its processing and the function to
	// cancel that context. When no task is pending it returns 4 nil
	// values. Workers must complete or drop every task they pull.
	Pull(context.Context) (*Task, context.Context, context.CancelFunc, error)
	// Drop takes the ID of a running task and makes it pending again.
	// Dropping a task that is not running has no effect.
	Drop(context.Context, string) error
	// Complete takes the ID of a running task and removes it from the
	// queue.
	Complete(context.Context, string) error
	// Count returns the number of pending and running tasks.
	Count(context.Context) (int, int, error)
	// Stop frees the resources of the queue and cancels the contexts
	// of the running tasks.
	Stop(context.Context) error
}

type memQueue struct {
	pending   []*Task
	queued    map[string]bool
	running   map[string]*Task
	lock      sync.RWMutex
	ctx       context.Context
	ctxCancel context.CancelFunc
}

// New returns a queue backed only by the process memory
func New() Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &memQueue{
		queued:    make(map[string]bool),
		running:   make(map[string]*Task),
		ctx:       ctx,
		ctxCancel: cancel,
	}
}

/*
WaitFor takes a context and a queue and polls the queue every second until
it has no pending nor running tasks. It returns the context error if it is
cancelled or times out before that, and the error of Count if it fails.

Use it to wait for the trees of a seeded forest to be grown by workers on
other goroutines or processes.
*/
func WaitFor(ctx context.Context, q Queue) error {
	return waitFor(ctx, q, time.Second)
}

func waitFor(ctx context.Context, q Queue, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		pending, running, err := q.Count(ctx)
		if err != nil {
			return err
		}
		if pending+running == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (mq *memQueue) Push(ctx context.Context, t *Task) error {
	return mq.withLock(ctx, func() error {
		id := t.ID()
		if mq.queued[id] {
			return nil
		}
		if _, ok := mq.running[id]; ok {
			return nil
		}
		mq.queued[id] = true
		mq.pending = append(mq.pending, t)
		return nil
	})
}

func (mq *memQueue) Pull(ctx context.Context) (*Task, context.Context, context.CancelFunc, error) {
	var t *Task
	err := mq.withLock(ctx, func() error {
		if len(mq.pending) == 0 {
			return nil
		}
		t = mq.pending[0]
		mq.pending[0] = nil
		mq.pending = mq.pending[1:]
		id := t.ID()
		delete(mq.queued, id)
		mq.running[id] = t
		return nil
	})
	if err != nil || t == nil {
		return nil, nil, nil, err
	}
	tctx, tcf := context.WithCancel(mq.ctx)
	return t, tctx, tcf, nil
}

func (mq *memQueue) Drop(ctx context.Context, id string) error {
	return mq.withLock(ctx, func() error {
		t, ok := mq.running[id]
		if !ok {
			return nil
		}
		delete(mq.running, id)
		mq.queued[id] = true
		mq.pending = append(mq.pending, t)
		return nil
	})
}

func (mq *memQueue) Complete(ctx context.Context, id string) error {
	return mq.withLock(ctx, func() error {
		delete(mq.running, id)
		return nil
	})
}

func (mq *memQueue) Count(ctx context.Context) (pending int, running int, err error) {
	err = mq.withRLock(ctx, func() error {
		pending = len(mq.pending)
		running = len(mq.running)
		return nil
	})
	return
}

func (mq *memQueue) Stop(ctx context.Context) error {
	mq.ctxCancel()
	return nil
}

func (mq *memQueue) String() string {
	mq.lock.RLock()
	defer mq.lock.RUnlock()
	return fmt.Sprintf("{Queue pending: %v running: %d}", mq.pending, len(mq.running))
}

func (mq *memQueue) withLock(ctx context.Context, f func() error) error {
	return withContext(ctx, mq.lock.Lock, mq.lock.Unlock, f)
}

func (mq *memQueue) withRLock(ctx context.Context, f func() error) error {
	return withContext(ctx, mq.lock.RLock, mq.lock.RUnlock, f)
}

/*
withContext runs f holding the lock taken with lock and released with
unlock, unless ctx is done before the lock is acquired, in which case it
returns the context error without running f.
*/
func withContext(ctx context.Context, lock, unlock func(), f func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	acquired := make(chan struct{})
	go func() {
		lock()
		select {
		case <-ctx.Done():
			unlock()
		case acquired <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-acquired:
	}
	defer unlock()
	return f()
}
