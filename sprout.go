package sprout

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/pbanos/sprout/dataset"
	"github.com/pbanos/sprout/queue"
	"github.com/pbanos/sprout/splitting"
	"github.com/pbanos/sprout/tree"
	"go.uber.org/zap"
)

// NewForestID returns an identifier for a new forest
func NewForestID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

/*
Seed takes a context, a forest ID, the datasets to grow each tree of the
forest from, a maximum depth, the name of a splitting criterion and a
queue, and pushes onto the queue one task per dataset to grow the tree at
that index of the forest. It returns an error if the criterion is unknown,
there are no datasets or a task cannot be pushed.
*/
func Seed(ctx context.Context, forestID string, datasets []*dataset.Dataset, maxDepth int, criterion string, q queue.Queue) error {
	if len(datasets) == 0 {
		return fmt.Errorf("seeding forest %s: no datasets", forestID)
	}
	c, err := splitting.Resolve(criterion)
	if err != nil {
		return err
	}
	for i, ds := range datasets {
		err = q.Push(ctx, &queue.Task{
			Forest:    forestID,
			Index:     i,
			Dataset:   ds,
			MaxDepth:  maxDepth,
			Criterion: c.Name,
		})
		if err != nil {
			return fmt.Errorf("pushing task for tree %d of forest %s: %w", i, forestID, err)
		}
	}
	return nil
}

/*
Work takes a context, a queue, a tree store and options and enters a loop
in which it:
  - pulls a task from the queue,
  - grows the tree for the task,
  - puts the tree in the store under the key for its forest and index,
  - marks the task as completed on the queue.

If no task can be pulled and the queue has no pending nor running tasks,
Work ends returning nil. If no task can be pulled but some are still
running, it sleeps for the empty queue sleep duration and retries.

Work returns a non-nil error if the given context times out or is
cancelled, if growing a tree fails or if an operation with the queue or
the store returns a non-nil error. Tasks that are not completed are
dropped back onto the queue.
*/
func Work(ctx context.Context, q queue.Queue, s tree.Store, opts ...Option) error {
	o := newOptions(opts)
	for {
		task, tctx, tcf, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			p, r, err := q.Count(ctx)
			if err != nil {
				return err
			}
			if r+p == 0 {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(o.emptyQueueSleep):
			}
			continue
		}
		mctx, cancel := mergeCtxCancel(tctx, ctx)
		err = workTask(mctx, task, q, s, opts)
		cancel()
		tcf()
		if err != nil {
			return err
		}
		o.logger.Info("grew tree", zap.String("forest", task.Forest), zap.Int("index", task.Index))
		if err = ctx.Err(); err != nil {
			return err
		}
	}
}

func workTask(ctx context.Context, task *queue.Task, q queue.Queue, s tree.Store, opts []Option) error {
	defer func() {
		q.Drop(ctx, task.ID())
	}()
	c, err := splitting.Resolve(task.Criterion)
	if err != nil {
		return err
	}
	t, err := Grow(ctx, task.Dataset, task.MaxDepth, c, opts...)
	if err != nil {
		return fmt.Errorf("growing tree %d of forest %s: %w", task.Index, task.Forest, err)
	}
	err = s.Put(ctx, tree.Key(task.Forest, task.Index), t)
	if err != nil {
		return err
	}
	return q.Complete(ctx, task.ID())
}

func mergeCtxCancel(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	mctx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-mctx.Done():
		case <-ctx2.Done():
			cancel()
		}
	}()
	return mctx, cancel
}

/*
TrainForest takes a context, the datasets to grow each tree from, a maximum
depth, a splitting criterion and options and returns the forest with one
tree grown from each dataset, in the order of the datasets. Trees are
grown by as many workers as set with WithWorkers over a queue and a store
in memory. The first error of any worker cancels the rest and is
returned.
*/
func TrainForest(ctx context.Context, datasets []*dataset.Dataset, maxDepth int, c *splitting.Criterion, opts ...Option) (*tree.Forest, error) {
	if c == nil {
		return nil, fmt.Errorf("no splitting criterion")
	}
	o := newOptions(opts)
	q := queue.New()
	defer q.Stop(ctx)
	s := tree.NewMemoryStore()
	defer s.Close(ctx)
	forestID := NewForestID()
	err := Seed(ctx, forestID, datasets, maxDepth, c.Name, q)
	if err != nil {
		return nil, err
	}
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup
	var once sync.Once
	var werr error
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := Work(wctx, q, s, opts...); err != nil {
				once.Do(func() {
					werr = err
					cancel()
				})
			}
		}()
	}
	wg.Wait()
	if werr != nil {
		return nil, werr
	}
	return tree.LoadForest(ctx, s, forestID, len(datasets))
}
