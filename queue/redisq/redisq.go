/*
Package redisq provides a queue.Queue backed by a redis DB, so workers in
several processes can share the tasks of growing a forest.
*/
package redisq

import (
	"context"
	"fmt"
	"time"

	"github.com/pbanos/sprout/queue"
	redis "gopkg.in/redis.v5"
)

/*
EncodeDecoder turns tasks into the bytes stored on redis and back.
*/
type EncodeDecoder interface {
	Encode(context.Context, *queue.Task) ([]byte, error)
	Decode(context.Context, []byte) (*queue.Task, error)
}

// DefaultLockTTL is the lock duration used when New is given none
const DefaultLockTTL = 5 * time.Second

const lockRetries = 5

const countScript = `return {redis.call("SCARD", KEYS[1]), redis.call("SCARD", KEYS[2])}`

type redisQ struct {
	keys
	rc         *redis.Client
	ctx        context.Context
	cancel     context.CancelFunc
	taskMaxRun time.Duration
	lockTTL    time.Duration
	codec      EncodeDecoder
}

/*
New returns a queue.Queue storing its tasks on the given redis client
under keys prefixed with id, encoded with the given EncodeDecoder.

A pulled task is marked as running for taskMaxRun; a task whose mark
expires before it is completed or dropped is considered abandoned by a
failed worker and dropped back to pending by a cleanup goroutine. A zero
taskMaxRun never expires the marks and runs no cleanup. Task updates are
serialized with locks lasting lockTTL, DefaultLockTTL if not positive.

The returned queue is safe for concurrent use by multiple goroutines and
processes.
*/
func New(id string, rc *redis.Client, taskMaxRun, lockTTL time.Duration, codec EncodeDecoder) queue.Queue {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	ctx, cancel := context.WithCancel(context.Background())
	rq := &redisQ{
		keys:       keys(id),
		rc:         rc,
		ctx:        ctx,
		cancel:     cancel,
		taskMaxRun: taskMaxRun,
		lockTTL:    lockTTL,
		codec:      codec,
	}
	if taskMaxRun > 0 {
		go rq.dropAbandoned(taskMaxRun / 2)
	}
	return rq
}

func (rq *redisQ) Push(ctx context.Context, t *queue.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := rq.codec.Encode(ctx, t)
	if err != nil {
		return fmt.Errorf("pushing task %s: encoding: %v", t.ID(), err)
	}
	taskKey := rq.task(t.ID())
	stored, err := rq.rc.SetNX(data(taskKey), encoded, 0).Result()
	if err != nil {
		return fmt.Errorf("pushing task %s: %v", t.ID(), err)
	}
	if !stored {
		// already pending or running
		return nil
	}
	if err = rq.rc.SAdd(rq.pending(), taskKey).Err(); err != nil {
		rq.rc.Del(data(taskKey))
		return fmt.Errorf("pushing task %s: adding to %q: %v", t.ID(), rq.pending(), err)
	}
	return nil
}

func (rq *redisQ) Pull(ctx context.Context) (*queue.Task, context.Context, context.CancelFunc, error) {
	iter := rq.rc.SScan(rq.pending(), 0, "", 0).Iterator()
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}
		taskKey := iter.Val()
		t, err := rq.claim(ctx, taskKey)
		if err != nil || t == nil {
			continue
		}
		tctx, tcf := rq.taskContext()
		return t, tctx, tcf, nil
	}
	if err := iter.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("scanning pending tasks in %q: %v", rq.pending(), err)
	}
	return nil, nil, nil, nil
}

// claim marks the task with the given key as running and returns it,
// dropping it back if it cannot be decoded.
func (rq *redisQ) claim(ctx context.Context, taskKey string) (*queue.Task, error) {
	err := withTaskLock(ctx, rq.rc, taskKey, rq.lockTTL, 0, func(ctx context.Context) error {
		marked, err := rq.rc.SetNX(runningMark(taskKey), "true", rq.taskMaxRun).Result()
		if err != nil {
			return err
		}
		if !marked {
			return fmt.Errorf("task %q already running", taskKey)
		}
		moved, err := rq.rc.SMove(rq.pending(), rq.running(), taskKey).Result()
		if err != nil || !moved {
			rq.rc.Del(runningMark(taskKey))
			if err == nil {
				err = fmt.Errorf("task %q no longer pending", taskKey)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	id := rq.taskID(taskKey)
	encoded, err := rq.rc.Get(data(taskKey)).Bytes()
	if err != nil {
		rq.Drop(ctx, id)
		return nil, err
	}
	t, err := rq.codec.Decode(ctx, encoded)
	if err != nil {
		rq.Drop(ctx, id)
		return nil, err
	}
	return t, nil
}

func (rq *redisQ) taskContext() (context.Context, context.CancelFunc) {
	if rq.taskMaxRun == 0 {
		return context.WithCancel(rq.ctx)
	}
	return context.WithTimeout(rq.ctx, rq.taskMaxRun)
}

func (rq *redisQ) Drop(ctx context.Context, id string) error {
	taskKey := rq.task(id)
	err := withTaskLock(ctx, rq.rc, taskKey, rq.lockTTL, lockRetries, func(ctx context.Context) error {
		moved, err := rq.rc.SMove(rq.running(), rq.pending(), taskKey).Result()
		if err != nil || !moved {
			return err
		}
		return rq.rc.Del(runningMark(taskKey)).Err()
	})
	if err != nil {
		return fmt.Errorf("dropping task %s: %v", id, err)
	}
	return nil
}

func (rq *redisQ) Complete(ctx context.Context, id string) error {
	taskKey := rq.task(id)
	err := withTaskLock(ctx, rq.rc, taskKey, rq.lockTTL, lockRetries, func(ctx context.Context) error {
		removed, err := rq.rc.SRem(rq.running(), taskKey).Result()
		if err != nil || removed == 0 {
			return err
		}
		return rq.rc.Del(runningMark(taskKey), data(taskKey)).Err()
	})
	if err != nil {
		return fmt.Errorf("completing task %s: %v", id, err)
	}
	return nil
}

/*
Count returns the cardinality of the pending and running sets, read in a
single script so a task moving between them is not missed.
*/
func (rq *redisQ) Count(ctx context.Context) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	v, err := rq.rc.Eval(countScript, []string{rq.pending(), rq.running()}).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("counting tasks: %v", err)
	}
	counts, ok := v.([]interface{})
	if !ok || len(counts) != 2 {
		return 0, 0, fmt.Errorf("counting tasks: unexpected reply %v", v)
	}
	pending, pok := counts[0].(int64)
	running, rok := counts[1].(int64)
	if !pok || !rok {
		return 0, 0, fmt.Errorf("counting tasks: unexpected counts %v", counts)
	}
	return int(pending), int(running), nil
}

func (rq *redisQ) Stop(context.Context) error {
	rq.cancel()
	return nil
}

func (rq *redisQ) String() string {
	return fmt.Sprintf("{redis queue %s}", string(rq.keys))
}

// dropAbandoned drops every running task whose running mark has expired,
// checking every interval until the queue is stopped.
func (rq *redisQ) dropAbandoned(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		iter := rq.rc.SScan(rq.running(), 0, "", 0).Iterator()
		for iter.Next() && rq.ctx.Err() == nil {
			taskKey := iter.Val()
			var abandoned bool
			withTaskLock(rq.ctx, rq.rc, taskKey, rq.lockTTL, 0, func(ctx context.Context) error {
				marked, err := rq.rc.Exists(runningMark(taskKey)).Result()
				abandoned = err == nil && !marked
				return err
			})
			if abandoned {
				rq.Drop(rq.ctx, rq.taskID(taskKey))
			}
		}
		select {
		case <-rq.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
