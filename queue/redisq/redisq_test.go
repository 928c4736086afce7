package redisq

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pbanos/sprout/queue"
	redis "gopkg.in/redis.v5"
)

type idEncodeDecoder struct{}

func (idEncodeDecoder) Encode(_ context.Context, t *queue.Task) ([]byte, error) {
	return []byte(fmt.Sprintf("%s %d", t.Forest, t.Index)), nil
}

func (idEncodeDecoder) Decode(_ context.Context, data []byte) (*queue.Task, error) {
	t := &queue.Task{}
	_, err := fmt.Sscanf(string(data), "%s %d", &t.Forest, &t.Index)
	return t, err
}

func TestKeys(t *testing.T) {
	k := keys("q1")
	taskKey := k.task("forest-3")
	testCases := []struct {
		got, expected string
	}{
		{taskKey, "q1:task:forest-3"},
		{k.taskID(taskKey), "forest-3"},
		{k.pending(), "q1:pending"},
		{k.running(), "q1:running"},
		{data(taskKey), "q1:task:forest-3:data"},
		{lock(taskKey), "q1:task:forest-3:lock"},
		{runningMark(taskKey), "q1:task:forest-3:running"},
	}
	for _, tc := range testCases {
		if tc.got != tc.expected {
			t.Errorf("expected key %s, got %s", tc.expected, tc.got)
		}
	}
	if s := randString(20); len(s) != 20 {
		t.Errorf("expected a 20 characters string, got %q", s)
	}
}

func TestQueue(t *testing.T) {
	addr := os.Getenv("SPROUT_TEST_REDIS")
	if addr == "" {
		t.Skip("SPROUT_TEST_REDIS not set")
	}
	ctx := context.Background()
	rc := redis.NewClient(&redis.Options{Addr: addr})
	defer rc.Close()
	q := New(fmt.Sprintf("sprout-test-%s", randString(6)), rc, time.Minute, time.Second, idEncodeDecoder{})
	defer q.Stop(ctx)
	for i := 0; i < 3; i++ {
		if err := q.Push(ctx, &queue.Task{Forest: "f", Index: i}); err != nil {
			t.Fatalf("unexpected error pushing: %v", err)
		}
	}
	seen := make(map[int]bool)
	for {
		task, _, tcf, err := q.Pull(ctx)
		if err != nil {
			t.Fatalf("unexpected error pulling: %v", err)
		}
		if task == nil {
			break
		}
		tcf()
		seen[task.Index] = true
		if err = q.Complete(ctx, task.ID()); err != nil {
			t.Fatalf("unexpected error completing: %v", err)
		}
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 tasks pulled, got %v", seen)
	}
	p, r, err := q.Count(ctx)
	if err != nil || p+r != 0 {
		t.Errorf("expected an empty queue, got %d pending %d running, %v", p, r, err)
	}
}
