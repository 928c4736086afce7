package redisq

import (
	"fmt"
	"strings"
)

/*
keys builds the redis keys of a queue with an ID:
  - ID:pending is a set with the keys of the pending tasks,
  - ID:running is a set with the keys of the running tasks,
  - ID:task:TASK is the key of a task, and the prefix of:
  - ID:task:TASK:data holding the encoded task,
  - ID:task:TASK:lock holding the lock on the task,
  - ID:task:TASK:running marking the task as running until it expires.
*/
type keys string

func (k keys) pending() string {
	return fmt.Sprintf("%s:pending", k)
}

func (k keys) running() string {
	return fmt.Sprintf("%s:running", k)
}

func (k keys) task(taskID string) string {
	return fmt.Sprintf("%s:task:%s", k, taskID)
}

func (k keys) taskID(taskKey string) string {
	return strings.TrimPrefix(taskKey, fmt.Sprintf("%s:task:", k))
}

func data(taskKey string) string {
	return taskKey + ":data"
}

func lock(taskKey string) string {
	return taskKey + ":lock"
}

func runningMark(taskKey string) string {
	return taskKey + ":running"
}
