package redisq

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	redis "gopkg.in/redis.v5"
)

const releaseScript = `
if redis.call("GET",KEYS[1]) == ARGV[1] then
    return redis.call("DEL",KEYS[1])
else
    return 0
end
`

const failToLockSleep = 10 * time.Millisecond

/*
withTaskLock runs f holding the lock on the task with the given key,
under a context that expires along with the lock. If the lock is taken,
it waits for it to expire and retries up to retries more times before
giving up with an error.
*/
func withTaskLock(ctx context.Context, rc *redis.Client, taskKey string, ttl time.Duration, retries int, f func(context.Context) error) error {
	key := lock(taskKey)
	token := randString(20)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := rc.SetNX(key, token, ttl).Result()
		if err != nil {
			return fmt.Errorf("acquiring lock %q: %v", key, err)
		}
		if ok {
			break
		}
		if retries <= 0 {
			return fmt.Errorf("acquiring lock %q: already taken", key)
		}
		retries--
		wait, _ := rc.TTL(key).Result()
		if wait < 0 {
			wait = 0
		}
		wait += time.Duration(rand.Int63n(int64(failToLockSleep)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	defer rc.Eval(releaseScript, []string{key}, token)
	lctx, cancel := context.WithTimeout(ctx, ttl)
	defer cancel()
	return f(lctx)
}
