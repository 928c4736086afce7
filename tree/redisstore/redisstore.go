/*
Package redisstore provides a tree.Store backed by a redis DB, so workers
in different processes can put the trees they grow where the process
assembling the forest will find them.
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/pbanos/sprout/tree"
	"github.com/pbanos/sprout/tree/json"
	"gopkg.in/redis.v5"
)

type redisStore struct {
	rc     *redis.Client
	prefix string
}

// New builds a tree.Store backed by a redis DB, storing trees
// JSON-encoded under the given key prefix
func New(rc *redis.Client, prefix string) tree.Store {
	return &redisStore{rc, prefix}
}

func (rs *redisStore) Put(ctx context.Context, key string, t *tree.Tree) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	redisID := rs.keyFor(key)
	data, err := json.EncodeTree(t)
	if err != nil {
		return fmt.Errorf("storing tree %q: encoding tree: %v", redisID, err)
	}
	_, err = rs.rc.Set(redisID, data, 0).Result()
	if err != nil {
		return fmt.Errorf("storing tree %q in redis: %v", redisID, err)
	}
	return nil
}

func (rs *redisStore) Get(ctx context.Context, key string) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	redisID := rs.keyFor(key)
	data, err := rs.rc.Get(redisID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %v", redisID, err)
	}
	t, err := json.DecodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: decoding: %v", redisID, err)
	}
	return t, nil
}

func (rs *redisStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	redisID := rs.keyFor(key)
	_, err := rs.rc.Del(redisID).Result()
	if err != nil {
		return fmt.Errorf("deleting tree %q from redis: %v", redisID, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return nil
}

func (rs *redisStore) keyFor(key string) string {
	return fmt.Sprintf("%s:tree:%s", rs.prefix, key)
}
