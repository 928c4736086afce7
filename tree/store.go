package tree

import (
	"context"
	"fmt"
	"sync"
)

/*
Store is an interface to manage a store
where trees can be put, retrieved and
deleted by key. Workers growing the trees
of a forest put them in a store, from
where the forest is assembled.

All it methods take a context that may allow
cancelling the operation (thus forcing the return
of an error) if the implementation allows it.
*/
type Store interface {
	// Put takes a key and a tree and stores the
	// tree under the key, replacing any tree
	// previously stored under it. It returns
	// an error if the tree cannot be stored.
	Put(ctx context.Context, key string, t *Tree) error
	// Get takes a key and returns the tree in the
	// store under that key (or nil if it cannot be
	// found) or an error if the store cannot be
	// queried
	Get(ctx context.Context, key string) (*Tree, error)
	// Delete takes a key and deletes the tree
	// stored under it. It returns an error if the
	// tree exists but the deletion cannot be
	// performed.
	Delete(ctx context.Context, key string) error
	// Close closes the store, implementations should
	// free any resources in use as well as ensure
	// any pending changes are applied before returning
	// (unless the context expires). It returns an error
	// if the Close cannot be completed (because of the
	// context or another error)
	Close(ctx context.Context) error
}

// Key returns the key under which the tree with the given
// index of the forest with the given ID is stored
func Key(forestID string, index int) string {
	return fmt.Sprintf("%s:%d", forestID, index)
}

/*
LoadForest takes a context, a store, a forest ID and a number of trees
and returns the forest made of the trees stored under the keys for
indexes 0 to n-1 of the forest ID, in index order. It returns an error if
any of them cannot be retrieved or is not in the store.
*/
func LoadForest(ctx context.Context, s Store, forestID string, n int) (*Forest, error) {
	trees := make([]*Tree, 0, n)
	for i := 0; i < n; i++ {
		t, err := s.Get(ctx, Key(forestID, i))
		if err != nil {
			return nil, fmt.Errorf("retrieving tree %d of forest %s: %w", i, forestID, err)
		}
		if t == nil {
			return nil, fmt.Errorf("tree %d of forest %s not found", i, forestID)
		}
		trees = append(trees, t)
	}
	return NewForest(trees...), nil
}

type memoryStore struct {
	trees map[string]*Tree
	lock  *sync.RWMutex
}

// NewMemoryStore returns an implementation
// of Store with the process memory space
// as underlying backend
func NewMemoryStore() Store {
	return &memoryStore{
		trees: make(map[string]*Tree),
		lock:  &sync.RWMutex{},
	}
}

func (ms *memoryStore) Put(ctx context.Context, key string, t *Tree) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		ms.trees[key] = t
		return nil
	})
}

func (ms *memoryStore) Get(ctx context.Context, key string) (*Tree, error) {
	var t *Tree
	err := ms.withRLock(ctx, func(ctx context.Context) error {
		t = ms.trees[key]
		return nil
	})
	return t, err
}

func (ms *memoryStore) Delete(ctx context.Context, key string) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		delete(ms.trees, key)
		return nil
	})
}

func (ms *memoryStore) Close(ctx context.Context) error {
	return nil
}

func (ms *memoryStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	return withContext(ctx, ms.lock.Lock, ms.lock.Unlock, f)
}

func (ms *memoryStore) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	return withContext(ctx, ms.lock.RLock, ms.lock.RUnlock, f)
}

/*
withContext runs f holding the lock taken with lock and released with
unlock, unless ctx is done before the lock is acquired, in which case it
returns the context error without running f.
*/
func withContext(ctx context.Context, lock, unlock func(), f func(ctx context.Context) error) error {
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
	return f(ctx)
}
