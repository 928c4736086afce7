package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pbanos/sprout"
	"github.com/pbanos/sprout/dataset"
	"github.com/pbanos/sprout/queue"
	"github.com/pbanos/sprout/queue/json"
	"github.com/pbanos/sprout/queue/redisq"
	"github.com/pbanos/sprout/splitting"
	"github.com/pbanos/sprout/tree"
	"github.com/pbanos/sprout/tree/redisstore"
	"github.com/spf13/cobra"
	redis "gopkg.in/redis.v5"
)

const (
	resampleBootstrap = "bootstrap"
	resamplePartition = "partition"
)

func trainCmd(config *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a forest from a dataset",
		Long: `Train a forest of trees, each grown from a resample of a dataset: bootstrap samples
of the same size or the chunks of a partition. With --redis, the trees are grown by the
workers of a queue on redis, "sprout work" processes included.`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := config.Context()
			c, err := splitting.Resolve(config.String("criterion"))
			if err != nil {
				config.fail(1, err)
			}
			md, err := config.metadata()
			if err != nil {
				config.fail(2, err)
			}
			ds, err := config.loadDataset(ctx, config.input(), md)
			if err != nil {
				config.fail(3, err)
			}
			datasets, err := resample(ds, config.String("resample"), config.Int("trees"), config.seed())
			if err != nil {
				config.fail(4, err)
			}
			config.Logf("Training forest of %d trees from %s resamples of a dataset with %d rows...", len(datasets), config.String("resample"), ds.Count())
			var forest *tree.Forest
			if config.String("redis") != "" {
				forest, err = config.trainOnRedis(ctx, datasets, c)
			} else {
				forest, err = sprout.TrainForest(ctx, datasets, config.Int("max-depth"), c,
					sprout.WithLogger(config.logger),
					sprout.WithWorkers(config.Int("workers")),
				)
			}
			if err != nil {
				config.fail(5, fmt.Errorf("training the forest: %v", err))
			}
			config.Logf("Trained forest of %d trees", len(forest.Trees))
			if err = outputForest(config.String("output"), forest); err != nil {
				config.fail(6, err)
			}
		},
	}
	addInputFlags(cmd)
	addGrowingFlags(cmd)
	addRedisFlags(cmd)
	cmd.Flags().IntP("trees", "n", 10, "number of trees in the forest")
	cmd.Flags().String("resample", resampleBootstrap, "how to resample the dataset for every tree: bootstrap or partition")
	cmd.Flags().Int64("seed", 0, "seed for resampling (defaults to 0: a time based seed)")
	cmd.Flags().IntP("workers", "w", 1, "number of trees grown at the same time by this process")
	cmd.Flags().StringP("output", "o", "", "path to a file to which the trained forest will be written in JSON format (defaults to STDOUT)")
	return cmd
}

func addRedisFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis", "", "URL of a redis server to queue the trees to grow and store the grown trees on")
	cmd.Flags().String("queue-id", "sprout", "prefix of the redis keys of the queue and the tree store")
	cmd.Flags().Duration("task-max-run", 10*time.Minute, "time after which a tree being grown by a worker is considered dropped (0 to never drop)")
}

func (rcc *rootCmdConfig) seed() int64 {
	if seed := rcc.v.GetInt64("seed"); seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func resample(ds *dataset.Dataset, strategy string, k int, seed int64) ([]*dataset.Dataset, error) {
	switch strategy {
	case resampleBootstrap:
		return ds.Bootstrap(k, seed)
	case resamplePartition:
		return ds.Partition(k, seed)
	}
	return nil, fmt.Errorf("unknown resample strategy %q, expected %s or %s", strategy, resampleBootstrap, resamplePartition)
}

func (rcc *rootCmdConfig) redisBackend() (queue.Queue, tree.Store, func(), error) {
	opts, err := redis.ParseURL(rcc.String("redis"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parsing redis URL: %v", err)
	}
	rc := redis.NewClient(opts)
	if err = rc.Ping().Err(); err != nil {
		rc.Close()
		return nil, nil, nil, fmt.Errorf("connecting to redis: %v", err)
	}
	id := rcc.String("queue-id")
	q := redisq.New(id, rc, rcc.v.GetDuration("task-max-run"), 0, json.New())
	s := redisstore.New(rc, id)
	closer := func() {
		q.Stop(context.Background())
		rc.Close()
	}
	return q, s, closer, nil
}

func (rcc *rootCmdConfig) trainOnRedis(ctx context.Context, datasets []*dataset.Dataset, c *splitting.Criterion) (*tree.Forest, error) {
	q, s, closer, err := rcc.redisBackend()
	if err != nil {
		return nil, err
	}
	defer closer()
	forestID := sprout.NewForestID()
	rcc.Logf("Seeding forest %s on redis...", forestID)
	err = sprout.Seed(ctx, forestID, datasets, rcc.Int("max-depth"), c.Name, q)
	if err != nil {
		return nil, err
	}
	if workers := rcc.Int("workers"); workers > 0 {
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			go func() {
				errs <- sprout.Work(ctx, q, s, sprout.WithLogger(rcc.logger))
			}()
		}
		for i := 0; i < workers; i++ {
			if werr := <-errs; werr != nil && err == nil {
				err = werr
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if err = queue.WaitFor(ctx, q); err != nil {
		return nil, err
	}
	forest, err := tree.LoadForest(ctx, s, forestID, len(datasets))
	if err != nil {
		return nil, err
	}
	for i := range datasets {
		if derr := s.Delete(ctx, tree.Key(forestID, i)); derr != nil {
			rcc.Debugf("Deleting tree %d of forest %s from redis: %v", i, forestID, derr)
		}
	}
	return forest, nil
}
