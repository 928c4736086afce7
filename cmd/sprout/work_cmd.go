package main

import (
	"time"

	"github.com/pbanos/sprout"
	"github.com/spf13/cobra"
)

func workCmd(config *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "work",
		Short: "Grow the trees queued on redis",
		Long: `Grow the trees of the forests queued on redis by "sprout train --redis", storing
them on redis for the training process to collect. Workers end when the queue is empty,
unless --watch is set.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.required("redis"); err != nil {
				config.fail(1, err)
			}
			ctx := config.Context()
			q, s, closer, err := config.redisBackend()
			if err != nil {
				config.fail(2, err)
			}
			defer closer()
			workers := config.Int("workers")
			opts := []sprout.Option{
				sprout.WithLogger(config.logger),
				sprout.WithEmptyQueueSleep(config.v.GetDuration("empty-queue-sleep")),
			}
			for {
				config.Logf("Starting %d workers on queue %s...", workers, config.String("queue-id"))
				errs := make(chan error, workers)
				for i := 0; i < workers; i++ {
					go func() {
						errs <- sprout.Work(ctx, q, s, opts...)
					}()
				}
				for i := 0; i < workers; i++ {
					if err = <-errs; err != nil {
						closer()
						config.fail(3, err)
					}
				}
				if !config.Bool("watch") {
					break
				}
				config.Debugf("Queue is empty, waiting for new tasks...")
				select {
				case <-ctx.Done():
					return
				case <-time.After(config.v.GetDuration("watch-interval")):
				}
			}
			config.Logf("Done")
		},
	}
	addRedisFlags(cmd)
	cmd.Flags().IntP("workers", "w", 1, "number of trees grown at the same time")
	cmd.Flags().Duration("empty-queue-sleep", time.Second, "time to wait before pulling again from a queue whose tasks are all running")
	cmd.Flags().Bool("watch", false, "keep waiting for new tasks when the queue is empty")
	cmd.Flags().Duration("watch-interval", 5*time.Second, "time to wait before checking an empty queue again with --watch")
	return cmd
}
