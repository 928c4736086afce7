package main

import (
	"fmt"

	"github.com/pbanos/sprout"
	"github.com/pbanos/sprout/splitting"
	"github.com/pbanos/sprout/tree"
	"github.com/spf13/cobra"
)

const defaultMaxDepth = 5

func growCmd(config *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a dataset",
		Long:  `Grow a binary classification tree from a dataset whose last column (or the metadata label) holds 0 or 1 labels.`,
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
			config.Logf("Growing tree from a dataset with %d rows and %d features to predict %s...", ds.Count(), len(ds.Features()), ds.Label())
			t, err := sprout.Grow(ctx, ds, config.Int("max-depth"), c,
				sprout.WithLogger(config.logger),
				sprout.WithParallelBranches(config.Bool("parallel")),
			)
			if err != nil {
				config.fail(4, fmt.Errorf("growing the tree: %v", err))
			}
			nodes, leaves, depth := t.Stats()
			config.Logf("Grew tree with %d nodes, %d leaves and depth %d", nodes, leaves, depth)
			config.Debugf("Tree:\n%v", t)
			if err = outputForest(config.String("output"), tree.NewForest(t)); err != nil {
				config.fail(5, err)
			}
		},
	}
	addInputFlags(cmd)
	addGrowingFlags(cmd)
	cmd.Flags().Bool("parallel", false, "grow the branches of every split concurrently")
	cmd.Flags().StringP("output", "o", "", "path to a file to which the grown tree will be written in JSON format (defaults to STDOUT)")
	return cmd
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "path to an input CSV (.csv), TSV (.tsv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().String("table", "dataset", "table or collection holding the dataset on database inputs")
	cmd.Flags().StringP("metadata", "m", "", "path to a YAML file with the features and label of the dataset (required for database inputs, defaults to all columns with the label last)")
}

func addGrowingFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("max-depth", "d", defaultMaxDepth, "maximum depth of the grown trees")
	cmd.Flags().StringP("criterion", "c", splitting.GiniName, fmt.Sprintf("splitting criterion, one of %v", splitting.Names()))
}

func (rcc *rootCmdConfig) input() dataLocation {
	return dataLocation{rcc.String("input"), rcc.String("table")}
}
