package main

import (
	"fmt"
	"strings"

	"github.com/pbanos/sprout/dataset"
	"github.com/spf13/cobra"
)

const splitHoldout = "holdout"

func splitCmd(config *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a dataset into several datasets",
		Long: `Split a dataset into an output and a split dataset holding a fraction of its rows
(holdout), or resample it into k datasets (partition or bootstrap), written to the
outputs given by replacing %d with the dataset index in --output`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := config.Context()
			mode := config.String("mode")
			if err := config.validateSplit(mode); err != nil {
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
			var outputs []*dataset.Dataset
			var locations []dataLocation
			table := config.String("output-table")
			if mode == splitHoldout {
				rest, held, err := ds.Split(config.Float("fraction"), config.seed())
				if err != nil {
					config.fail(4, err)
				}
				outputs = []*dataset.Dataset{rest, held}
				locations = []dataLocation{{config.String("output"), table}, {config.String("split-output"), table}}
			} else {
				outputs, err = resample(ds, mode, config.Int("k"), config.seed())
				if err != nil {
					config.fail(4, err)
				}
				for i := range outputs {
					locations = append(locations, dataLocation{fmt.Sprintf(config.String("output"), i), table})
				}
			}
			for i, out := range outputs {
				if err = config.writeDataset(ctx, locations[i], out); err != nil {
					config.fail(5, fmt.Errorf("writing dataset %d: %v", i, err))
				}
			}
			counts := make([]string, len(outputs))
			for i, out := range outputs {
				counts[i] = fmt.Sprint(out.Count())
			}
			config.Logf("Dataset with %d rows was split into datasets with %s rows", ds.Count(), strings.Join(counts, ", "))
		},
	}
	addInputFlags(cmd)
	cmd.Flags().String("mode", splitHoldout, "how to split the dataset: holdout, partition or bootstrap")
	cmd.Flags().StringP("output", "o", "", "output for the dataset, a pattern with %d for partition and bootstrap (defaults to STDOUT for holdout)")
	cmd.Flags().StringP("split-output", "s", "", "output for the held out dataset (required for holdout)")
	cmd.Flags().String("output-table", "dataset", "table or collection to write on database outputs")
	cmd.Flags().Float64P("fraction", "p", 0.2, "fraction of the rows held out on holdout mode")
	cmd.Flags().Int("k", 5, "number of datasets produced on partition and bootstrap modes")
	cmd.Flags().Int64("seed", 0, "seed for the random split (defaults to 0: a time based seed)")
	return cmd
}

func (rcc *rootCmdConfig) validateSplit(mode string) error {
	switch mode {
	case splitHoldout:
		if err := rcc.required("split-output"); err != nil {
			return err
		}
		if f := rcc.Float("fraction"); f <= 0 || f >= 1 {
			return fmt.Errorf("fraction flag was set to an invalid value: it must be between 0 and 1")
		}
	case resampleBootstrap, resamplePartition:
		if !strings.Contains(rcc.String("output"), "%d") {
			return fmt.Errorf("output flag must contain %%d on %s mode", mode)
		}
	default:
		return fmt.Errorf("unknown split mode %q", mode)
	}
	return nil
}
