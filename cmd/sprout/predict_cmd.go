package main

import (
	"fmt"
	"os"

	"github.com/pbanos/sprout/dataset/csv"
	"github.com/pbanos/sprout/feature/inputsample"
	"github.com/pbanos/sprout/metrics"
	"github.com/pbanos/sprout/tree"
	"github.com/spf13/cobra"
)

type stdoutFeatureValueRequester string

func predictCmd(config *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict labels for samples",
		Long: `Use a tree or forest to predict the label of every row of a CSV or TSV file, or, with
--interactive, of a single sample answering questions about its features`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.required("forest"); err != nil {
				config.fail(1, err)
			}
			ctx := config.Context()
			forest, err := loadForest(config.String("forest"))
			if err != nil {
				config.fail(2, err)
			}
			if config.Bool("interactive") {
				prediction, err := predictInteractively(config, forest)
				if err != nil {
					config.fail(3, err)
				}
				fmt.Printf("Predicted %s is %d\n", forest.Label(), prediction)
				return
			}
			samples, err := csv.ReadSamplesFromFilePath(config.String("input"))
			if err != nil {
				config.fail(4, err)
			}
			config.Logf("Predicting %s for %d samples...", forest.Label(), len(samples))
			predictions := make([]int, 0, len(samples))
			for i, s := range samples {
				p, err := forest.Predict(ctx, s)
				if err != nil {
					config.fail(5, fmt.Errorf("predicting sample %d: %v", i+1, err))
				}
				predictions = append(predictions, p)
			}
			if err = metrics.WritePredictions(os.Stdout, predictions); err != nil {
				config.fail(6, err)
			}
		},
	}
	cmd.Flags().StringP("input", "i", "", "path to an input CSV (.csv) or TSV (.tsv) file with a header and a sample per row (defaults to STDIN)")
	cmd.Flags().StringP("forest", "f", "", "path to a file from which the tree or forest will be read as JSON (required)")
	cmd.Flags().Bool("interactive", false, "predict a single sample asking for its feature values on STDIN")
	cmd.Flags().StringP("undefined-value", "u", "?", "value to input to define a sample's value for a feature as undefined")
	return cmd
}

func predictInteractively(config *rootCmdConfig, forest *tree.Forest) (int, error) {
	var features []string
	if len(forest.Trees) > 0 {
		features = forest.Trees[0].Features
	}
	undefined := config.String("undefined-value")
	sample := inputsample.New(os.Stdin, features, stdoutFeatureValueRequester(undefined), undefined)
	return forest.Predict(config.Context(), sample)
}

func (sfvr stdoutFeatureValueRequester) RequestValueFor(f string) error {
	fmt.Printf("Please provide the sample's %s:\n(valid values are real numbers or %s if undefined)\n", f, string(sfvr))
	return nil
}

func (sfvr stdoutFeatureValueRequester) RejectValueFor(f string, value string) error {
	fmt.Printf("%v is not a valid value for the sample's %s. Please provide a real number or %s if undefined.\n", value, f, string(sfvr))
	return nil
}
