package main

import (
	"fmt"
	"os"

	"github.com/pbanos/sprout/metrics"
	"github.com/spf13/cobra"
)

func testCmd(config *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree or forest",
		Long:  `Test the performance of a tree or forest against one or more labelled datasets, reporting accuracy, error rate, F1 scores and confusion matrices`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.required("forest"); err != nil {
				config.fail(1, err)
			}
			ctx := config.Context()
			forest, err := loadForest(config.String("forest"))
			if err != nil {
				config.fail(2, err)
			}
			md, err := config.metadata()
			if err != nil {
				config.fail(3, err)
			}
			inputs := config.Strings("input")
			if len(inputs) == 0 {
				inputs = []string{""}
			}
			reports := make([]*metrics.Report, 0, len(inputs))
			for _, input := range inputs {
				dl := dataLocation{input, config.String("table")}
				ds, err := config.loadDataset(ctx, dl, md)
				if err != nil {
					config.fail(4, err)
				}
				config.Logf("Testing forest of %d trees against dataset with %d rows...", len(forest.Trees), ds.Count())
				r, err := metrics.Evaluate(ctx, forest, ds)
				if err != nil {
					config.fail(5, fmt.Errorf("testing forest on %s: %v", dl, err))
				}
				reports = append(reports, r.Named(dl.String()))
			}
			switch config.String("format") {
			case "yaml":
				err = metrics.WriteYAML(os.Stdout, reports...)
			case "table":
				metrics.WriteTable(os.Stdout, reports...)
			default:
				err = fmt.Errorf("unknown format %q, expected table or yaml", config.String("format"))
			}
			if err != nil {
				config.fail(6, err)
			}
		},
	}
	cmd.Flags().StringSliceP("input", "i", nil, "paths to input CSV (.csv), TSV (.tsv) or SQLite3 (.db) files, or PostgreSQL or MongoDB connection URLs, each reported separately (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().String("table", "dataset", "table or collection holding the datasets on database inputs")
	cmd.Flags().StringP("metadata", "m", "", "path to a YAML file with the features and label of the datasets")
	cmd.Flags().StringP("forest", "f", "", "path to a file from which the tree or forest to test will be read as JSON (required)")
	cmd.Flags().String("format", "table", "report format: table or yaml")
	return cmd
}
