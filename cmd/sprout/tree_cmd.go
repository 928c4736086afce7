package main

import (
	"fmt"
	"os"

	"github.com/pbanos/sprout/tree"
	"github.com/pbanos/sprout/tree/dot"
	"github.com/pbanos/sprout/tree/json"
	"github.com/spf13/cobra"
)

func treeCmd(config *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the trees of a forest",
		Long:  `Show the trees of a forest as indented text, Graphviz DOT graphs or JSON`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.required("forest"); err != nil {
				config.fail(1, err)
			}
			forest, err := loadForest(config.String("forest"))
			if err != nil {
				config.fail(2, err)
			}
			trees := forest.Trees
			if i := config.Int("index"); i >= 0 {
				if i >= len(trees) {
					config.fail(3, fmt.Errorf("forest has %d trees, cannot show tree %d", len(trees), i))
				}
				trees = trees[i : i+1]
			}
			for i, t := range trees {
				if err = showTree(config.String("format"), t); err != nil {
					config.fail(4, fmt.Errorf("showing tree %d: %v", i, err))
				}
			}
		},
	}
	cmd.Flags().StringP("forest", "f", "", "path to a file from which the tree or forest to show will be read as JSON (required)")
	cmd.Flags().Int("index", -1, "index of the tree of the forest to show (defaults to all)")
	cmd.Flags().String("format", "text", "output format: text, dot or json")
	return cmd
}

func showTree(format string, t *tree.Tree) error {
	switch format {
	case "text":
		_, err := fmt.Fprint(os.Stdout, t)
		return err
	case "dot":
		return dot.Write(t, os.Stdout)
	case "json":
		return json.WriteTree(t, os.Stdout)
	}
	return fmt.Errorf("unknown format %q, expected text, dot or json", format)
}
