package main

import (
	"github.com/pbanos/sprout/server"
	"github.com/spf13/cobra"
)

func serveCmd(config *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Long:  `Serve the predictions of a tree or forest over HTTP until interrupted`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.required("forest"); err != nil {
				config.fail(1, err)
			}
			forest, err := loadForest(config.String("forest"))
			if err != nil {
				config.fail(2, err)
			}
			s := server.New(forest, config.logger)
			if err = s.Run(config.Context(), config.String("address")); err != nil {
				config.fail(3, err)
			}
		},
	}
	cmd.Flags().StringP("forest", "f", "", "path to a file from which the tree or forest to serve will be read as JSON (required)")
	cmd.Flags().StringP("address", "a", ":8080", "address to listen on")
	return cmd
}
