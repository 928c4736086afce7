package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := newRootCmdConfig()
	rootCmd := &cobra.Command{
		Use:   "sprout",
		Short: "sprout is a tool to grow binary classification trees and forests",
		Long:  `A tool to grow binary classification trees and small forests from your data, test them, and use them to make predictions`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			config.teardown()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().String("log-file", "", "path prefix for rotating JSON log files, in addition to STDERR")
	rootCmd.PersistentFlags().String("config", "", "path to a YAML file with values for the command flags")
	rootCmd.AddCommand(
		versionCmd(),
		growCmd(config),
		trainCmd(config),
		workCmd(config),
		testCmd(config),
		predictCmd(config),
		splitCmd(config),
		treeCmd(config),
		serveCmd(config),
	)
	return rootCmd
}
