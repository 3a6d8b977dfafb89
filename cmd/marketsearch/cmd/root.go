// Package cmd implements the CLI commands for the marketsearch server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "marketsearch",
	Short: "Second-hand marketplace search API",
	Long: "An API server that exposes marketplace search as assistant tools:\n" +
		"it runs paginated searches against the upstream marketplace, keeps\n" +
		"per-query pagination sessions, and renders results as Markdown.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	rootCmd.AddCommand(searchCommand())
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
