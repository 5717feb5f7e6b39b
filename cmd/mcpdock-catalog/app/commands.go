// Package app provides the entry point for the mcpdock catalog API server.
package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/drydocklabs/mcpdock/pkg/logger"
	"github.com/drydocklabs/mcpdock/pkg/versions"
)

var rootCmd = &cobra.Command{
	Use:               "mcpdock-catalog",
	DisableAutoGenTag: true,
	Short:             "Catalog API server for the mcpdock MCP server registry",
	Long: `mcpdock-catalog serves the mcpdock MCP server registry over a REST API.
It keeps a snapshot of the registry document cached in memory and refreshes
it when the snapshot goes stale, so catalog reads never block on the
upstream source.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Initialize()
	},
}

// NewRootCmd creates a new root command for the catalog API server.
func NewRootCmd() *cobra.Command {
	// Add persistent flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	if err != nil {
		logger.Errorf("Error binding debug flag: %v", err)
	}

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.SilenceUsage = true

	return rootCmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versions.GetVersionInfo().String())
		},
	}
}
