// Package app provides the entry point for the mcpdock command-line application.
package app

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/drydocklabs/mcpdock/pkg/config"
	"github.com/drydocklabs/mcpdock/pkg/logger"
	"github.com/drydocklabs/mcpdock/pkg/updates"
)

var rootCmd = &cobra.Command{
	Use:               "mcpdock",
	DisableAutoGenTag: true,
	Short:             "mcpdock is a catalog browser and installer for MCP servers",
	Long: `mcpdock is a catalog browser and installer for MCP (Model Context Protocol) servers.

It lists the servers published in the mcpdock registry, collects and validates
the parameters each server needs, and writes the resulting entries into the
configuration files of supported AI clients (Claude Desktop, Cursor, VS Code,
and others).`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.Initialize()
		bindFlagEnvOverrides(cmd)
		checkForUpdates(cmd)
	},
}

// NewRootCmd creates a new root command for the mcpdock CLI.
func NewRootCmd() *cobra.Command {
	// Add persistent flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	if err != nil {
		logger.Errorf("Error binding debug flag: %v", err)
	}

	// Bound flags can also be set through the environment, e.g.
	// MCPDOCK_DEBUG=1.
	viper.SetEnvPrefix("mcpdock")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Subcommands defined as package vars attach themselves in their
	// file's init function.
	rootCmd.AddCommand(newVersionCmd())

	// Silence printing the usage on error
	rootCmd.SilenceUsage = true

	return rootCmd
}

// bindFlagEnvOverrides fills every flag the user left unset from the
// matching MCPDOCK_* environment variable, so MCPDOCK_FORMAT=json acts
// as a default for --format. Explicit command-line values always win.
func bindFlagEnvOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !viper.IsSet(f.Name) {
			return
		}
		if err := flags.Set(f.Name, viper.GetString(f.Name)); err != nil {
			logger.Warnf("Warning: invalid value for --%s from environment: %v", f.Name, err)
		}
	})
}

// checkForUpdates runs the periodic release check. It must never block or
// fail the command the user actually ran, so every error is demoted to a
// debug log line.
func checkForUpdates(cmd *cobra.Command) {
	switch cmd.Name() {
	case "version", "help", "completion":
		// Commands whose output is routinely machine-consumed or that
		// carry no network expectation skip the check.
		return
	}

	cfg := config.NewDefaultProvider().GetConfig()
	if cfg.Updates.Skip {
		return
	}

	checker, err := updates.NewUpdateChecker(updates.NewVersionClient())
	if err != nil {
		logger.Debugf("unable to create update checker: %v", err)
		return
	}

	if err := checker.CheckLatestVersion(); err != nil {
		logger.Debugf("could not check for updates: %v", err)
	}
}
