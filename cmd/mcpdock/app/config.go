// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration",
	Long:  "The config command provides subcommands to manage application configuration settings.",
}

var setRegistryCmd = &cobra.Command{
	Use:   "set-registry <url-or-path>",
	Short: "Set the MCP server registry",
	Long: `Set the MCP server registry to a remote URL, local file path, or API endpoint.
The command automatically detects the registry type:
  - URLs ending with .json are treated as static registry files
  - Other URLs are treated as MCP Registry API endpoints
  - Local paths are treated as local registry files

Examples:
  mcpdock config set-registry https://example.com/registry.json     # Static remote file
  mcpdock config set-registry https://registry.example.com          # API endpoint
  mcpdock config set-registry /path/to/local-registry.json          # Local file path
  mcpdock config set-registry file:///path/to/local-registry.json   # Explicit file URL`,
	Args: cobra.ExactArgs(1),
	RunE: setRegistryCmdFunc,
}

var getRegistryCmd = &cobra.Command{
	Use:   "get-registry",
	Short: "Get the currently configured registry",
	Long:  "Display the currently configured registry (URL or file path).",
	RunE:  getRegistryCmdFunc,
}

var unsetRegistryCmd = &cobra.Command{
	Use:   "unset-registry",
	Short: "Remove the configured registry",
	Long:  "Remove the registry configuration, reverting to the built-in registry.",
	RunE:  unsetRegistryCmdFunc,
}

var setCACertCmd = &cobra.Command{
	Use:   "set-ca-cert <path>",
	Short: "Set the CA certificate for registry fetches",
	Long: `Set the CA certificate file path used when fetching the registry over HTTPS.
This is useful in corporate environments with TLS inspection where custom CA certificates are required.

Example:
  mcpdock config set-ca-cert /path/to/corporate-ca.crt`,
	Args: cobra.ExactArgs(1),
	RunE: setCACertCmdFunc,
}

var getCACertCmd = &cobra.Command{
	Use:   "get-ca-cert",
	Short: "Get the currently configured CA certificate path",
	Long:  "Display the path to the CA certificate file that is currently configured for registry fetches.",
	RunE:  getCACertCmdFunc,
}

var unsetCACertCmd = &cobra.Command{
	Use:   "unset-ca-cert",
	Short: "Remove the configured CA certificate",
	Long:  "Remove the CA certificate configuration, reverting to the system certificate pool.",
	RunE:  unsetCACertCmdFunc,
}

var autoUpdateCmd = &cobra.Command{
	Use:   "auto-update <enable|disable>",
	Short: "Enable or disable the periodic update check",
	Args:  cobra.ExactArgs(1),
	RunE:  autoUpdateCmdFunc,
}

var (
	allowPrivateRegistryIP bool
)

func init() {
	// Add config command to root command
	rootCmd.AddCommand(configCmd)

	// Add subcommands to config command
	configCmd.AddCommand(setRegistryCmd)
	setRegistryCmd.Flags().BoolVarP(
		&allowPrivateRegistryIP,
		"allow-private-ip",
		"p",
		false,
		"Allow setting a registry URL or API endpoint that references a private IP address (default false)",
	)
	configCmd.AddCommand(getRegistryCmd)
	configCmd.AddCommand(unsetRegistryCmd)
	configCmd.AddCommand(setCACertCmd)
	configCmd.AddCommand(getCACertCmd)
	configCmd.AddCommand(unsetCACertCmd)
	configCmd.AddCommand(autoUpdateCmd)
}

func setRegistryCmdFunc(_ *cobra.Command, args []string) error {
	service := config.NewRegistryConfigService()

	registryType, message, err := service.SetRegistryFromInput(args[0], allowPrivateRegistryIP)
	if err != nil {
		return err
	}

	// Reset the cached provider so it re-initializes with the new config
	catalog.ResetDefaultProvider()

	fmt.Println(message)
	if allowPrivateRegistryIP && registryType != config.RegistryTypeFile {
		fmt.Println("Caution: allowing registry URLs containing private IP addresses may decrease your security.\n" +
			"Make sure you trust any remote registries you configure with mcpdock.")
	}
	return nil
}

func getRegistryCmdFunc(_ *cobra.Command, _ []string) error {
	service := config.NewRegistryConfigService()
	registryType, source := service.GetRegistryInfo()

	switch registryType {
	case config.RegistryTypeAPI:
		fmt.Printf("Current registry: %s (API endpoint)\n", source)
	case config.RegistryTypeURL:
		fmt.Printf("Current registry: %s (remote file)\n", source)
	case config.RegistryTypeFile:
		fmt.Printf("Current registry: %s (local file)\n", source)
		// Check if the file still exists
		if _, err := os.Stat(source); err != nil {
			fmt.Printf("Warning: The configured local registry file is not accessible: %v\n", err)
		}
	default:
		fmt.Println("No custom registry is currently configured. Using built-in registry.")
	}
	return nil
}

func unsetRegistryCmdFunc(_ *cobra.Command, _ []string) error {
	service := config.NewRegistryConfigService()

	message, err := service.UnsetRegistry()
	if err != nil {
		return err
	}

	// Reset the cached provider so it re-initializes with the new config
	catalog.ResetDefaultProvider()

	fmt.Println(message)
	return nil
}

func setCACertCmdFunc(_ *cobra.Command, args []string) error {
	certPath := args[0]

	provider := config.NewDefaultProvider()
	if err := config.SetCACert(provider, certPath); err != nil {
		return err
	}

	fmt.Printf("Successfully set CA certificate path: %s\n", filepath.Clean(certPath))
	return nil
}

func getCACertCmdFunc(_ *cobra.Command, _ []string) error {
	provider := config.NewDefaultProvider()
	certPath, exists, accessible := config.GetCACert(provider)

	if !exists {
		fmt.Println("No CA certificate is currently configured.")
		return nil
	}

	fmt.Printf("Current CA certificate path: %s\n", certPath)

	if !accessible {
		fmt.Println("Warning: The configured CA certificate file is not accessible")
	}

	return nil
}

func unsetCACertCmdFunc(_ *cobra.Command, _ []string) error {
	provider := config.NewDefaultProvider()
	certPath, exists, _ := config.GetCACert(provider)

	if !exists {
		fmt.Println("No CA certificate is currently configured.")
		return nil
	}

	if err := config.UnsetCACert(provider); err != nil {
		return err
	}

	fmt.Printf("Successfully removed CA certificate configuration: %s\n", certPath)
	return nil
}

func autoUpdateCmdFunc(_ *cobra.Command, args []string) error {
	action := args[0]

	var skip bool
	switch action {
	case "enable":
		skip = false
	case "disable":
		skip = true
	default:
		return fmt.Errorf("invalid argument: %s (expected 'enable' or 'disable')", action)
	}

	provider := config.NewDefaultProvider()
	err := provider.UpdateConfig(func(c *config.Config) {
		c.Updates.Skip = skip
	})
	if err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}

	if skip {
		fmt.Println("Update checks disabled.")
	} else {
		fmt.Println("Update checks enabled.")
	}
	return nil
}
