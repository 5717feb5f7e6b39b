// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/drydocklabs/mcpdock/pkg/api"
	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog API server",
	Long: `Start the catalog API server to serve MCP registry data.
The server caches the registry document in memory and provides REST
endpoints for the CLI and the web catalog.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("address", ":8080", "Address to listen on")
	serveCmd.Flags().String("registry-url", "", "URL of the registry JSON document to serve")
	serveCmd.Flags().String("registry-file", "", "Path of a local registry JSON document to serve")
	serveCmd.Flags().Duration("ttl", catalog.DefaultCacheTTL, "How long a fetched registry snapshot stays fresh")
	serveCmd.Flags().Bool("allow-private-ip", false, "Allow the registry URL to resolve to a private IP address")
	serveCmd.Flags().String("ca-cert", "", "Path to an extra CA certificate bundle for registry fetches")

	// Every flag can also be set through the environment, e.g.
	// MCPDOCK_CATALOG_REGISTRY_URL overrides an unset --registry-url.
	viper.SetEnvPrefix("mcpdock_catalog")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	for _, name := range []string{"address", "registry-url", "registry-file", "ttl", "allow-private-ip", "ca-cert"} {
		if err := viper.BindPFlag(name, serveCmd.Flags().Lookup(name)); err != nil {
			logger.Fatalf("Failed to bind %s flag: %v", name, err)
		}
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Canceled by the signal handler in main.
	ctx := cmd.Context()

	address := viper.GetString("address")
	registryURL := viper.GetString("registry-url")
	registryFile := viper.GetString("registry-file")
	ttl := viper.GetDuration("ttl")
	allowPrivateIP := viper.GetBool("allow-private-ip")
	caCert := viper.GetString("ca-cert")

	if registryURL != "" && registryFile != "" {
		return fmt.Errorf("only one of --registry-url and --registry-file may be set")
	}

	metrics := api.NewMetrics()

	var provider catalog.Provider
	switch {
	case registryURL != "":
		logger.Infof("Serving registry from %s (cache TTL %s)", registryURL, ttl)
		provider = catalog.NewCachedRegistryProvider(registryURL, caCert, allowPrivateIP,
			catalog.WithTTL(ttl),
			catalog.WithOutcomeFunc(metrics.ObserveOutcome),
		)
	case registryFile != "":
		logger.Infof("Serving registry from local file %s", registryFile)
		provider = catalog.NewLocalRegistryProvider(registryFile)
	default:
		logger.Info("Serving embedded registry data")
		provider = catalog.NewLocalRegistryProvider()
	}

	return api.Serve(ctx, address, provider, metrics)
}
