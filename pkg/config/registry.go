package config

import (
	"fmt"
	neturl "net/url"
	"path/filepath"
	"strings"

	"github.com/drydocklabs/mcpdock/pkg/networking"
)

const (
	// RegistryTypeFile represents a local file registry
	RegistryTypeFile = "file"
	// RegistryTypeURL represents a remote URL registry
	RegistryTypeURL = "url"
	// RegistryTypeAPI represents an MCP Registry API endpoint
	RegistryTypeAPI = "api"
	// RegistryTypeDefault represents the built-in embedded registry
	RegistryTypeDefault = "default"
)

// DetectRegistryType determines if input is a URL or file path and returns cleaned path
func DetectRegistryType(input string) (registryType string, cleanPath string) {
	// Check for explicit file:// protocol
	if strings.HasPrefix(input, "file://") {
		return RegistryTypeFile, strings.TrimPrefix(input, "file://")
	}

	// HTTP/HTTPS URLs point either at a static document or an API
	if networking.IsURL(input) {
		// URLs ending with .json serve a static registry document;
		// anything else is treated as an MCP Registry API endpoint.
		if strings.HasSuffix(input, ".json") {
			return RegistryTypeURL, input
		}
		return RegistryTypeAPI, input
	}

	// Default: treat as file path
	return RegistryTypeFile, filepath.Clean(input)
}

// setRegistryURL validates and sets a registry URL using the provided provider
func setRegistryURL(provider Provider, registryURL string, allowPrivateRegistryIP bool) error {
	if _, err := validateURLScheme(registryURL, allowPrivateRegistryIP); err != nil {
		return fmt.Errorf("invalid registry URL: %w", err)
	}

	// Probe the URL with the protected client so a registry hosted on a
	// private address is rejected up front instead of at first use.
	if !allowPrivateRegistryIP {
		if err := probeForPrivateAddress(registryURL); err != nil {
			return err
		}
	}

	err := provider.UpdateConfig(func(c *Config) {
		c.RegistryURL = registryURL
		c.RegistryFile = ""   // Clear local path when setting URL
		c.RegistryAPIURL = "" // Clear API endpoint when setting URL
		c.AllowPrivateRegistryIP = allowPrivateRegistryIP
	})
	if err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}

	return nil
}

// setRegistryAPI validates and sets an MCP Registry API URL using the provided provider
func setRegistryAPI(provider Provider, apiURL string, allowPrivateRegistryIP bool) error {
	if _, err := validateURLScheme(apiURL, allowPrivateRegistryIP); err != nil {
		return fmt.Errorf("invalid registry API URL: %w", err)
	}

	if !allowPrivateRegistryIP {
		openapiURL, err := neturl.JoinPath(apiURL, "openapi.yaml")
		if err != nil {
			return fmt.Errorf("failed to construct OpenAPI URL: %w", err)
		}
		if err := probeForPrivateAddress(openapiURL); err != nil {
			return err
		}
	}

	err := provider.UpdateConfig(func(c *Config) {
		c.RegistryAPIURL = apiURL
		c.RegistryURL = ""  // Clear static registry URL when setting API URL
		c.RegistryFile = "" // Clear local path when setting API URL
		c.AllowPrivateRegistryIP = allowPrivateRegistryIP
	})
	if err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}

	return nil
}

// setRegistryFile validates and sets a local registry file using the provided provider
func setRegistryFile(provider Provider, registryPath string) error {
	absPath, err := validateLocalRegistryFile(registryPath)
	if err != nil {
		return fmt.Errorf("registry file: %w", err)
	}

	err = provider.UpdateConfig(func(c *Config) {
		c.RegistryFile = absPath
		c.RegistryURL = ""    // Clear URL when setting local path
		c.RegistryAPIURL = "" // Clear API endpoint when setting local path
	})
	if err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}

	return nil
}

// unsetRegistry resets registry configuration to defaults using the provided provider
func unsetRegistry(provider Provider) error {
	err := provider.UpdateConfig(func(c *Config) {
		c.RegistryURL = ""
		c.RegistryAPIURL = ""
		c.RegistryFile = ""
		c.AllowPrivateRegistryIP = false
	})
	if err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}
	return nil
}

// getRegistryConfig returns current registry configuration using the provided provider
func getRegistryConfig(provider Provider) (url, localPath string, allowPrivateIP bool, registryType string) {
	cfg := provider.GetConfig()

	// API endpoints take priority, matching the provider factory order
	if cfg.RegistryAPIURL != "" {
		return cfg.RegistryAPIURL, "", cfg.AllowPrivateRegistryIP, RegistryTypeAPI
	}

	if cfg.RegistryURL != "" {
		return cfg.RegistryURL, "", cfg.AllowPrivateRegistryIP, RegistryTypeURL
	}

	if cfg.RegistryFile != "" {
		return "", cfg.RegistryFile, false, RegistryTypeFile
	}

	return "", "", false, RegistryTypeDefault
}

// probeForPrivateAddress issues a GET through the protected client and
// surfaces only private-address rejections; other failures (timeouts,
// TLS, DNS) are ignored so an offline registry can still be configured.
func probeForPrivateAddress(probeURL string) error {
	client, err := networking.NewHttpClientBuilder().Build()
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}
	resp, err := client.Get(probeURL)
	if err != nil {
		if strings.Contains(err.Error(), networking.ErrPrivateIpAddress) {
			return err
		}
		return nil
	}
	_ = resp.Body.Close()
	return nil
}
