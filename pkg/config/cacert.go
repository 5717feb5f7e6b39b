package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/drydocklabs/mcpdock/pkg/certs"
)

// SetCACert validates and sets the CA certificate path used when fetching
// registries behind TLS-intercepting proxies or self-hosted endpoints.
func SetCACert(provider Provider, certPath string) error {
	certPath = filepath.Clean(certPath)

	if _, err := os.Stat(certPath); err != nil {
		return fmt.Errorf("CA certificate file not found or not accessible: %w", err)
	}

	certContent, err := os.ReadFile(certPath)
	if err != nil {
		return fmt.Errorf("failed to read CA certificate file: %w", err)
	}

	if err := certs.ValidateCACertificate(certContent); err != nil {
		return fmt.Errorf("invalid CA certificate: %w", err)
	}

	err = provider.UpdateConfig(func(c *Config) {
		c.CACertificatePath = certPath
	})
	if err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}

	return nil
}

// GetCACert returns the configured CA certificate path and its status.
// exists reports whether a path is configured; accessible reports whether
// the file is still readable (it may have been deleted after configuration).
func GetCACert(provider Provider) (certPath string, exists bool, accessible bool) {
	cfg := provider.GetConfig()

	if cfg.CACertificatePath == "" {
		return "", false, false
	}

	if _, err := os.Stat(cfg.CACertificatePath); err != nil {
		return cfg.CACertificatePath, true, false
	}

	return cfg.CACertificatePath, true, true
}

// UnsetCACert removes the configured CA certificate path.
func UnsetCACert(provider Provider) error {
	err := provider.UpdateConfig(func(c *Config) {
		c.CACertificatePath = ""
	})
	if err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}
	return nil
}
