package config

import (
	"fmt"
)

// RegistryConfigService provides high-level operations for registry
// configuration management: type detection, validation, and persistence.
//
// Callers are responsible for resetting the catalog provider cache after
// configuration changes by calling catalog.ResetDefaultProvider(). Doing
// it here would create a circular dependency between the config and
// catalog packages.
//
//go:generate mockgen -destination=mocks/mock_registry_service.go -package=mocks -source=registry_service.go RegistryConfigService
type RegistryConfigService interface {
	// SetRegistryFromInput auto-detects the registry type (URL/API/File)
	// and configures it. Returns the detected type and a user-facing message.
	SetRegistryFromInput(input string, allowPrivateIP bool) (registryType, message string, err error)

	// UnsetRegistry resets the registry configuration to the built-in registry.
	UnsetRegistry() (message string, err error)

	// GetRegistryInfo returns the configured registry type (api/url/file/
	// default) and its source URL or path.
	GetRegistryInfo() (registryType, source string)
}

// DefaultRegistryConfigService is the default implementation of RegistryConfigService.
type DefaultRegistryConfigService struct {
	provider Provider
}

// NewRegistryConfigService creates a new registry config service with the default provider.
func NewRegistryConfigService() RegistryConfigService {
	return &DefaultRegistryConfigService{
		provider: NewDefaultProvider(),
	}
}

// NewRegistryConfigServiceWithProvider creates a new registry config service
// with a custom provider. This is useful for testing.
func NewRegistryConfigServiceWithProvider(provider Provider) RegistryConfigService {
	return &DefaultRegistryConfigService{
		provider: provider,
	}
}

// SetRegistryFromInput auto-detects the registry type and configures it.
func (s *DefaultRegistryConfigService) SetRegistryFromInput(input string, allowPrivateIP bool) (string, string, error) {
	registryType, cleanPath := DetectRegistryType(input)

	var message string
	switch registryType {
	case RegistryTypeURL:
		if err := s.provider.SetRegistryURL(cleanPath, allowPrivateIP); err != nil {
			return "", "", fmt.Errorf("failed to set remote registry: %w", err)
		}
		message = fmt.Sprintf("Successfully set a remote registry file: %s", cleanPath)

	case RegistryTypeAPI:
		if err := s.provider.SetRegistryAPI(cleanPath, allowPrivateIP); err != nil {
			return "", "", fmt.Errorf("failed to set registry API: %w", err)
		}
		message = fmt.Sprintf("Successfully set registry API endpoint: %s", cleanPath)

	case RegistryTypeFile:
		if err := s.provider.SetRegistryFile(cleanPath); err != nil {
			return "", "", fmt.Errorf("failed to set local registry file: %w", err)
		}
		message = fmt.Sprintf("Successfully set local registry file: %s", cleanPath)

	default:
		return "", "", fmt.Errorf("unsupported registry type: %s", registryType)
	}

	// Clear the cached configuration; the caller resets the catalog provider
	ResetSingleton()

	return registryType, message, nil
}

// UnsetRegistry resets the registry configuration to defaults.
func (s *DefaultRegistryConfigService) UnsetRegistry() (string, error) {
	url, localPath, _, registryType := s.provider.GetRegistryConfig()

	if registryType == RegistryTypeDefault {
		return "No custom registry is currently configured.", nil
	}

	if err := s.provider.UnsetRegistry(); err != nil {
		return "", fmt.Errorf("failed to reset registry configuration: %w", err)
	}

	ResetSingleton()

	var message string
	switch {
	case url != "":
		message = fmt.Sprintf("Successfully removed registry: %s\n", url)
	case localPath != "":
		message = fmt.Sprintf("Successfully removed local registry file: %s\n", localPath)
	default:
		message = "Successfully removed registry configuration\n"
	}
	message += "Will use built-in registry."

	return message, nil
}

// GetRegistryInfo returns information about the currently configured registry.
func (s *DefaultRegistryConfigService) GetRegistryInfo() (string, string) {
	url, localPath, _, registryType := s.provider.GetRegistryConfig()

	switch registryType {
	case RegistryTypeAPI, RegistryTypeURL:
		return registryType, url
	case RegistryTypeFile:
		return registryType, localPath
	default:
		return RegistryTypeDefault, ""
	}
}
