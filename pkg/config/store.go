package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/drydocklabs/mcpdock/pkg/logger"
)

// lockTimeout is the maximum time to wait for a file lock
const lockTimeout = 1 * time.Second

// Store defines the interface for configuration storage operations
type Store interface {
	// Load loads the configuration from storage
	Load(ctx context.Context) (*Config, error)
	// Save saves the configuration to storage
	Save(ctx context.Context, config *Config) error
	// Exists checks if configuration exists in storage
	Exists(ctx context.Context) (bool, error)
	// Update performs a locked update operation on the configuration
	Update(ctx context.Context, updateFn func(*Config)) error
}

// LocalStore implements Store using the local file system
type LocalStore struct {
	configPath string
}

// NewLocalStore creates a new local file-based configuration store
func NewLocalStore(configPath string) *LocalStore {
	return &LocalStore{
		configPath: configPath,
	}
}

// Load loads configuration from the local file, creating it with default
// values when it does not exist yet.
func (s *LocalStore) Load(_ context.Context) (*Config, error) {
	configPath, err := s.resolvePath()
	if err != nil {
		return nil, err
	}

	configPath = path.Clean(configPath)
	if _, err := os.Stat(configPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}

		config := createNewConfigWithDefaults()
		logger.Debugf("initializing configuration file at %s", configPath)
		if err := config.saveToPath(configPath); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		return &config, nil
	}

	// #nosec G304: path comes from the XDG config dir or an explicit flag
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file %s: %w", configPath, err)
	}

	var config Config
	if err := yaml.Unmarshal(configFile, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file yaml: %w", err)
	}

	return &config, nil
}

// Save saves configuration to the local file
func (s *LocalStore) Save(_ context.Context, config *Config) error {
	if s.configPath == "" {
		return config.save()
	}
	return config.saveToPath(s.configPath)
}

// Exists checks if the local config file exists
func (s *LocalStore) Exists(_ context.Context) (bool, error) {
	configPath, err := s.resolvePath()
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(configPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}
	return true, nil
}

// Update performs a locked read-modify-write on the configuration. The
// lock is a separate .lock file so the config file itself can be replaced.
func (s *LocalStore) Update(ctx context.Context, updateFn func(*Config)) error {
	configPath, err := s.resolvePath()
	if err != nil {
		return err
	}

	fileLock := flock.New(configPath + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock: timeout after %v", lockTimeout)
	}
	defer fileLock.Unlock()

	// Load after acquiring the lock so concurrent updates are not lost
	config, err := s.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	updateFn(config)

	if err := s.Save(ctx, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

func (s *LocalStore) resolvePath() (string, error) {
	if s.configPath != "" {
		return s.configPath, nil
	}
	configPath, err := getConfigPath()
	if err != nil {
		return "", fmt.Errorf("unable to fetch config path: %w", err)
	}
	return configPath, nil
}

// NewConfigStore creates a configuration store at the default path
func NewConfigStore() (Store, error) {
	return NewConfigStoreWithPath("")
}

// NewConfigStoreWithPath creates a configuration store at the given path.
// An empty path selects the default XDG location.
func NewConfigStoreWithPath(configPath string) (Store, error) {
	return NewLocalStore(configPath), nil
}
