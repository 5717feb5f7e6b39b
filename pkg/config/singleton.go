package config

import (
	"os"
	"sync"

	"github.com/drydocklabs/mcpdock/pkg/logger"
)

// The process-wide configuration, loaded once and cached. Guarded by
// configMu; config reads are nowhere near hot paths.
var (
	configMu  sync.Mutex
	appConfig *Config
)

// getSingletonConfig returns the cached application configuration, loading
// it from disk on first use. A load failure exits the process.
func getSingletonConfig() *Config {
	configMu.Lock()
	defer configMu.Unlock()

	if appConfig == nil {
		cfg, err := LoadOrCreateConfig()
		if err != nil {
			logger.Errorf("error loading configuration: %v", err)
			os.Exit(1)
		}
		appConfig = cfg
	}
	return appConfig
}

// SetSingletonConfig pre-seeds the cached configuration. Tests use it to
// keep the real config file out of the picture.
func SetSingletonConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// ResetSingleton drops the cached configuration so the next read reloads
// from disk. Called after writes that must be observed process-wide.
func ResetSingleton() {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = nil
}
