// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package backup creates and restores point-in-time copies of MCP client
// configuration files. Backups live in a single directory alongside a JSON
// manifest recording the origin and digest of every copy.
package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/drydocklabs/mcpdock/pkg/client"
	"github.com/drydocklabs/mcpdock/pkg/config"
	"github.com/drydocklabs/mcpdock/pkg/fileutils"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

const (
	manifestFileName = "manifest.json"
	backupExtension  = ".backup"

	// manifestLockTimeout is the maximum time to wait for the manifest lock.
	manifestLockTimeout = 1 * time.Second
)

// ErrBackupNotFound is returned when a restore targets a path that does not
// exist.
var ErrBackupNotFound = errors.New("backup file not found")

// Backup describes one stored copy of a client configuration file.
type Backup struct {
	ID         string           `json:"id"`
	Client     client.MCPClient `json:"client"`
	SourcePath string           `json:"source_path"`
	BackupPath string           `json:"backup_path"`
	CreatedAt  time.Time        `json:"created_at"`
	SHA256     string           `json:"sha256"`
	Size       int64            `json:"size"`
}

// manifest is the on-disk index of all backups in the directory.
type manifest struct {
	Backups []Backup `json:"backups"`
}

// Engine creates, lists, and restores client config backups.
type Engine struct {
	dir string
	now func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock substitutes the time source. Tests use this to control
// backup timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a backup engine. The backups directory comes from the
// application configuration, falling back to the XDG data directory.
func NewEngine(configProvider config.Provider, opts ...EngineOption) (*Engine, error) {
	cfg, err := configProvider.LoadOrCreateConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	dir := cfg.BackupsDir
	if dir == "" {
		manifestPath, err := xdg.DataFile(filepath.Join("mcpdock", "backups", manifestFileName))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve backups directory: %w", err)
		}
		dir = filepath.Dir(manifestPath)
	} else if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	// Absolute paths in the manifest let restores match entries no matter
	// where the engine was constructed.
	dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve backups directory: %w", err)
	}

	engine := &Engine{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(engine)
	}
	return engine, nil
}

// Dir returns the directory holding the backups and their manifest.
func (e *Engine) Dir() string {
	return e.dir
}

// CreateBackup copies the client's current configuration file into the
// backups directory and records it in the manifest.
func (e *Engine) CreateBackup(ctx context.Context, clientType client.MCPClient) (*Backup, error) {
	cf, err := client.ResolveClientConfig(clientType)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cf.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no config file to back up for client %s at %s", clientType, cf.Path)
		}
		return nil, fmt.Errorf("failed to read config file for client %s: %w", clientType, err)
	}

	id := uuid.New().String()
	createdAt := e.now().UTC()
	digest := sha256.Sum256(data)

	fileName := fmt.Sprintf("%s-%s-%s%s", clientType, createdAt.Format("20060102T150405"), id[:8], backupExtension)
	backupPath := filepath.Join(e.dir, fileName)

	if err := fileutils.AtomicWriteFile(backupPath, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	entry := Backup{
		ID:         id,
		Client:     clientType,
		SourcePath: cf.Path,
		BackupPath: backupPath,
		CreatedAt:  createdAt,
		SHA256:     hex.EncodeToString(digest[:]),
		Size:       int64(len(data)),
	}

	err = e.withManifestLock(ctx, func() error {
		m, err := e.readManifest()
		if err != nil {
			return err
		}
		m.Backups = append(m.Backups, entry)
		return e.writeManifest(m)
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("Backed up %s config to %s", clientType, backupPath)
	return &entry, nil
}

// ListBackups returns all recorded backups, newest first.
func (e *Engine) ListBackups(ctx context.Context) ([]Backup, error) {
	var backups []Backup
	err := e.withManifestLock(ctx, func() error {
		m, err := e.readManifest()
		if err != nil {
			return err
		}
		backups = m.Backups
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// RestoreBackup validates the given backup file and writes its contents back
// over the client configuration it was taken from. The write is atomic; a
// failed restore leaves the client config untouched.
func (e *Engine) RestoreBackup(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, path)
		}
		return fmt.Errorf("failed to inspect backup file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("backup path %s is not a regular file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backup file %s (check permissions): %w", path, err)
	}

	entry, err := e.findManifestEntry(ctx, path)
	if err != nil {
		return err
	}

	var target string
	if entry != nil {
		digest := sha256.Sum256(data)
		if hex.EncodeToString(digest[:]) != entry.SHA256 {
			return fmt.Errorf("backup file %s does not match its recorded digest, refusing to restore", path)
		}
		target = entry.SourcePath
	} else {
		// Not in the manifest: fall back to the client encoded in the
		// file name and restore to that client's current config path.
		clientType, err := clientFromBackupName(path)
		if err != nil {
			return err
		}
		cf, err := client.ResolveClientConfig(clientType)
		if err != nil {
			return err
		}
		target = cf.Path
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create config directory for restore: %w", err)
	}
	if err := fileutils.AtomicWriteFile(target, data, 0600); err != nil {
		return fmt.Errorf("failed to restore config file %s: %w", target, err)
	}

	logger.Infof("Restored %s from backup %s", target, path)
	return nil
}

// findManifestEntry returns the manifest entry whose backup path matches the
// given path, or nil when the file is not recorded.
func (e *Engine) findManifestEntry(ctx context.Context, path string) (*Backup, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve backup path: %w", err)
	}

	var found *Backup
	err = e.withManifestLock(ctx, func() error {
		m, err := e.readManifest()
		if err != nil {
			return err
		}
		for i := range m.Backups {
			if m.Backups[i].BackupPath == abs {
				found = &m.Backups[i]
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// clientFromBackupName parses the client type out of a backup file name of
// the form <client>-<timestamp>-<uuid8>.backup.
func clientFromBackupName(path string) (client.MCPClient, error) {
	base := strings.TrimSuffix(filepath.Base(path), backupExtension)
	parts := strings.Split(base, "-")
	if len(parts) < 3 {
		return "", fmt.Errorf("backup file %s was not created by this tool (unrecognized name format)", path)
	}

	// Client names may themselves contain hyphens; the trailing two
	// segments are always the timestamp and the id.
	name := strings.Join(parts[:len(parts)-2], "-")
	clientType, err := client.ParseClient(name)
	if err != nil {
		return "", fmt.Errorf("backup file %s was not created by this tool (unrecognized name format)", path)
	}
	return clientType, nil
}

func (e *Engine) manifestPath() string {
	return filepath.Join(e.dir, manifestFileName)
}

// withManifestLock executes fn while holding the manifest file lock.
func (e *Engine) withManifestLock(ctx context.Context, fn func() error) error {
	fileLock := flock.New(e.manifestPath() + ".lock")

	lockCtx, cancel := context.WithTimeout(ctx, manifestLockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire manifest lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire manifest lock: timeout after %v", manifestLockTimeout)
	}
	defer func() {
		if err := fileLock.Unlock(); err != nil {
			logger.Warnf("failed to release manifest lock: %v", err)
		}
	}()

	return fn()
}

// readManifest loads the manifest, returning an empty one when the file does
// not exist yet.
func (e *Engine) readManifest() (*manifest, error) {
	data, err := os.ReadFile(e.manifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &manifest{}, nil
		}
		return nil, fmt.Errorf("failed to read backup manifest: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse backup manifest: %w", err)
	}
	return &m, nil
}

func (e *Engine) writeManifest(m *manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize backup manifest: %w", err)
	}
	if err := fileutils.AtomicWriteFile(e.manifestPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write backup manifest: %w", err)
	}
	return nil
}
