// Package updates contains logic for checking if an update is available for mcpdock.
package updates

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"golang.org/x/mod/semver"

	"github.com/drydocklabs/mcpdock/pkg/fileutils"
	"github.com/drydocklabs/mcpdock/pkg/versions"
)

const (
	updateFilePathSuffix = "mcpdock/updates.json"
	updateInterval       = 4 * time.Hour
)

// UpdateChecker is an interface for checking if a new version of mcpdock is available.
type UpdateChecker interface {
	// CheckLatestVersion checks if a new version of mcpdock is available
	// and prints the result to stderr.
	CheckLatestVersion() error
}

// updateFile is the on-disk state shared by all mcpdock binaries. The
// instance ID and the last version the API reported are global; check
// times are tracked per component so the CLI and the catalog server do
// not reset each other's intervals.
type updateFile struct {
	InstanceID    string                   `json:"instance_id"`
	LatestVersion string                   `json:"latest_version"`
	Components    map[string]componentInfo `json:"components"`
}

// componentInfo records when a component last queried the update API.
type componentInfo struct {
	LastCheck time.Time `json:"last_check"`
}

// loadUpdateFile reads the shared update state. A missing or empty file
// yields a zero state; a present but unreadable or corrupt one is an error.
func loadUpdateFile(path string) (updateFile, error) {
	state := updateFile{Components: make(map[string]componentInfo)}

	// #nosec G304: the path is fixed under the XDG cache directory.
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, fmt.Errorf("failed to read update file: %w", err)
	}
	if len(raw) == 0 {
		return state, nil
	}

	if err := json.Unmarshal(raw, &state); err != nil {
		return state, fmt.Errorf("failed to deserialize update file: %w", err)
	}
	// Files written before per-component tracking have no map.
	if state.Components == nil {
		state.Components = make(map[string]componentInfo)
	}
	return state, nil
}

// checkedRecently reports whether component already queried the update API
// within the check interval.
func (f *updateFile) checkedRecently(component string) bool {
	info, ok := f.Components[component]
	return ok && time.Since(info.LastCheck) < updateInterval
}

// save writes the state back atomically; the file is shared between
// binaries that may run concurrently.
func (f *updateFile) save(path string) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal updated data: %w", err)
	}
	if err := fileutils.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write updated file: %w", err)
	}
	return nil
}

// NewUpdateChecker creates a new instance of UpdateChecker.
func NewUpdateChecker(versionClient VersionClient) (UpdateChecker, error) {
	path, err := xdg.CacheFile(updateFilePathSuffix)
	if err != nil {
		return nil, fmt.Errorf("unable to access update file path %w", err)
	}

	state, err := loadUpdateFile(path)
	if err != nil {
		return nil, err
	}
	if state.InstanceID == "" {
		state.InstanceID = uuid.NewString()
	}

	return &defaultUpdateChecker{
		currentVersion: versions.GetVersionInfo().Version,
		instanceID:     state.InstanceID,
		updateFilePath: path,
		versionClient:  versionClient,
		component:      versionClient.GetComponent(),
	}, nil
}

type defaultUpdateChecker struct {
	instanceID     string
	currentVersion string
	updateFilePath string
	versionClient  VersionClient
	component      string
}

func (d *defaultUpdateChecker) CheckLatestVersion() error {
	state, err := loadUpdateFile(d.updateFilePath)
	if err != nil {
		return err
	}
	if state.InstanceID == "" {
		state.InstanceID = d.instanceID
	}

	if state.checkedRecently(d.component) {
		// Too soon to ask the API again; notify from what the last
		// check learned.
		notifyIfUpdateAvailable(d.currentVersion, state.LatestVersion)
		return nil
	}

	latestVersion, err := d.versionClient.GetLatestVersion(state.InstanceID, d.currentVersion)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	notifyIfUpdateAvailable(d.currentVersion, latestVersion)

	state.LatestVersion = latestVersion
	state.Components[d.component] = componentInfo{LastCheck: time.Now().UTC()}
	return state.save(d.updateFilePath)
}

func notifyIfUpdateAvailable(current, latest string) {
	// Local builds are never on the latest release, no need to nag.
	if strings.HasPrefix(current, "build-") {
		return
	}
	// Semver comparison needs the 'v' prefix on both sides.
	if !semver.IsValid(current) {
		current = "v" + current
	}
	if !semver.IsValid(latest) {
		latest = "v" + latest
	}
	if semver.Compare(semver.Canonical(current), semver.Canonical(latest)) < 0 {
		fmt.Fprintf(os.Stderr, "A new version of mcpdock is available: %s\nCurrently running: %s\n", latest, current)
	}
}
