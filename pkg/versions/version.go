// Package versions exposes the build metadata stamped into mcpdock binaries.
package versions

import (
	"fmt"
	"runtime"
	"time"
)

const unknownStr = "unknown"

// These variables are populated at build time via ldflags.
var (
	// Version is the release version, or "dev" for untagged builds.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = unknownStr
	// BuildDate is the RFC3339 timestamp of the build.
	BuildDate = unknownStr
)

// VersionInfo describes one binary's build provenance.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersionInfo returns the version information for the current binary.
// Untagged builds get a synthetic "build-<shortcommit>" version so that two
// dev builds remain distinguishable in bug reports.
func GetVersionInfo() VersionInfo {
	version := Version
	buildDate := BuildDate

	if version == "dev" {
		shortCommit := Commit
		if len(shortCommit) > 8 {
			shortCommit = shortCommit[:8]
		}
		version = "build-" + shortCommit
	}

	if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
		buildDate = t.UTC().Format("2006-01-02 15:04:05 UTC")
	}

	return VersionInfo{
		Version:   version,
		Commit:    Commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a single-line rendering suitable for --version output.
func (v VersionInfo) String() string {
	return fmt.Sprintf("mcpdock %s (commit %s, built %s, %s, %s)",
		v.Version, v.Commit, v.BuildDate, v.GoVersion, v.Platform)
}
