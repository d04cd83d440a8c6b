// Package build provides version and build information for gnosisvpn-release.
// This package intentionally has no dependencies on other internal packages
// to avoid import cycles.
package build

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// UserAgent returns the User-Agent sent with GitHub API requests.
func UserAgent() string {
	return fmt.Sprintf("gnosisvpn-release/%s", Version)
}

// Info returns the multi-line version report printed by the version command.
// Builds without a release version are flagged so changelogs produced by
// them are not mistaken for release output.
func Info() string {
	header := "gnosisvpn-release " + Version
	if IsDevBuild() {
		header += " (development build)"
	}
	return fmt.Sprintf("%s\ncommit: %s\nbuilt: %s\ngo: %s\nplatform: %s/%s\n",
		header, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
