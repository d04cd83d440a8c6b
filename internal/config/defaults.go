package config

import "github.com/gnosis/gnosisvpn-release/internal/github"

// Default repositories of the three changelog components.
const (
	DefaultClientRepository    = "gnosis/gnosis_vpn-client"
	DefaultAppRepository       = "gnosis/gnosis_vpn-app"
	DefaultInstallerRepository = "gnosis/gnosis_vpn"
)

// GetDefaultConfigTemplate returns a commented config template. Versions and
// the token are usually supplied through the environment by CI.
func GetDefaultConfigTemplate() string {
	return `# gnosisvpn-release configuration
# Every key can be overridden with a GNOSISVPN_<KEY> environment variable.

# Release inputs (normally set by CI)
package_version: ""                   # Installer package version, e.g. 0.12.0
client_previous_version: ""           # Client version shipped in the previous release
client_current_version: ""            # Client version shipped in this release
app_previous_version: ""              # App version shipped in the previous release
app_current_version: ""               # App version shipped in this release

# Output
format: github                        # github | debian | json | rpm
output: ""                            # Artifact path (empty = changelog.md, changelog, ...)
metrics_file: ""                      # Prometheus textfile with run metrics (empty = disabled)

# Sources
branch: main                          # Base branch pull requests were merged into
client_repository: gnosis/gnosis_vpn-client
app_repository: gnosis/gnosis_vpn-app
# installer_repository: ""            # Default: origin remote of the working directory
api_url: https://api.github.com/
max_retries: 6                        # Attempts per request while throttled (1-20)

# github_token is read from GNOSISVPN_GITHUB_TOKEN or GITHUB_TOKEN
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"format":      "github",
		"branch":      "main",
		"max_retries": 6,
		"api_url":     github.DefaultBaseURL,
		// Upstream components. The installer repository is detected from git.
		"client_repository": DefaultClientRepository,
		"app_repository":    DefaultAppRepository,
		"output":            "",
		"metrics_file":      "",
	}
}
