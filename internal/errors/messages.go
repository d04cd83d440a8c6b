package errors

import "fmt"

// Common error messages for the gnosisvpn-release CLI.
// These templates ensure consistent, actionable error messages.

// InvalidConfiguration creates an error for a configuration value that failed validation.
// envVar names the variable that sets the offending key, when known.
func InvalidConfiguration(err error, envVar string) *CLIError {
	remediation := []string{}
	if envVar != "" {
		remediation = append(remediation, fmt.Sprintf("Set %s in the environment or in the config file", envVar))
	}
	remediation = append(remediation, "Run 'gnosisvpn-release config template' to see every supported key")
	return WrapWithMessage(err, Configuration, "invalid configuration", remediation...)
}

// MissingToken creates an error for an absent API token.
func MissingToken(err error) *CLIError {
	return WrapWithMessage(err, Configuration, "no GitHub token configured",
		"Export GNOSISVPN_GITHUB_TOKEN or GITHUB_TOKEN",
		"In GitHub Actions: env: GITHUB_TOKEN: ${{ secrets.GITHUB_TOKEN }}",
	)
}

// UnsupportedFormat creates an error for an unknown --format value.
func UnsupportedFormat(err error) *CLIError {
	cliErr := WrapWithMessage(err, Argument, "cannot render changelog",
		"Use one of: github, debian, json, rpm",
	)
	cliErr.Usage = "gnosisvpn-release changelog --format <github|debian|json|rpm>"
	return cliErr
}

// APIThrottled creates an error for requests that stayed throttled after every retry.
func APIThrottled(err error, attempts int) *CLIError {
	return WrapWithMessage(err, Network, "GitHub API rate limit not lifted",
		fmt.Sprintf("All %d attempts were throttled; wait for the rate limit window to reset", attempts),
		"Raise GNOSISVPN_MAX_RETRIES to back off for longer",
		"Use a token with a higher rate limit (GitHub App installation token)",
	)
}

// APIRequestFailed creates an error for a failed, non-throttled API request.
func APIRequestFailed(err error) *CLIError {
	return WrapWithMessage(err, Network, "GitHub API request failed",
		"Check that the repository and tag exist and that the token can read them",
		"Re-run with --verbose to log every request",
	)
}

// InvalidReleaseDate creates an error for a release without a usable creation date.
func InvalidReleaseDate(err error) *CLIError {
	return WrapWithMessage(err, Data, "cannot determine release window",
		"Check that the tag was published as a GitHub release, not only pushed as a git tag",
		"Verify the previous/current versions point at existing releases",
	)
}

// ArtifactNotWritable creates an error for a changelog that could not be written.
func ArtifactNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime, fmt.Sprintf("cannot write changelog to %s", path),
		"Check that the output directory is writable",
		"Choose another location with --output",
	)
}

// MissingTitle creates an error for the classify command without a title.
func MissingTitle() *CLIError {
	return NewArgumentErrorWithUsage(
		"pull request title is required",
		"gnosisvpn-release classify \"<title>\"",
		"Quote the title so it is passed as a single argument",
		"Example: gnosisvpn-release classify \"feat(ui): add tray icon\"",
	)
}
