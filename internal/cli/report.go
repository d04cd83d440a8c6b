package cli

import (
	"errors"

	"github.com/gnosis/gnosisvpn-release/internal/artifact"
	"github.com/gnosis/gnosisvpn-release/internal/changelog"
	"github.com/gnosis/gnosisvpn-release/internal/config"
	clierrors "github.com/gnosis/gnosisvpn-release/internal/errors"
	"github.com/gnosis/gnosisvpn-release/internal/github"
)

// toCLIError attaches a category and remediation steps to err based on the
// failure it wraps.
func toCLIError(err error) *clierrors.CLIError {
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		validErr     *config.ValidationError
		formatErr    *changelog.UnsupportedFormatError
		throttledErr *github.ThrottledError
		dateErr      *github.DateFormatError
		apiErr       *github.APIError
		writeErr     *artifact.WriteError
	)
	switch {
	case errors.As(err, &validErr):
		if validErr.Field == "github_token" {
			return clierrors.MissingToken(err)
		}
		envVar := ""
		if validErr.Field != "" {
			envVar = config.EnvVar(validErr.Field)
		}
		return clierrors.InvalidConfiguration(err, envVar)
	case errors.As(err, &formatErr):
		return clierrors.UnsupportedFormat(err)
	case errors.As(err, &throttledErr):
		return clierrors.APIThrottled(err, throttledErr.Attempts)
	case errors.As(err, &dateErr):
		return clierrors.InvalidReleaseDate(err)
	case errors.As(err, &apiErr):
		return clierrors.APIRequestFailed(err)
	case errors.As(err, &writeErr):
		return clierrors.ArtifactNotWritable(writeErr.Path, err)
	default:
		return clierrors.Wrap(err, clierrors.Runtime)
	}
}
