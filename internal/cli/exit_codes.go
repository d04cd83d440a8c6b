package cli

import (
	"errors"
	"fmt"

	"github.com/gnosis/gnosisvpn-release/internal/changelog"
	"github.com/gnosis/gnosisvpn-release/internal/config"
	"github.com/gnosis/gnosisvpn-release/internal/github"
)

// Exit codes for the gnosisvpn-release CLI
// These codes let CI pipelines tell throttling apart from bad input
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a failed API request, an unwritable artifact or
	// any other runtime error
	ExitFailure = 1

	// ExitRetryExhausted indicates the API stayed throttled on every attempt
	ExitRetryExhausted = 2

	// ExitInvalidArguments indicates invalid configuration or command arguments
	ExitInvalidArguments = 3

	// ExitInvalidData indicates the API returned a release without a usable date
	ExitInvalidData = 4
)

// ExitError carries a process exit code through cobra. An ExitError without
// Err has already been reported to the user.
type ExitError struct {
	Code int
	Err  error
}

// NewExitError returns an already-reported error that exits with code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		exitErr      *ExitError
		validErr     *config.ValidationError
		formatErr    *changelog.UnsupportedFormatError
		throttledErr *github.ThrottledError
		dateErr      *github.DateFormatError
	)
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.As(err, &validErr), errors.As(err, &formatErr):
		return ExitInvalidArguments
	case errors.As(err, &throttledErr):
		return ExitRetryExhausted
	case errors.As(err, &dateErr):
		return ExitInvalidData
	default:
		return ExitFailure
	}
}
