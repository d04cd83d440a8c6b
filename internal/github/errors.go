package github

import (
	"errors"
	"fmt"
)

// ErrNoReleases is returned by LatestReleaseTag when the repository has no
// published releases.
var ErrNoReleases = errors.New("no releases found")

// APIError is a request failure that is not retried, such as a non-2xx
// response or a transport error. StatusCode is zero when no response arrived.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	msg := "GET " + e.Endpoint + " failed"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" with status %d", e.StatusCode)
	}
	switch {
	case e.Body != "":
		msg += ": " + e.Body
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ThrottledError is returned when every attempt was throttled.
type ThrottledError struct {
	Endpoint   string
	Attempts   int
	StatusCode int
	// Body is the response body of the last attempt.
	Body string
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("GET %s still throttled after %d attempts (status %d): %s",
		e.Endpoint, e.Attempts, e.StatusCode, e.Body)
}

// DateFormatError is returned when a release carries a missing or malformed
// creation timestamp.
type DateFormatError struct {
	Repository string
	Tag        string
	Value      string
}

func (e *DateFormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("release %s in %s has no creation date", e.Tag, e.Repository)
	}
	return fmt.Sprintf("release %s in %s has invalid creation date %q", e.Tag, e.Repository, e.Value)
}
