// Package git inspects the local repository the release tooling runs in. It is
// used to derive the installer repository slug from the origin remote so the
// tool works unchanged in forks.
package git

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

// DefaultRemote is the remote consulted by OriginRepository.
const DefaultRemote = "origin"

// ErrNoRemote is returned when the repository has no remote with the requested name.
var ErrNoRemote = errors.New("remote not found")

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// RemoteRepository returns the "owner/name" slug of the named remote of the
// repository containing path.
func RemoteRepository(path, remoteName string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNoRemote, remoteName)
		}
		return "", fmt.Errorf("reading remote %s: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", remoteName)
	}

	slug, err := ParseRemoteURL(urls[0])
	if err != nil {
		return "", err
	}

	logDebug("[git] remote %s points to %s", remoteName, slug)
	return slug, nil
}

// OriginRepository returns the "owner/name" slug of the origin remote.
func OriginRepository(path string) (string, error) {
	return RemoteRepository(path, DefaultRemote)
}

// ParseRemoteURL extracts "owner/name" from a remote URL. It understands
// https and ssh URLs as well as the scp-like "git@host:owner/name.git" form.
//
// Examples:
//   - "https://github.com/gnosis/gnosis_vpn.git" → "gnosis/gnosis_vpn"
//   - "git@github.com:gnosis/gnosis_vpn.git" → "gnosis/gnosis_vpn"
//   - "ssh://git@github.com/gnosis/gnosis_vpn" → "gnosis/gnosis_vpn"
func ParseRemoteURL(raw string) (string, error) {
	var path string

	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("parsing remote URL %q: %w", raw, err)
		}
		path = u.Path
	case strings.Contains(raw, ":"):
		_, path, _ = strings.Cut(raw, ":")
	default:
		path = raw
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", fmt.Errorf("remote URL %q does not name an owner/repository", raw)
	}

	return parts[len(parts)-2] + "/" + parts[len(parts)-1], nil
}
