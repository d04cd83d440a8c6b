// Package health provides the pre-flight checks behind 'gnosisvpn-release doctor'.
// It verifies that the configuration loads, that the GitHub API is reachable
// with quota left, and whether the installer repository can be detected from
// the working directory's git origin.
package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gnosis/gnosisvpn-release/internal/config"
	"github.com/gnosis/gnosisvpn-release/internal/git"
	"github.com/gnosis/gnosisvpn-release/internal/github"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks are reported but do not fail the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

func (r *HealthReport) add(check CheckResult) {
	r.Checks = append(r.Checks, check)
	if !check.Passed && !check.Optional {
		r.Passed = false
	}
}

// QuotaChecker reports the API rate limit of the configured token.
type QuotaChecker interface {
	RateLimit(ctx context.Context) (github.Quota, error)
}

// Options holds the inputs of RunHealthChecks.
type Options struct {
	Config *config.Configuration
	// ConfigErr is the error returned while loading Config, if any.
	ConfigErr error
	// API is nil when the configuration could not be loaded.
	API QuotaChecker

	WorkDir          string
	DetectRepository func(path string) (string, error)
	Now              func() time.Time
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(ctx context.Context, opts Options) *HealthReport {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	detect := opts.DetectRepository
	if detect == nil {
		detect = git.OriginRepository
	}

	report := &HealthReport{Passed: true}
	report.add(CheckConfiguration(opts.Config, opts.ConfigErr))
	report.add(CheckAPI(ctx, opts.API, now()))
	report.add(CheckGitOrigin(opts.WorkDir, detect))
	return report
}

// CheckConfiguration reports whether the configuration loaded and validated.
func CheckConfiguration(cfg *config.Configuration, err error) CheckResult {
	if err != nil || cfg == nil {
		msg := "not loaded"
		if err != nil {
			msg = err.Error()
		}
		return CheckResult{Name: "Configuration", Passed: false, Message: msg}
	}
	return CheckResult{
		Name:   "Configuration",
		Passed: true,
		Message: fmt.Sprintf("valid (format %s, branch %s, installer %s)",
			cfg.Format, cfg.Branch, cfg.InstallerRepository),
	}
}

// CheckAPI verifies the token against the rate-limit endpoint.
func CheckAPI(ctx context.Context, api QuotaChecker, now time.Time) CheckResult {
	if api == nil {
		return CheckResult{Name: "GitHub API", Passed: false, Message: "skipped: configuration is invalid"}
	}

	quota, err := api.RateLimit(ctx)
	if err != nil {
		return CheckResult{Name: "GitHub API", Passed: false, Message: err.Error()}
	}
	if quota.Remaining == 0 {
		return CheckResult{
			Name:    "GitHub API",
			Passed:  false,
			Message: fmt.Sprintf("rate limit exhausted, resets in %s", quota.Reset.Sub(now).Round(time.Second)),
		}
	}
	return CheckResult{
		Name:    "GitHub API",
		Passed:  true,
		Message: fmt.Sprintf("reachable, %d/%d requests remaining", quota.Remaining, quota.Limit),
	}
}

// CheckGitOrigin reports the repository behind the origin remote of workDir.
// The check is optional because the installer repository has a default.
func CheckGitOrigin(workDir string, detect func(string) (string, error)) CheckResult {
	repo, err := detect(workDir)
	if err != nil {
		return CheckResult{
			Name:     "Git origin",
			Passed:   false,
			Optional: true,
			Message: fmt.Sprintf("not detected (%v); installer repository defaults to %s",
				err, config.DefaultInstallerRepository),
		}
	}
	return CheckResult{Name: "Git origin", Passed: true, Optional: true, Message: repo}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var sb strings.Builder
	for _, check := range report.Checks {
		switch {
		case check.Passed:
			fmt.Fprintf(&sb, "✓ %s: %s\n", check.Name, check.Message)
		case check.Optional:
			fmt.Fprintf(&sb, "○ %s: %s\n", check.Name, check.Message)
		default:
			fmt.Fprintf(&sb, "✗ %s: %s\n", check.Name, check.Message)
		}
	}
	return sb.String()
}
