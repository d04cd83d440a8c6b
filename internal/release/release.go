// Package release orchestrates changelog generation: it resolves the release
// window of every component, collects the pull requests merged inside it and
// renders them in the requested format.
package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnosis/gnosisvpn-release/internal/artifact"
	"github.com/gnosis/gnosisvpn-release/internal/changelog"
	"github.com/gnosis/gnosisvpn-release/internal/github"
	"github.com/gnosis/gnosisvpn-release/internal/metrics"
)

// Source is the hosting API as seen by the generator.
type Source interface {
	ReleaseDate(ctx context.Context, repo github.Repository, tag string) (string, error)
	LatestReleaseTag(ctx context.Context, repo github.Repository) (string, error)
	MergedPullRequests(ctx context.Context, repo github.Repository, window github.Window, component changelog.Component, branch string) ([]changelog.Entry, error)
}

// Upstream describes a component whose release window is bounded by two tags.
type Upstream struct {
	Repository github.Repository
	Previous   string
	Current    string
}

// Options configures a Generator.
type Options struct {
	// Version is the package version being released.
	Version string
	Format  changelog.Format
	Branch  string

	Client    Upstream
	App       Upstream
	Installer github.Repository

	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Now is the end of the installer window and the Debian trailer date.
	Now func() time.Time
}

// ComponentResult reports what was collected for one component.
type ComponentResult struct {
	Component  changelog.Component
	Repository github.Repository
	Window     github.Window
	Entries    int
}

// Skipped reports whether the component had no window to collect from.
func (c ComponentResult) Skipped() bool {
	return c.Window.Empty()
}

// Result is the outcome of one generation.
type Result struct {
	Entries    []changelog.Entry
	Text       string
	Components []ComponentResult
	// Artifact is set by Run.
	Artifact artifact.Paths
}

// Generator produces a release changelog.
type Generator struct {
	source Source
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// NewGenerator creates a generator reading from source.
func NewGenerator(source Source, opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Generator{source: source, opts: opts, logger: logger, now: now}
}

// Generate resolves windows, fetches entries in component order (Client,
// App, Installer) and renders them.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	now := g.now()

	clientWindow, err := g.upstreamWindow(ctx, changelog.ComponentClient, g.opts.Client)
	if err != nil {
		return nil, err
	}

	appWindow, err := g.upstreamWindow(ctx, changelog.ComponentApp, g.opts.App)
	if err != nil {
		return nil, err
	}

	installerWindow, err := g.installerWindow(ctx, now)
	if err != nil {
		return nil, err
	}

	repositories := map[changelog.Component]github.Repository{
		changelog.ComponentClient:    g.opts.Client.Repository,
		changelog.ComponentApp:       g.opts.App.Repository,
		changelog.ComponentInstaller: g.opts.Installer,
	}
	windows := map[changelog.Component]github.Window{
		changelog.ComponentClient:    clientWindow,
		changelog.ComponentApp:       appWindow,
		changelog.ComponentInstaller: installerWindow,
	}
	var components []ComponentResult
	for _, c := range changelog.Components() {
		components = append(components, ComponentResult{Component: c, Repository: repositories[c], Window: windows[c]})
	}

	var entries []changelog.Entry
	for i, c := range components {
		fetched, err := g.source.MergedPullRequests(ctx, c.Repository, c.Window, c.Component, g.opts.Branch)
		if err != nil {
			return nil, fmt.Errorf("collecting %s pull requests from %s: %w", c.Component, c.Repository, err)
		}
		components[i].Entries = len(fetched)
		g.opts.Metrics.SetEntries(string(c.Component), len(fetched))
		entries = append(entries, fetched...)
	}

	text, err := changelog.RenderString(g.opts.Format, entries, changelog.Params{
		Version: g.opts.Version,
		Updates: g.versionUpdates(),
		Now:     now,
	})
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "changelog generated",
		"format", g.opts.Format, "version", g.opts.Version, "entries", len(entries))

	return &Result{Entries: entries, Text: text, Components: components}, nil
}

// Run generates the changelog and writes it, with a gzip copy, to path.
func (g *Generator) Run(ctx context.Context, path string) (*Result, error) {
	result, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}

	paths, err := artifact.Write(path, []byte(result.Text))
	if err != nil {
		return nil, err
	}
	result.Artifact = paths

	g.logger.InfoContext(ctx, "changelog written", "path", paths.Plain, "compressed", paths.Compressed)
	return result, nil
}

// upstreamWindow resolves (previous release date, current release date] when
// the component version changed, and an empty window otherwise.
func (g *Generator) upstreamWindow(ctx context.Context, component changelog.Component, u Upstream) (github.Window, error) {
	if u.Previous == u.Current {
		g.logger.InfoContext(ctx, "component unchanged, skipping",
			"component", component, "version", u.Current)
		return github.Window{}, nil
	}

	start, err := g.releaseTime(ctx, u.Repository, u.Previous)
	if err != nil {
		return github.Window{}, err
	}
	end, err := g.releaseTime(ctx, u.Repository, u.Current)
	if err != nil {
		return github.Window{}, err
	}

	window := github.Window{Start: start, End: end}
	g.logger.InfoContext(ctx, "release window",
		"component", component,
		"repository", u.Repository.String(),
		"from", u.Previous,
		"to", u.Current,
		"window", window.String())
	return window, nil
}

// installerWindow resolves (latest release date, now]. A repository without
// releases yields an empty window rather than an error.
func (g *Generator) installerWindow(ctx context.Context, now time.Time) (github.Window, error) {
	tag, err := g.source.LatestReleaseTag(ctx, g.opts.Installer)
	if errors.Is(err, github.ErrNoReleases) {
		g.logger.WarnContext(ctx, "no installer releases found, skipping installer changes",
			"repository", g.opts.Installer.String())
		return github.Window{}, nil
	}
	if err != nil {
		return github.Window{}, fmt.Errorf("finding latest release of %s: %w", g.opts.Installer, err)
	}

	start, err := g.releaseTime(ctx, g.opts.Installer, tag)
	if err != nil {
		return github.Window{}, err
	}

	window := github.Window{Start: start, End: now}
	g.logger.InfoContext(ctx, "release window",
		"component", changelog.ComponentInstaller,
		"repository", g.opts.Installer.String(),
		"from", tag,
		"window", window.String())
	return window, nil
}

func (g *Generator) releaseTime(ctx context.Context, repo github.Repository, tag string) (time.Time, error) {
	created, err := g.source.ReleaseDate(ctx, repo, tag)
	if err != nil {
		return time.Time{}, fmt.Errorf("resolving release date of %s@%s: %w", repo, tag, err)
	}

	t, ok := github.ParseTimestamp(created)
	if !ok {
		return time.Time{}, &github.DateFormatError{Repository: repo.String(), Tag: tag, Value: created}
	}
	return t, nil
}

func (g *Generator) versionUpdates() []changelog.VersionUpdate {
	return []changelog.VersionUpdate{
		{
			Component:  changelog.ComponentClient,
			Repository: g.opts.Client.Repository.String(),
			Previous:   g.opts.Client.Previous,
			Current:    g.opts.Client.Current,
		},
		{
			Component:  changelog.ComponentApp,
			Repository: g.opts.App.Repository.String(),
			Previous:   g.opts.App.Previous,
			Current:    g.opts.App.Current,
		},
	}
}
