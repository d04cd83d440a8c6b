package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnosis/gnosisvpn-release/internal/config"
	"github.com/gnosis/gnosisvpn-release/internal/github"
	"github.com/gnosis/gnosisvpn-release/internal/metrics"
	"github.com/gnosis/gnosisvpn-release/internal/output"
	"github.com/gnosis/gnosisvpn-release/internal/release"
)

var changelogCmd = &cobra.Command{
	Use:     "changelog",
	Aliases: []string{"gen"},
	Short:   "Generate the release changelog",
	Long: `Generate the changelog for an installer release.

The client and app windows run from the creation date of the previous release
to that of the current one and are skipped when both versions are equal. The
installer window runs from its latest release to now. Pull requests merged into
the release branch inside a window are collected, classified by their
conventional-commit prefix and rendered in the requested format.

The result is written to --output (default depends on the format) together with
a gzip-compressed copy next to it.`,
	Example: `  # GitHub release notes (changelog.md, changelog.md.gz)
  gnosisvpn-release changelog

  # Debian changelog for the package build
  gnosisvpn-release changelog --format debian --output debian/changelog

  # JSON for further processing, echoed to stdout
  gnosisvpn-release changelog --format json --print

  # Record API metrics for the node exporter textfile collector
  gnosisvpn-release changelog --metrics-file /var/lib/node_exporter/gnosisvpn_release.prom`,
	Args: noArgs,
	RunE: runChangelog,
}

func init() {
	changelogCmd.GroupID = GroupRelease
	rootCmd.AddCommand(changelogCmd)

	changelogCmd.Flags().StringP("format", "f", "", "output format: github, debian, json or rpm (default github)")
	changelogCmd.Flags().StringP("output", "o", "", "artifact path (default depends on the format)")
	changelogCmd.Flags().String("branch", "", "base branch pull requests were merged into (default main)")
	changelogCmd.Flags().String("package-version", "", "installer package version being released")
	changelogCmd.Flags().Int("max-retries", 0, "attempts per API call while throttled (default 6)")
	changelogCmd.Flags().String("metrics-file", "", "write Prometheus text-format run metrics to this file")
	changelogCmd.Flags().Bool("print", false, "also print the rendered changelog to stdout")
}

// flagOverrides returns the config keys set explicitly on the command line.
func flagOverrides(cmd *cobra.Command) (map[string]any, error) {
	overrides := map[string]any{}
	flags := cmd.Flags()

	for flagName, key := range map[string]string{
		"format":          "format",
		"output":          "output",
		"branch":          "branch",
		"package-version": "package_version",
		"metrics-file":    "metrics_file",
	} {
		if !flags.Changed(flagName) {
			continue
		}
		value, err := flags.GetString(flagName)
		if err != nil {
			return nil, err
		}
		overrides[key] = value
	}

	if flags.Changed("max-retries") {
		value, err := flags.GetInt("max-retries")
		if err != nil {
			return nil, err
		}
		overrides["max_retries"] = value
	}
	return overrides, nil
}

func runChangelog(cmd *cobra.Command, _ []string) error {
	overrides, err := flagOverrides(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ConfigPath: cfgFile,
		Overrides:  overrides,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.MetricsFile != "" {
		m = metrics.New()
		defer func() {
			if werr := m.WriteFile(cfg.MetricsFile); werr != nil {
				logger.Warn("metrics not written", "error", werr)
			}
		}()
	}

	gen, err := newGenerator(cfg, m)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := gen.Run(cmd.Context(), cfg.OutputPath())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printResult, _ := cmd.Flags().GetBool("print")
	if printResult {
		output.PrintSeparator(out, string(cfg.ChangelogFormat()))
		fmt.Fprint(out, result.Text)
		output.PrintSeparator(out, "end")
	}

	output.PrintSuccess(out, fmt.Sprintf("Wrote %s and %s in %s",
		result.Artifact.Plain, result.Artifact.Compressed, time.Since(start).Round(time.Millisecond)))
	output.PrintSummary(out, componentCounts(result))
	return nil
}

// newGenerator wires the API client and generator for cfg.
func newGenerator(cfg *config.Configuration, m *metrics.Metrics) (*release.Generator, error) {
	client, err := github.New(cfg.GitHubToken, github.Options{
		BaseURL:     cfg.APIURL,
		MaxAttempts: cfg.MaxRetries,
		Logger:      logger,
		Metrics:     m,
	})
	if err != nil {
		return nil, err
	}

	repos := make(map[string]github.Repository, 3)
	for key, value := range map[string]string{
		"client_repository":    cfg.ClientRepository,
		"app_repository":       cfg.AppRepository,
		"installer_repository": cfg.InstallerRepository,
	} {
		repo, err := github.ParseRepository(value)
		if err != nil {
			return nil, &config.ValidationError{FilePath: "config", Field: key, Message: err.Error()}
		}
		repos[key] = repo
	}

	return release.NewGenerator(client, release.Options{
		Version: cfg.PackageVersion,
		Format:  cfg.ChangelogFormat(),
		Branch:  cfg.Branch,
		Client: release.Upstream{
			Repository: repos["client_repository"],
			Previous:   cfg.ClientPreviousVersion,
			Current:    cfg.ClientCurrentVersion,
		},
		App: release.Upstream{
			Repository: repos["app_repository"],
			Previous:   cfg.AppPreviousVersion,
			Current:    cfg.AppCurrentVersion,
		},
		Installer: repos["installer_repository"],
		Logger:    logger,
		Metrics:   m,
	}), nil
}

func componentCounts(result *release.Result) []output.ComponentCount {
	counts := make([]output.ComponentCount, 0, len(result.Components))
	for _, c := range result.Components {
		counts = append(counts, output.ComponentCount{
			Component: string(c.Component),
			Entries:   c.Entries,
			Skipped:   c.Skipped(),
		})
	}
	return counts
}
