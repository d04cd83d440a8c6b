package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnosis/gnosisvpn-release/internal/config"
	"github.com/gnosis/gnosisvpn-release/internal/github"
	"github.com/gnosis/gnosisvpn-release/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, API access and git detection",
	Long: `Run the pre-flight checks a release job depends on:

  - the configuration loads and validates
  - the GitHub API accepts the token and has quota left
  - the installer repository can be detected from the git origin (optional)

No changelog is generated and no release data is read.`,
	Example: `  gnosisvpn-release doctor`,
	Args:    noArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, cfgErr := config.LoadWithOptions(config.LoadOptions{ConfigPath: cfgFile, Logger: logger})

		opts := health.Options{Config: cfg, ConfigErr: cfgErr}
		if cfgErr == nil {
			client, err := github.New(cfg.GitHubToken, github.Options{BaseURL: cfg.APIURL, Logger: logger})
			if err != nil {
				return err
			}
			opts.API = client
		}

		report := health.RunHealthChecks(cmd.Context(), opts)
		fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

		switch {
		case cfgErr != nil:
			return NewExitError(ExitInvalidArguments)
		case !report.Passed:
			return NewExitError(ExitFailure)
		}
		return nil
	},
}

func init() {
	doctorCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(doctorCmd)
}
