// Package cli implements the gnosisvpn-release command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	clierrors "github.com/gnosis/gnosisvpn-release/internal/errors"
	"github.com/gnosis/gnosisvpn-release/internal/git"
)

// Command groups shown in help output
const (
	GroupRelease       = "release"
	GroupConfiguration = "configuration"
)

var (
	cfgFile string
	verbose bool

	// logger is configured in PersistentPreRun and writes diagnostics to stderr.
	logger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "gnosisvpn-release",
	Short: "Release changelog generation for the Gnosis VPN installers",
	Long: `gnosisvpn-release collects the pull requests merged into the Gnosis VPN
client, app and installer repositories since their previous releases and renders
them as GitHub release notes, a Debian changelog, an RPM changelog or JSON.

Inputs are read from GNOSISVPN_* environment variables, an optional
.gnosisvpn-release.yml file and command-line flags, in increasing precedence.`,
	Example: `  # GitHub release notes for 0.12.0
  GNOSISVPN_PACKAGE_VERSION=0.12.0 \
  GNOSISVPN_CLIENT_PREVIOUS_VERSION=v0.50.1 GNOSISVPN_CLIENT_CURRENT_VERSION=v0.51.0 \
  GNOSISVPN_APP_PREVIOUS_VERSION=v0.9.0 GNOSISVPN_APP_CURRENT_VERSION=v0.9.0 \
  gnosisvpn-release changelog

  # Debian changelog printed to the terminal as well
  gnosisvpn-release changelog --format debian --print

  # Check how a pull request title is categorised
  gnosisvpn-release classify "fix(daemon): reconnect on wake"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger = newLogger(cmd.ErrOrStderr(), verbose)
		git.SetDebugLogger(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		})
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: .gnosisvpn-release.yml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every API request and retry")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitInvalidArguments, Err: clierrors.Wrap(err, clierrors.Argument,
			"Run 'gnosisvpn-release --help' for the list of flags")}
	})
}

// noArgs rejects positional arguments with an argument error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &ExitError{Code: ExitInvalidArguments, Err: clierrors.NewArgumentError(err.Error(),
			fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()))}
	}
	return nil
}

// newLogger returns a text logger on w; verbose enables debug records.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command. Errors are printed to stderr before being
// returned; use ExitCode to turn them into a process exit status.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// reportError prints err unless it is an ExitError that was already reported.
func reportError(w io.Writer, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	clierrors.FprintError(w, toCLIError(err))
}
