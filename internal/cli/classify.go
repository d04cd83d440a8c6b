package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnosis/gnosisvpn-release/internal/changelog"
	clierrors "github.com/gnosis/gnosisvpn-release/internal/errors"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <title>",
	Short: "Show how a pull request title is categorised",
	Long: `Print the changelog type and release-notes section for a pull request title.

The type is the conventional-commit prefix before the first colon, without any
scope, lowercased. Titles without a prefix are categorised as "other".`,
	Example: `  gnosisvpn-release classify "feat(ui): add tray icon"
  gnosisvpn-release classify "Bump dependencies"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(strings.Join(args, " "))
		if title == "" {
			return &ExitError{Code: ExitInvalidArguments, Err: clierrors.MissingTitle()}
		}

		changelogType := changelog.Classify(title)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "type:    %s\n", changelogType)
		fmt.Fprintf(out, "section: %s\n", changelog.SectionFor(changelogType))
		return nil
	},
}

func init() {
	classifyCmd.GroupID = GroupRelease
	rootCmd.AddCommand(classifyCmd)
}
