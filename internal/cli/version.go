package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnosis/gnosisvpn-release/internal/build"
)

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  "Display version, commit, build date, and Go version information for gnosisvpn-release",
	Example: `  gnosisvpn-release version
  gnosisvpn-release version --plain`,
	Args: noArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		if versionPlain {
			fmt.Fprintln(cmd.OutOrStdout(), build.Version)
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), build.Info())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "print only the version number")
	rootCmd.AddCommand(versionCmd)
}
