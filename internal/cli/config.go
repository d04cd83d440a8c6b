package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnosis/gnosisvpn-release/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect gnosisvpn-release configuration",
}

var configTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print a commented configuration file",
	Long: fmt.Sprintf(`Print a configuration file with every supported key and its default.

Save it as %s in the working directory to have it loaded automatically.`, config.ProjectConfigFile),
	Example: `  gnosisvpn-release config template > .gnosisvpn-release.yml`,
	Args:    noArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), config.GetDefaultConfigTemplate())
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configCmd.AddCommand(configTemplateCmd)
	rootCmd.AddCommand(configCmd)
}
