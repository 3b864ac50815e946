package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time: -ldflags "-X .../commands.version=v1.2.0"
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tripsampler %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
