package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version подставляется при сборке через -ldflags
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "loanstore", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
