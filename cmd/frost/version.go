package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/frost"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of frost",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "frost version %s\n", strings.TrimSpace(frost.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
