package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/frost/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "frost",
	Short: "frost inspects and serves frozen component-tree payloads",
	Long: `frost manages the payloads written when a component tree is frozen between requests.
It can inspect, flush and list per-session payloads and expose them over HTTP or MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the frost configuration file")
	rootCmd.PersistentFlags().String("backend", "", "Storage backend: memory, file or redis (overrides config)")
	rootCmd.PersistentFlags().String("dir", "", "Directory of the file backend (overrides config)")
	rootCmd.PersistentFlags().String("redis", "", "Redis address (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
}
