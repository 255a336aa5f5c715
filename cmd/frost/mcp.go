package main

import (
	"github.com/spf13/cobra"

	mcpAdapter "github.com/aretw0/frost/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server on stdio",
	Long:  `Exposes inspect_payload, flush_payload and has_pending as MCP tools over stdin/stdout.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		opts := []mcpAdapter.Option{mcpAdapter.WithClasses(a.engine.Registry())}
		if a.view != nil {
			opts = append(opts, mcpAdapter.WithView(a.view))
		}
		a.logger.Debug("Starting MCP server on stdio")
		return mcpAdapter.NewServer(a.engine, a.sessions, opts...).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
