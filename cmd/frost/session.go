package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/frost/internal/presentation/tui"
	"github.com/aretw0/frost/pkg/domain"
	"github.com/aretw0/frost/pkg/ports"
	"github.com/aretw0/frost/pkg/session"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List sessions with stored payloads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ids, err := session.List(cmd.Context(), a.lister)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Show the frozen payload of a session",
	Long: `Shows the branch descriptors and field-sets stored for a session without consuming them.
On a terminal the payload is rendered as markdown; otherwise it is printed as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		sessionID := args[0]
		raw, _ := cmd.Flags().GetBool("raw")

		var payload *domain.Payload
		err = a.sessions.Do(cmd.Context(), sessionID, func(ctx context.Context, storage ports.Storage) error {
			if a.view != nil && !raw {
				storage = a.view(storage)
			}
			var err error
			payload, err = a.engine.Inspect(ctx, storage)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to inspect session '%s': %w", sessionID, err)
		}

		format, _ := cmd.Flags().GetString("format")
		if format == "auto" {
			format = "json"
			if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				format = "markdown"
			}
		}

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal payload: %w", err)
			}
			fmt.Fprintln(out, string(data))
		case "markdown":
			md := tui.PayloadMarkdown(sessionID, payload)
			render, err := tui.NewRenderer(0)
			if err != nil {
				fmt.Fprint(out, md)
				return nil
			}
			rendered, err := render(md)
			if err != nil {
				fmt.Fprint(out, md)
				return nil
			}
			fmt.Fprint(out, rendered)
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		return nil
	},
}

var flushCmd = &cobra.Command{
	Use:   "flush [session-id]...",
	Short: "Delete the frozen payload of one or more sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		all, _ := cmd.Flags().GetBool("all")
		if all {
			args, err = session.List(cmd.Context(), a.lister)
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
		}
		if len(args) == 0 {
			return fmt.Errorf("no session given (use --all to flush every session)")
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, sessionID := range args {
			err := a.sessions.Do(cmd.Context(), sessionID, func(ctx context.Context, storage ports.Storage) error {
				return a.engine.Flush(ctx, storage)
			})
			if err != nil {
				fmt.Fprintf(out, "Error flushing '%s': %v\n", sessionID, err)
				failed++
				continue
			}
			fmt.Fprintf(out, "Flushed session '%s'\n", sessionID)
		}

		if failed > 0 {
			return fmt.Errorf("%d session(s) could not be flushed", failed)
		}
		return nil
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending <session-id>",
	Short: "Report whether a session has branches waiting to be thawed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		var pending bool
		err = a.sessions.Do(cmd.Context(), args[0], func(ctx context.Context, storage ports.Storage) error {
			var err error
			pending, err = a.engine.HasPending(ctx, storage)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to check session '%s': %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), pending)
		return nil
	},
}

func init() {
	inspectCmd.Flags().String("format", "auto", "Output format: auto, json or markdown")
	inspectCmd.Flags().Bool("raw", false, "Do not apply the configured redaction")
	flushCmd.Flags().Bool("all", false, "Flush every session")

	rootCmd.AddCommand(lsCmd, inspectCmd, flushCmd, pendingCmd)
}
