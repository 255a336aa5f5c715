package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/frost/internal/validator"
	"github.com/aretw0/frost/pkg/domain"
	"github.com/aretw0/frost/pkg/ports"
)

var validateCmd = &cobra.Command{
	Use:   "validate <session-id>",
	Short: "Check a session payload for structural problems",
	Long: `Checks that every branch descriptor resolves its parents, that no two branches claim the same
name under the same parent and that every field-set carries a matching name field.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		sessionID := args[0]
		var payload *domain.Payload
		err = a.sessions.Do(cmd.Context(), sessionID, func(ctx context.Context, storage ports.Storage) error {
			var err error
			payload, err = a.engine.Inspect(ctx, storage)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to load session '%s': %w", sessionID, err)
		}

		classes, _ := cmd.Flags().GetStringSlice("classes")
		var tags []string
		if len(classes) > 0 {
			tags = classes
		}
		if err := validator.ValidatePayload(payload, tags); err != nil {
			return fmt.Errorf("session '%s' is invalid: %w", sessionID, err)
		}

		if payload == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Session '%s' has no payload.\n", sessionID)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session '%s' is valid: %d branch(es), %d node(s).\n",
			sessionID, len(payload.Branches), payload.Nodes())
		return nil
	},
}

func init() {
	validateCmd.Flags().StringSlice("classes", nil, "Known class tags; others are reported as unknown")
	rootCmd.AddCommand(validateCmd)
}
