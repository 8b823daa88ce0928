package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "verify",
		Short:         "Check stored content hashes",
		Long:          "Recompute the content hash of every task and routine and report mismatches. Exits 1 when any entity fails.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			issues, err := s.kernel.VerifyIntegrity(ctx)
			if err != nil {
				return operationError(s.fmt, err)
			}

			if s.fmt.JSON() {
				if err := s.fmt.Success(map[string]any{"issues": issues, "ok": len(issues) == 0}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				if len(issues) == 0 {
					fmt.Fprintln(out, "ok: all content hashes verified")
				}
				for _, issue := range issues {
					fmt.Fprintf(out, "%s %s: %s\n", issue.EntityType, issue.ID, issue.Detail)
				}
			}

			if len(issues) > 0 {
				return &ExitError{
					Code:     ExitFailure,
					Message:  fmt.Sprintf("%d entities failed integrity verification", len(issues)),
					Rendered: true,
				}
			}
			return nil
		}),
	}
}
