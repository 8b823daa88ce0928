package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lodestone/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "seed",
		Short:         "Populate an empty database with starter tasks",
		Long:          "Populate an empty database with a small starter graph. Does nothing when tasks already exist.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			applied, err := seed.Apply(ctx, s.kernel)
			if err != nil {
				return operationError(s.fmt, err)
			}
			if s.fmt.JSON() {
				return s.fmt.Success(map[string]bool{"seeded": applied})
			}
			if applied {
				fmt.Fprintln(cmd.OutOrStdout(), "seeded starter tasks")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "database already has tasks; nothing to do")
			}
			return nil
		}),
	}
}
