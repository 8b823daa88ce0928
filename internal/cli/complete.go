package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewCompleteCommand creates the complete command.
func NewCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "complete <task-id>",
		Short:         "Mark a task completed",
		Long:          "Mark a task completed. All of its micro steps are marked done as well.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			task, err := s.kernel.CompleteTask(ctx, args[0])
			if err != nil {
				return operationError(s.fmt, err)
			}
			if s.fmt.JSON() {
				return s.fmt.Success(task)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "completed %s  %s\n", task.Meta.ID, task.Title)
			return nil
		}),
	}
}
