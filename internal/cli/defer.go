package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeferCommand creates the defer command.
func NewDeferCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "defer <task-id>",
		Short:         "Defer a task",
		Long:          "Set a task's status to deferred. Completed tasks cannot be deferred.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			task, err := s.kernel.DeferTask(ctx, args[0])
			if err != nil {
				return operationError(s.fmt, err)
			}
			if s.fmt.JSON() {
				return s.fmt.Success(task)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deferred %s  %s\n", task.Meta.ID, task.Title)
			return nil
		}),
	}
}
