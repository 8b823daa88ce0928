package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lodestone/internal/entity"
	"github.com/roach88/lodestone/internal/kernel"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Description   string
	Energy        string
	Importance    string
	DueDate       string
	ScheduledDate string
	Tags          []string
	Steps         []string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Long: `Create a task. New tasks always start pending; energy defaults to
medium and importance to optional.

Example:
  lodestone add "Buy milk" --importance someday
  lodestone add "Clean desk" --step "clear papers" --step "wipe surface"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(opts.RootOptions, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			task, err := s.kernel.CreateTask(ctx, kernel.TaskDraft{
				Title:         args[0],
				Description:   opts.Description,
				Energy:        entity.EnergyLevel(opts.Energy),
				Importance:    entity.Importance(opts.Importance),
				MicroSteps:    opts.Steps,
				DueDate:       opts.DueDate,
				ScheduledDate: opts.ScheduledDate,
				Tags:          opts.Tags,
			})
			if err != nil {
				return operationError(s.fmt, err)
			}
			if s.fmt.JSON() {
				return s.fmt.Success(task)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s  %s\n", task.Meta.ID, task.Title)
			return nil
		}),
	}

	cmd.Flags().StringVar(&opts.Description, "desc", "", "task description")
	cmd.Flags().StringVar(&opts.Energy, "energy", "", "energy level (low|medium|high)")
	cmd.Flags().StringVar(&opts.Importance, "importance", "", "importance (important|optional|someday)")
	cmd.Flags().StringVar(&opts.DueDate, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.ScheduledDate, "scheduled", "", "scheduled date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&opts.Tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Steps, "step", nil, "micro step text (repeatable)")

	return cmd
}
