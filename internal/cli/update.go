package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lodestone/internal/entity"
	"github.com/roach88/lodestone/internal/kernel"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Title         string
	Description   string
	Status        string
	Energy        string
	Importance    string
	DueDate       string
	ScheduledDate string
	Tags          []string
}

// NewUpdateCommand creates the update command. Flag-driven edits are
// applied to the stored task and submitted as a full replace, so the
// content hash and updatedAt always move together.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "update <task-id>",
		Short:         "Edit task fields",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(opts.RootOptions, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			task, ok := s.kernel.Snapshot().Tasks[args[0]]
			if !ok {
				return operationError(s.fmt, &kernel.Error{Code: kernel.CodeNotFound, Message: "task not found", EntityID: args[0]})
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				task.Title = opts.Title
			}
			if flags.Changed("desc") {
				task.Description = opts.Description
			}
			if flags.Changed("status") {
				task.Status = entity.TaskStatus(opts.Status)
			}
			if flags.Changed("energy") {
				task.Energy = entity.EnergyLevel(opts.Energy)
			}
			if flags.Changed("importance") {
				task.Importance = entity.Importance(opts.Importance)
			}
			if flags.Changed("due") {
				task.DueDate = opts.DueDate
			}
			if flags.Changed("scheduled") {
				task.ScheduledDate = opts.ScheduledDate
			}
			if flags.Changed("tag") {
				task.Tags = opts.Tags
			}

			updated, err := s.kernel.UpdateTask(ctx, task)
			if err != nil {
				return operationError(s.fmt, err)
			}
			if s.fmt.JSON() {
				return s.fmt.Success(updated)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s  %s\n", updated.Meta.ID, updated.Title)
			return nil
		}),
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "new title")
	cmd.Flags().StringVar(&opts.Description, "desc", "", "new description")
	cmd.Flags().StringVar(&opts.Status, "status", "", "new status (pending|active|completed|deferred)")
	cmd.Flags().StringVar(&opts.Energy, "energy", "", "new energy level")
	cmd.Flags().StringVar(&opts.Importance, "importance", "", "new importance")
	cmd.Flags().StringVar(&opts.DueDate, "due", "", "new due date (empty clears)")
	cmd.Flags().StringVar(&opts.ScheduledDate, "scheduled", "", "new scheduled date (empty clears)")
	cmd.Flags().StringArrayVar(&opts.Tags, "tag", nil, "replacement tag set (repeatable)")

	return cmd
}
