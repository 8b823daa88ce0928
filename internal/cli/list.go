package cli

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/lodestone/internal/entity"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Status string
	Tag    string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List tasks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(opts.RootOptions, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			if opts.Status != "" && !entity.TaskStatus(opts.Status).Valid() {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown status %q", opts.Status))
			}

			tasks := filterTasks(s.kernel.Snapshot().Tasks, opts.Status, opts.Tag)
			if s.fmt.JSON() {
				return s.fmt.Success(tasks)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tENERGY\tIMPORTANCE\tTITLE")
			for _, t := range tasks {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.Meta.ID, t.Status, t.Energy, t.Importance, t.Title)
			}
			return w.Flush()
		}),
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "filter by status (pending|active|completed|deferred)")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "filter by tag")

	return cmd
}

// filterTasks selects and orders tasks for display: oldest first, id as the
// tiebreak so output is stable.
func filterTasks(all map[string]entity.Task, status, tag string) []entity.Task {
	tasks := make([]entity.Task, 0, len(all))
	for _, t := range all {
		if status != "" && string(t.Status) != status {
			continue
		}
		if tag != "" && !hasTag(t, tag) {
			continue
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].Meta.ID < tasks[j].Meta.ID
	})
	return tasks
}

func hasTag(t entity.Task, tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}
