package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lodestone/internal/entity"
	"github.com/roach88/lodestone/internal/kernel"
)

// taskDetail is the show command's JSON payload: the task plus every edge
// touching it.
type taskDetail struct {
	Task  entity.Task   `json:"task"`
	Edges []entity.Edge `json:"edges"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show <task-id>",
		Short:         "Show one task with its relationships",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			snap := s.kernel.Snapshot()
			task, ok := snap.Tasks[args[0]]
			if !ok {
				return operationError(s.fmt, &kernel.Error{Code: kernel.CodeNotFound, Message: "task not found", EntityID: args[0]})
			}

			edges := edgesTouching(snap.Edges, task.Meta.ID)
			if s.fmt.JSON() {
				return s.fmt.Success(taskDetail{Task: task, Edges: edges})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", task.Title)
			fmt.Fprintf(out, "  id:          %s\n", task.Meta.ID)
			fmt.Fprintf(out, "  status:      %s\n", task.Status)
			fmt.Fprintf(out, "  energy:      %s\n", task.Energy)
			fmt.Fprintf(out, "  importance:  %s\n", task.Importance)
			if task.Description != "" {
				fmt.Fprintf(out, "  description: %s\n", task.Description)
			}
			if task.DueDate != "" {
				fmt.Fprintf(out, "  due:         %s\n", task.DueDate)
			}
			if task.ScheduledDate != "" {
				fmt.Fprintf(out, "  scheduled:   %s\n", task.ScheduledDate)
			}
			if len(task.Tags) > 0 {
				fmt.Fprintf(out, "  tags:        %s\n", strings.Join(task.Tags, ", "))
			}
			if task.CompletedAt != nil {
				fmt.Fprintf(out, "  completed:   %s\n", task.CompletedAt.Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(out, "  hash:        %s\n", task.Meta.ContentHash)
			if len(task.MicroSteps) > 0 {
				fmt.Fprintln(out, "  steps:")
				for _, ms := range task.MicroSteps {
					mark := " "
					if ms.Completed {
						mark = "x"
					}
					fmt.Fprintf(out, "    [%s] %s\n", mark, ms.Text)
				}
			}
			if len(edges) > 0 {
				fmt.Fprintln(out, "  edges:")
				for _, e := range edges {
					fmt.Fprintf(out, "    %s %s -> %s (%s)\n", e.Type, e.Source, e.Target, e.ID)
				}
			}
			return nil
		}),
	}

	return cmd
}

// edgesTouching returns edges whose source or target is id, sorted by id.
func edgesTouching(all map[string]entity.Edge, id string) []entity.Edge {
	var edges []entity.Edge
	for _, e := range all {
		if e.Source == id || e.Target == id {
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return edges
}
