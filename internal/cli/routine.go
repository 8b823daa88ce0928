package cli

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/lodestone/internal/entity"
	"github.com/roach88/lodestone/internal/kernel"
)

// RoutineAddOptions holds flags for routine add.
type RoutineAddOptions struct {
	*RootOptions
	Description string
	TimeOfDay   string
	TaskIDs     []string
	Active      bool
}

// NewRoutineCommand creates the routine command group.
func NewRoutineCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routine",
		Short: "Manage routines",
	}
	cmd.AddCommand(newRoutineAddCommand(rootOpts))
	cmd.AddCommand(newRoutineListCommand(rootOpts))
	cmd.AddCommand(newRoutineRemoveCommand(rootOpts))
	return cmd
}

func newRoutineAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RoutineAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "add <name>",
		Short:         "Create a routine",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(opts.RootOptions, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			routine, err := s.kernel.CreateRoutine(ctx, kernel.RoutineDraft{
				Name:        args[0],
				Description: opts.Description,
				TimeOfDay:   entity.TimeOfDay(opts.TimeOfDay),
				TaskIDs:     opts.TaskIDs,
				Active:      opts.Active,
			})
			if err != nil {
				return operationError(s.fmt, err)
			}
			if s.fmt.JSON() {
				return s.fmt.Success(routine)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created routine %s  %s\n", routine.Meta.ID, routine.Name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&opts.Description, "desc", "", "routine description")
	cmd.Flags().StringVar(&opts.TimeOfDay, "time", "", "time of day (morning|afternoon|evening|anytime)")
	cmd.Flags().StringArrayVar(&opts.TaskIDs, "task", nil, "task id to include (repeatable)")
	cmd.Flags().BoolVar(&opts.Active, "active", true, "whether the routine is active")

	return cmd
}

func newRoutineListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List routines",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			all := s.kernel.Snapshot().Routines
			routines := make([]entity.Routine, 0, len(all))
			for _, r := range all {
				routines = append(routines, r)
			}
			sort.Slice(routines, func(i, j int) bool { return routines[i].Meta.ID < routines[j].Meta.ID })

			if s.fmt.JSON() {
				return s.fmt.Success(routines)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tACTIVE\tTASKS\tNAME")
			for _, r := range routines {
				fmt.Fprintf(w, "%s\t%s\t%t\t%d\t%s\n", r.Meta.ID, r.TimeOfDay, r.Active, len(r.TaskIDs), r.Name)
			}
			return w.Flush()
		}),
	}
}

func newRoutineRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <routine-id>",
		Short:         "Delete a routine",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			if err := s.kernel.RemoveRoutine(ctx, args[0]); err != nil {
				return operationError(s.fmt, err)
			}
			if s.fmt.JSON() {
				return s.fmt.Success(map[string]string{"removed": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed routine %s\n", args[0])
			return nil
		}),
	}
}
