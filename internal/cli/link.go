package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lodestone/internal/entity"
)

// LinkOptions holds flags for the link command.
type LinkOptions struct {
	*RootOptions
	Type string
}

// NewLinkCommand creates the link command.
func NewLinkCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LinkOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "link <source-id> <target-id>",
		Short: "Create an edge between two tasks",
		Long: `Create a typed edge between two task ids.

Example:
  lodestone link task-a task-b --type blocks`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(opts.RootOptions, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			edge, err := s.kernel.AddEdge(ctx, args[0], args[1], entity.EdgeType(opts.Type))
			if err != nil {
				return operationError(s.fmt, err)
			}
			if s.fmt.JSON() {
				return s.fmt.Success(edge)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "linked %s %s -> %s (%s)\n", edge.Type, edge.Source, edge.Target, edge.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&opts.Type, "type", string(entity.EdgeRelatedTo), "edge type (depends_on|blocks|related_to|part_of|scheduled_after)")

	return cmd
}

// NewUnlinkCommand creates the unlink command.
func NewUnlinkCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "unlink <edge-id>",
		Short:         "Delete an edge",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			if err := s.kernel.RemoveEdge(ctx, args[0]); err != nil {
				return operationError(s.fmt, err)
			}
			if s.fmt.JSON() {
				return s.fmt.Success(map[string]string{"removed": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unlinked %s\n", args[0])
			return nil
		}),
	}
}
