package cli

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// AuditOptions holds flags for the audit command.
type AuditOptions struct {
	*RootOptions
	Limit int
}

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "audit",
		Short:         "Show the audit log",
		Long:          "Show the append-only audit log, oldest first.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(opts.RootOptions, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			entries, err := s.kernel.AuditLog(ctx)
			if err != nil {
				return operationError(s.fmt, err)
			}
			sort.Slice(entries, func(i, j int) bool {
				if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
					return entries[i].Timestamp.Before(entries[j].Timestamp)
				}
				return entries[i].ID < entries[j].ID
			})
			if opts.Limit > 0 && len(entries) > opts.Limit {
				entries = entries[len(entries)-opts.Limit:]
			}

			if s.fmt.JSON() {
				return s.fmt.Success(entries)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tACTION\tENTITY\tID")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.EntityType, e.EntityID)
			}
			return w.Flush()
		}),
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show only the most recent N entries")

	return cmd
}
