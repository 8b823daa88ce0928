package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/lodestone/internal/portable"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export everything to a portable document",
		Long: `Export tasks, edges, routines, audit log and preferences to a
portable JSON document. "-" writes to stdout; any other name gets the
` + portable.FileExtension + ` extension when missing.

Example:
  lodestone export backup
  lodestone export - > snapshot.lds.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			doc, err := s.kernel.ExportAll(ctx)
			if err != nil {
				return operationError(s.fmt, err)
			}
			data, err := portable.Encode(doc)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to encode document", err)
			}

			if args[0] == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}

			path := portable.Filename(args[0])
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "failed to write export file", err)
			}
			if s.fmt.JSON() {
				return s.fmt.Success(map[string]any{
					"file":     path,
					"tasks":    len(doc.Tasks),
					"edges":    len(doc.Edges),
					"routines": len(doc.Routines),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d tasks, %d edges, %d routines to %s\n",
				len(doc.Tasks), len(doc.Edges), len(doc.Routines), path)
			return nil
		}),
	}

	return cmd
}
