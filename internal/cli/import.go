package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a portable document, replacing current data",
		Long: `Import a document produced by export. Tasks, edges, routines and
preferences are replaced atomically; the audit log keeps its history and
gains one import entry. A document that fails schema validation is
rejected without touching anything. "-" reads from stdin.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read import file", err)
			}

			res, err := s.kernel.ImportAll(ctx, data)
			if err != nil {
				return operationError(s.fmt, err)
			}

			for _, id := range res.IntegrityWarnings {
				s.fmt.VerboseLog("integrity warning: content hash mismatch on %s", id)
			}
			if s.fmt.JSON() {
				return s.fmt.Success(res)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d tasks, %d edges, %d routines\n", res.Tasks, res.Edges, res.Routines)
			if n := len(res.IntegrityWarnings); n > 0 {
				fmt.Fprintf(out, "warning: %d entities failed their integrity check (run 'lodestone verify')\n", n)
			}
			return nil
		}),
	}

	return cmd
}
