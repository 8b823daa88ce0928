// Package cli implements the lodestone command tree. Commands talk to the
// kernel only; nothing here writes the store directly.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/lodestone/internal/config"
	"github.com/roach88/lodestone/internal/kernel"
	"github.com/roach88/lodestone/internal/seed"
	"github.com/roach88/lodestone/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string // overrides the config file's db_path
	ConfigPath string // overrides the default config file location
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the lodestone CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "lodestone",
		Short: "lodestone - a task graph with tamper-evident history",
		Long: `Lodestone tracks tasks, their relationships and routines in a local
SQLite database. Every change is content-hashed and recorded in an
append-only audit log; the full store exports to a portable .lds.json
document and imports back atomically.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "" && !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file")

	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewCompleteCommand(opts))
	cmd.AddCommand(NewDeferCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewLinkCommand(opts))
	cmd.AddCommand(NewUnlinkCommand(opts))
	cmd.AddCommand(NewRoutineCommand(opts))
	cmd.AddCommand(NewPrefsCommand(opts))
	cmd.AddCommand(NewAuditCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// session bundles everything a command invocation needs: resolved config,
// an open store and a loaded kernel. Close it when the command is done.
type session struct {
	cfg    config.Config
	store  *store.Store
	kernel *kernel.Kernel
	fmt    *OutputFormatter
}

func (s *session) Close() error { return s.store.Close() }

// openSession resolves config (flags over file over defaults), opens the
// database, builds the kernel and runs first-run seeding when the config
// allows it.
func openSession(ctx context.Context, cmd *cobra.Command, opts *RootOptions) (*session, error) {
	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}
	if opts.Format != "" {
		cfg.Format = opts.Format
	}
	if !isValidFormat(cfg.Format) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q in config: must be one of %v", cfg.Format, ValidFormats))
	}

	f := &OutputFormatter{
		Format:    cfg.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to create database directory", err)
		}
	}

	f.VerboseLog("opening database %s", cfg.DBPath)
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	k, err := kernel.New(ctx, st)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load state", err)
	}

	if cfg.SeedOnFirstRun {
		applied, err := seed.Apply(ctx, k)
		if err != nil {
			st.Close()
			return nil, WrapExitError(ExitCommandError, "first-run seeding failed", err)
		}
		if applied {
			f.VerboseLog("seeded starter tasks into %s", cfg.DBPath)
		}
	}

	return &session{cfg: cfg, store: st, kernel: k, fmt: f}, nil
}

// withSession wraps a command body with session setup and teardown.
func withSession(opts *RootOptions, run func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		s, err := openSession(ctx, cmd, opts)
		if err != nil {
			return err
		}
		defer s.Close()
		return run(ctx, s, cmd, args)
	}
}
