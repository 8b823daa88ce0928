package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lodestone/internal/kernel"
)

// PrefsSetOptions holds flags for prefs set.
type PrefsSetOptions struct {
	*RootOptions
	Theme           string
	DefaultView     string
	MaxVisibleTasks int
	Audio           bool
	Notifications   bool
	AIProvider      string
	AIAPIKey        string
}

// NewPrefsCommand creates the prefs command group.
func NewPrefsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "View and change preferences",
	}
	cmd.AddCommand(newPrefsGetCommand(rootOpts))
	cmd.AddCommand(newPrefsSetCommand(rootOpts))
	return cmd
}

func newPrefsGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get",
		Short:         "Print current preferences",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			prefs := s.kernel.Snapshot().Preferences
			if s.fmt.JSON() {
				return s.fmt.Success(prefs)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "theme:            %s\n", prefs.Theme)
			fmt.Fprintf(out, "default view:     %s\n", prefs.DefaultView)
			fmt.Fprintf(out, "max visible:      %d\n", prefs.MaxVisibleTasks)
			fmt.Fprintf(out, "audio:            %t\n", prefs.AudioEnabled)
			fmt.Fprintf(out, "notifications:    %t\n", prefs.NotificationsEnabled)
			fmt.Fprintf(out, "ai provider:      %s\n", prefs.AIProvider)
			return nil
		}),
	}
}

func newPrefsSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PrefsSetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "set",
		Short:         "Change preferences",
		Long:          "Change preferences. Only the flags given are updated; everything else keeps its value.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withSession(opts.RootOptions, func(ctx context.Context, s *session, cmd *cobra.Command, args []string) error {
			var patch kernel.PreferencesPatch
			flags := cmd.Flags()
			if flags.Changed("theme") {
				patch.Theme = &opts.Theme
			}
			if flags.Changed("view") {
				patch.DefaultView = &opts.DefaultView
			}
			if flags.Changed("max-visible") {
				patch.MaxVisibleTasks = &opts.MaxVisibleTasks
			}
			if flags.Changed("audio") {
				patch.AudioEnabled = &opts.Audio
			}
			if flags.Changed("notifications") {
				patch.NotificationsEnabled = &opts.Notifications
			}
			if flags.Changed("ai-provider") {
				patch.AIProvider = &opts.AIProvider
			}
			if flags.Changed("ai-key") {
				patch.AIAPIKey = &opts.AIAPIKey
			}

			prefs, err := s.kernel.UpdatePreferences(ctx, patch)
			if err != nil {
				return operationError(s.fmt, err)
			}
			if s.fmt.JSON() {
				return s.fmt.Success(prefs)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "preferences updated")
			return nil
		}),
	}

	cmd.Flags().StringVar(&opts.Theme, "theme", "", "UI theme")
	cmd.Flags().StringVar(&opts.DefaultView, "view", "", "default view")
	cmd.Flags().IntVar(&opts.MaxVisibleTasks, "max-visible", 0, "max visible tasks (3-10)")
	cmd.Flags().BoolVar(&opts.Audio, "audio", false, "enable audio")
	cmd.Flags().BoolVar(&opts.Notifications, "notifications", false, "enable notifications")
	cmd.Flags().StringVar(&opts.AIProvider, "ai-provider", "", "AI provider name")
	cmd.Flags().StringVar(&opts.AIAPIKey, "ai-key", "", "AI API key")

	return cmd
}
