package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/wakeupclock/alarmstore/internal/dao"
	"github.com/wakeupclock/alarmstore/internal/model"
)

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage app settings (singleton)",
	}

	cmd.AddCommand(newSettingsShowCommand(rootOpts))
	cmd.AddCommand(newSettingsSetCommand(rootOpts))
	cmd.AddCommand(newSettingsResetCommand(rootOpts))

	return cmd
}

func newSettingsShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			set, ok, err := dao.NewSettings(st).Get(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to read settings", err)
			}

			f := newFormatter(cmd, rootOpts)
			if !ok {
				// Absence is a normal state, not an error.
				if f.Format == "json" {
					return f.Success(nil)
				}
				fmt.Fprintln(f.Writer, "not configured")
				return nil
			}
			if f.Format == "json" {
				return f.Success(set)
			}
			fmt.Fprint(f.Writer, renderSettings(set))
			return nil
		},
	}
}

type settingsSetOptions struct {
	Theme              string
	Language           string
	AntiSnooze         bool
	AntiSnoozeInterval int
	AntiSnoozeCount    int
	AcceptSafetyNotice bool
}

func newSettingsSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &settingsSetOptions{}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings fields",
		Long: `Change one or more settings fields. Unset flags keep their stored
value; if nothing is stored yet, unset flags take their defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			settings := dao.NewSettings(st)
			set, ok, err := settings.Get(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to read settings", err)
			}
			if !ok {
				set = model.DefaultSettings()
			}

			flags := cmd.Flags()
			if flags.Changed("theme") {
				theme, err := model.ParseThemeMode(strings.ToUpper(opts.Theme))
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid settings", err)
				}
				set.Theme = theme
			}
			if flags.Changed("language") {
				if _, err := language.Parse(opts.Language); err != nil {
					return WrapExitError(ExitCommandError, "invalid settings",
						fmt.Errorf("bad language tag %q: %w", opts.Language, err))
				}
				set.Language = opts.Language
			}
			if flags.Changed("anti-snooze") {
				set.AntiSnoozeEnabled = opts.AntiSnooze
			}
			if flags.Changed("interval") {
				set.AntiSnoozeInterval = opts.AntiSnoozeInterval
			}
			if flags.Changed("reminders") {
				set.AntiSnoozeCount = opts.AntiSnoozeCount
			}
			if flags.Changed("accept-safety-notice") {
				set.SafetyNoticeAccepted = opts.AcceptSafetyNotice
			}

			if err := settings.InsertOrReplace(cmd.Context(), set); err != nil {
				return WrapExitError(ExitFailure, "failed to save settings", err)
			}
			return newFormatter(cmd, rootOpts).Success("saved")
		},
	}

	cmd.Flags().StringVar(&opts.Theme, "theme", "", "theme mode (AUTO|LIGHT|DARK)")
	cmd.Flags().StringVar(&opts.Language, "language", "", "language tag, e.g. zh, en")
	cmd.Flags().BoolVar(&opts.AntiSnooze, "anti-snooze", false, "enable anti-snooze reminders")
	cmd.Flags().IntVar(&opts.AntiSnoozeInterval, "interval", 5, "minutes between anti-snooze reminders")
	cmd.Flags().IntVar(&opts.AntiSnoozeCount, "reminders", 2, "number of anti-snooze reminders")
	cmd.Flags().BoolVar(&opts.AcceptSafetyNotice, "accept-safety-notice", false, "mark the safety notice as accepted")

	return cmd
}

func newSettingsResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset settings to defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := dao.NewSettings(st).Reset(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "failed to reset settings", err)
			}
			return newFormatter(cmd, rootOpts).Success("reset")
		},
	}
}

func renderSettings(set model.AppSettings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "theme: %s\n", set.Theme)
	fmt.Fprintf(&b, "language: %s\n", set.Language)
	fmt.Fprintf(&b, "anti-snooze: %t\n", set.AntiSnoozeEnabled)
	fmt.Fprintf(&b, "anti-snooze interval: %d min\n", set.AntiSnoozeInterval)
	fmt.Fprintf(&b, "anti-snooze reminders: %d\n", set.AntiSnoozeCount)
	fmt.Fprintf(&b, "safety notice accepted: %t\n", set.SafetyNoticeAccepted)
	return b.String()
}
