package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wakeupclock/alarmstore/internal/dao"
	"github.com/wakeupclock/alarmstore/internal/model"
)

// clockLayout is the canonical "HH:mm" form for alarm and wake times.
const clockLayout = "15:04"

// NewAlarmCommand creates the alarm command group.
func NewAlarmCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alarm",
		Short: "Manage alarms",
	}

	cmd.AddCommand(newAlarmAddCommand(rootOpts))
	cmd.AddCommand(newAlarmListCommand(rootOpts))
	cmd.AddCommand(newAlarmShowCommand(rootOpts))
	cmd.AddCommand(newAlarmRemoveCommand(rootOpts))
	cmd.AddCommand(newAlarmEnableCommand(rootOpts, true))
	cmd.AddCommand(newAlarmEnableCommand(rootOpts, false))
	cmd.AddCommand(newAlarmClearCommand(rootOpts))

	return cmd
}

type alarmAddOptions struct {
	ID           string
	Time         string
	Label        string
	Mission      string
	Difficulty   int
	Repeat       string
	Days         string
	SkipHolidays bool
	Disabled     bool
}

func newAlarmAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &alarmAddOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an alarm",
		Example: `  alarmstore alarm add --time 07:00
  alarmstore alarm add --time 06:30 --label work --mission TYPING --repeat CUSTOM --days 1,3,5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			alarm, err := buildAlarm(opts)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid alarm", err)
			}

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := dao.NewAlarms(st).InsertOrReplace(cmd.Context(), alarm); err != nil {
				return WrapExitError(ExitFailure, "failed to add alarm", err)
			}
			return newFormatter(cmd, rootOpts).Success(alarm.ID)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "alarm id (generated if empty)")
	cmd.Flags().StringVar(&opts.Time, "time", "", "trigger time, HH:mm (required)")
	cmd.Flags().StringVar(&opts.Label, "label", "other", "alarm label")
	cmd.Flags().StringVar(&opts.Mission, "mission", string(model.MissionMath), "mission type (MATH|SHAKE|MEMORY|ORDER|TYPING)")
	cmd.Flags().IntVar(&opts.Difficulty, "difficulty", model.DifficultyMedium.Code(), "difficulty (1=easy 2=medium 3=hard)")
	cmd.Flags().StringVar(&opts.Repeat, "repeat", string(model.RepeatWorkdays), "repeat mode (ONCE|WORKDAYS|CUSTOM)")
	cmd.Flags().StringVar(&opts.Days, "days", "", "custom weekdays, comma-joined 0-6 (0=Sunday)")
	cmd.Flags().BoolVar(&opts.SkipHolidays, "skip-holidays", false, "skip public holidays")
	cmd.Flags().BoolVar(&opts.Disabled, "disabled", false, "create the alarm disabled")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

// buildAlarm validates flags and assembles the entity. The id is minted
// here when absent - the store never generates identities itself.
func buildAlarm(opts *alarmAddOptions) (model.Alarm, error) {
	if _, err := time.Parse(clockLayout, opts.Time); err != nil {
		return model.Alarm{}, fmt.Errorf("bad time %q: want HH:mm", opts.Time)
	}

	mission, err := model.ParseMissionType(strings.ToUpper(opts.Mission))
	if err != nil {
		return model.Alarm{}, err
	}
	difficulty, err := model.ParseDifficulty(opts.Difficulty)
	if err != nil {
		return model.Alarm{}, err
	}
	repeat, err := model.ParseRepeatMode(strings.ToUpper(opts.Repeat))
	if err != nil {
		return model.Alarm{}, err
	}
	days, err := model.DecodeDays(opts.Days)
	if err != nil {
		return model.Alarm{}, err
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}

	return model.Alarm{
		ID:           id,
		Time:         opts.Time,
		Enabled:      !opts.Disabled,
		Label:        opts.Label,
		Mission:      mission,
		Difficulty:   difficulty,
		Repeat:       repeat,
		CustomDays:   days,
		SkipHolidays: opts.SkipHolidays,
		CreatedAt:    time.Now().UnixMilli(),
	}, nil
}

func newAlarmListCommand(rootOpts *RootOptions) *cobra.Command {
	var enabledOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alarms, sorted by trigger time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			alarms := dao.NewAlarms(st)
			var list []model.Alarm
			if enabledOnly {
				list, err = alarms.Enabled(cmd.Context())
			} else {
				list, err = alarms.All(cmd.Context())
			}
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list alarms", err)
			}

			f := newFormatter(cmd, rootOpts)
			if f.Format == "json" {
				return f.Success(list)
			}
			fmt.Fprint(f.Writer, renderAlarms(list))
			return nil
		},
	}

	cmd.Flags().BoolVar(&enabledOnly, "enabled", false, "only enabled alarms")
	return cmd
}

func newAlarmShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one alarm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			alarm, ok, err := dao.NewAlarms(st).ByID(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "failed to read alarm", err)
			}
			f := newFormatter(cmd, rootOpts)
			if !ok {
				_ = f.Error("NOT_FOUND", "no alarm with id "+args[0])
				return NewExitError(ExitFailure, "alarm not found")
			}
			if f.Format == "json" {
				return f.Success(alarm)
			}
			fmt.Fprintln(f.Writer, renderAlarmLine(alarm))
			return nil
		},
	}
}

func newAlarmRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an alarm (no-op if absent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := dao.NewAlarms(st).DeleteByID(cmd.Context(), args[0]); err != nil {
				return WrapExitError(ExitFailure, "failed to remove alarm", err)
			}
			return newFormatter(cmd, rootOpts).Success("removed")
		},
	}
}

func newAlarmEnableCommand(rootOpts *RootOptions, enable bool) *cobra.Command {
	use, short := "enable <id>", "Enable an alarm"
	if !enable {
		use, short = "disable <id>", "Disable an alarm"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := dao.NewAlarms(st).SetEnabled(cmd.Context(), args[0], enable); err != nil {
				return WrapExitError(ExitFailure, "failed to update alarm", err)
			}
			return newFormatter(cmd, rootOpts).Success("ok")
		},
	}
}

func newAlarmClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all alarms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := dao.NewAlarms(st).DeleteAll(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "failed to clear alarms", err)
			}
			return newFormatter(cmd, rootOpts).Success("cleared")
		},
	}
}

// renderAlarmLine renders one alarm as a single text line.
func renderAlarmLine(a model.Alarm) string {
	state := "off"
	if a.Enabled {
		state = "on"
	}
	days := model.EncodeDays(a.CustomDays)
	if days == "" {
		days = "-"
	}
	line := fmt.Sprintf("%s  %s  %s  %s  %s  %d  %s  %s",
		a.ID, a.Time, state, a.Label, a.Mission, a.Difficulty.Code(), a.Repeat, days)
	if a.SkipHolidays {
		line += "  skip-holidays"
	}
	return line
}

func renderAlarms(alarms []model.Alarm) string {
	if len(alarms) == 0 {
		return "no alarms\n"
	}
	var b strings.Builder
	for _, a := range alarms {
		b.WriteString(renderAlarmLine(a))
		b.WriteString("\n")
	}
	return b.String()
}
