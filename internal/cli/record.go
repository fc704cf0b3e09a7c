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

// NewRecordCommand creates the record command group.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage wake-up records",
	}

	cmd.AddCommand(newRecordAddCommand(rootOpts))
	cmd.AddCommand(newRecordListCommand(rootOpts))
	cmd.AddCommand(newRecordRemoveCommand(rootOpts))
	cmd.AddCommand(newRecordCountCommand(rootOpts))
	cmd.AddCommand(newRecordStreakCommand(rootOpts))
	cmd.AddCommand(newRecordClearCommand(rootOpts))

	return cmd
}

type recordAddOptions struct {
	ID      string
	Date    string
	Time    string
	Label   string
	AlarmID string
}

func newRecordAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &recordAddOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a wake-up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if opts.Date == "" {
				opts.Date = now.Format(model.DateLayout)
			}
			if opts.Time == "" {
				opts.Time = now.Format(clockLayout)
			}
			if _, err := time.Parse(model.DateLayout, opts.Date); err != nil {
				return WrapExitError(ExitCommandError, "invalid record", fmt.Errorf("bad date %q: want yyyy-MM-dd", opts.Date))
			}
			if _, err := time.Parse(clockLayout, opts.Time); err != nil {
				return WrapExitError(ExitCommandError, "invalid record", fmt.Errorf("bad time %q: want HH:mm", opts.Time))
			}

			rec := model.WakeUpRecord{
				ID:        opts.ID,
				Date:      opts.Date,
				Time:      opts.Time,
				Timestamp: now.UnixMilli(),
			}
			if rec.ID == "" {
				rec.ID = uuid.NewString()
			}
			if opts.Label != "" {
				rec.AlarmLabel = &opts.Label
			}
			if opts.AlarmID != "" {
				rec.AlarmID = &opts.AlarmID
			}

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := dao.NewRecords(st).InsertOrReplace(cmd.Context(), rec); err != nil {
				return WrapExitError(ExitFailure, "failed to add record", err)
			}
			return newFormatter(cmd, rootOpts).Success(rec.ID)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "record id (generated if empty)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "calendar date, yyyy-MM-dd (default today)")
	cmd.Flags().StringVar(&opts.Time, "time", "", "wake time, HH:mm (default now)")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label snapshot of the source alarm")
	cmd.Flags().StringVar(&opts.AlarmID, "alarm-id", "", "id of the source alarm")

	return cmd
}

func newRecordListCommand(rootOpts *RootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wake-up records",
		Long: `List wake-up records. Without flags, every record is shown newest
first. With --month yyyy-MM, only that month is shown in ascending date
order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			records := dao.NewRecords(st)
			var list []model.WakeUpRecord
			if month != "" {
				list, err = records.ByMonth(cmd.Context(), month)
			} else {
				list, err = records.All(cmd.Context())
			}
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list records", err)
			}

			f := newFormatter(cmd, rootOpts)
			if f.Format == "json" {
				return f.Success(list)
			}
			fmt.Fprint(f.Writer, renderRecords(list))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "restrict to one month, yyyy-MM")
	return cmd
}

func newRecordRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a record (no-op if absent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := dao.NewRecords(st).DeleteByID(cmd.Context(), args[0]); err != nil {
				return WrapExitError(ExitFailure, "failed to remove record", err)
			}
			return newFormatter(cmd, rootOpts).Success("removed")
		},
	}
}

func newRecordCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Total number of wake-up records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := dao.NewRecords(st).Count(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to count records", err)
			}
			return newFormatter(cmd, rootOpts).Success(n)
		},
	}
}

func newRecordStreakCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Consecutive days with a wake-up record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := dao.NewRecords(st).Streak(cmd.Context(), time.Now())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to compute streak", err)
			}
			return newFormatter(cmd, rootOpts).Success(n)
		},
	}
}

func newRecordClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := dao.NewRecords(st).DeleteAll(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "failed to clear records", err)
			}
			return newFormatter(cmd, rootOpts).Success("cleared")
		},
	}
}

// renderRecordLine renders one record as a single text line.
func renderRecordLine(r model.WakeUpRecord) string {
	label := "-"
	if r.AlarmLabel != nil {
		label = *r.AlarmLabel
	}
	return fmt.Sprintf("%s  %s  %s  %s", r.ID, r.Date, r.Time, label)
}

func renderRecords(records []model.WakeUpRecord) string {
	if len(records) == 0 {
		return "no records\n"
	}
	var b strings.Builder
	for _, r := range records {
		b.WriteString(renderRecordLine(r))
		b.WriteString("\n")
	}
	return b.String()
}
