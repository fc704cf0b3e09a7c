package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wakeupclock/alarmstore/internal/dao"
	"github.com/wakeupclock/alarmstore/internal/model"
	"github.com/wakeupclock/alarmstore/internal/store"
)

// watchTargets names the live queries the watch command can subscribe to.
var watchTargets = []string{"alarms", "enabled", "records", "count", "settings"}

// NewWatchCommand creates the watch command: a long-lived subscription to
// one live query, printing a snapshot on every committed change until
// interrupted.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <alarms|enabled|records|count|settings>",
		Short: "Follow a live query",
		Long: `Subscribe to a live query and print each result snapshot as writes
commit. The first snapshot is the current state. Bursts of writes may
coalesce into a single snapshot; a stale state is never printed after a
newer one. Stop with Ctrl-C.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: watchTargets,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := st.Close(); closeErr != nil {
					slog.Error("error closing database", "error", closeErr)
				}
			}()

			parentCtx := cmd.Context()
			if parentCtx == nil {
				parentCtx = context.Background()
			}
			ctx, cancel := context.WithCancel(parentCtx)
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			go func() {
				select {
				case sig := <-sigChan:
					slog.Info("received signal, stopping watch", "signal", sig)
					cancel()
				case <-ctx.Done():
				}
			}()

			f := newFormatter(cmd, rootOpts)
			return runWatch(ctx, st, args[0], f)
		},
	}
}

func runWatch(ctx context.Context, st *store.Store, target string, f *OutputFormatter) error {
	switch target {
	case "alarms":
		return watchLoop(ctx, dao.NewAlarms(st).ObserveAll(ctx), f, renderAlarms)
	case "enabled":
		return watchLoop(ctx, dao.NewAlarms(st).ObserveEnabled(ctx), f, renderAlarms)
	case "records":
		return watchLoop(ctx, dao.NewRecords(st).ObserveAll(ctx), f, renderRecords)
	case "count":
		return watchLoop(ctx, dao.NewRecords(st).ObserveCount(ctx), f, func(n int) string {
			return fmt.Sprintf("%d\n", n)
		})
	case "settings":
		return watchLoop(ctx, dao.NewSettings(st).Observe(ctx), f, func(set *model.AppSettings) string {
			if set == nil {
				return "not configured\n"
			}
			return renderSettings(*set)
		})
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("unknown watch target %q", target))
}

// watchLoop drains one live query channel until it closes. A terminal
// error from the store surfaces as a failure exit, never as silence.
func watchLoop[T any](ctx context.Context, ch <-chan store.Snapshot[T], f *OutputFormatter, render func(T) string) error {
	for snapshot := range ch {
		if snapshot.Err != nil {
			return WrapExitError(ExitFailure, "live query failed", snapshot.Err)
		}
		if f.Format == "json" {
			if err := f.Success(snapshot.Value); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(f.Writer, "--- %s\n", time.Now().Format(time.TimeOnly))
		fmt.Fprint(f.Writer, render(snapshot.Value))
	}
	if err := ctx.Err(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
