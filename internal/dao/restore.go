package dao

import (
	"context"
	"database/sql"

	"github.com/wakeupclock/alarmstore/internal/model"
	"github.com/wakeupclock/alarmstore/internal/store"
)

// Restore replaces the entire store contents with the given data in one
// transaction: all three tables are cleared and repopulated atomically,
// so a failure partway through leaves the previous contents untouched.
// settings may be nil to restore the "not yet configured" state.
func Restore(ctx context.Context, s *store.Store, alarms []model.Alarm, records []model.WakeUpRecord, settings *model.AppSettings) error {
	tables := []string{store.Alarms.Name, store.Records.Name, store.Settings.Name}

	return s.Mutate(ctx, tables, func(tx *sql.Tx) error {
		if _, err := s.Exec(ctx, tx, store.Alarms.DeleteAllSQL()); err != nil {
			return store.NewIO("restore: clear alarms", err)
		}
		if _, err := s.Exec(ctx, tx, store.Records.DeleteAllSQL()); err != nil {
			return store.NewIO("restore: clear records", err)
		}
		if _, err := s.Exec(ctx, tx, store.Settings.DeleteAllSQL()); err != nil {
			return store.NewIO("restore: clear settings", err)
		}

		for _, a := range alarms {
			if _, err := s.Exec(ctx, tx, store.Alarms.InsertOrReplaceSQL(), alarmArgs(a)...); err != nil {
				return store.NewIO("restore: insert alarm "+a.ID, err)
			}
		}
		for _, rec := range records {
			if _, err := s.Exec(ctx, tx, store.Records.InsertOrReplaceSQL(), recordArgs(rec)...); err != nil {
				return store.NewIO("restore: insert record "+rec.ID, err)
			}
		}
		if settings != nil {
			if _, err := s.Exec(ctx, tx, store.Settings.InsertOrReplaceSQL(), settingsArgs(*settings)...); err != nil {
				return store.NewIO("restore: insert settings", err)
			}
		}
		return nil
	})
}
