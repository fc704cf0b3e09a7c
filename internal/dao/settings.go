package dao

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/wakeupclock/alarmstore/internal/model"
	"github.com/wakeupclock/alarmstore/internal/store"
)

// settingsRowID is the fixed identity of the singleton settings row.
const settingsRowID = 1

// Settings is the typed facade over the singleton app_settings row.
// Zero rows means "not yet configured"; Get and Observe report that as
// explicit absence, never as a default-valued row.
type Settings struct {
	store *store.Store
}

// NewSettings returns the settings facade backed by s.
func NewSettings(s *store.Store) *Settings {
	return &Settings{store: s}
}

func settingsArgs(set model.AppSettings) []any {
	return []any{
		settingsRowID,
		string(set.Theme),
		set.Language,
		set.AntiSnoozeEnabled,
		set.AntiSnoozeInterval,
		set.AntiSnoozeCount,
		set.SafetyNoticeAccepted,
	}
}

func scanSettings(r *store.Rows) (model.AppSettings, error) {
	var set model.AppSettings
	var err error

	theme, err := r.Text("theme_mode")
	if err != nil {
		return model.AppSettings{}, err
	}
	if set.Theme, err = model.ParseThemeMode(theme); err != nil {
		return model.AppSettings{}, store.NewDecode(store.Settings.Name, "theme_mode", err)
	}

	if set.Language, err = r.Text("language"); err != nil {
		return model.AppSettings{}, err
	}
	if set.AntiSnoozeEnabled, err = r.Bool("anti_snooze_enabled"); err != nil {
		return model.AppSettings{}, err
	}

	interval, err := r.Int("anti_snooze_interval")
	if err != nil {
		return model.AppSettings{}, err
	}
	set.AntiSnoozeInterval = int(interval)

	count, err := r.Int("anti_snooze_count")
	if err != nil {
		return model.AppSettings{}, err
	}
	set.AntiSnoozeCount = int(count)

	if set.SafetyNoticeAccepted, err = r.Bool("safety_notice_accepted"); err != nil {
		return model.AppSettings{}, err
	}

	return set, nil
}

// InsertOrReplace writes the singleton settings row.
func (d *Settings) InsertOrReplace(ctx context.Context, set model.AppSettings) error {
	return d.store.Mutate(ctx, []string{store.Settings.Name}, func(tx *sql.Tx) error {
		if _, err := d.store.Exec(ctx, tx, store.Settings.InsertOrReplaceSQL(), settingsArgs(set)...); err != nil {
			return store.NewIO("insert settings", err)
		}
		return nil
	})
}

// Update rewrites the existing settings row; NOT_FOUND if none exists.
func (d *Settings) Update(ctx context.Context, set model.AppSettings) error {
	return d.store.Mutate(ctx, []string{store.Settings.Name}, func(tx *sql.Tx) error {
		args := append(settingsArgs(set)[1:], settingsRowID)
		res, err := d.store.Exec(ctx, tx, store.Settings.UpdateSQL(), args...)
		if err != nil {
			return store.NewIO("update settings", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return store.NewIO("update settings", err)
		}
		if n == 0 {
			return store.NewNotFound(store.Settings.Name, strconv.Itoa(settingsRowID))
		}
		return nil
	})
}

// Delete removes the settings row, returning the store to the
// "not yet configured" state. Absence is a silent no-op.
func (d *Settings) Delete(ctx context.Context) error {
	return d.store.Mutate(ctx, []string{store.Settings.Name}, func(tx *sql.Tx) error {
		if _, err := d.store.Exec(ctx, tx, store.Settings.DeleteAllSQL()); err != nil {
			return store.NewIO("delete settings", err)
		}
		return nil
	})
}

// Reset atomically replaces whatever is stored with the defaults.
// Observers see a single change, not a delete followed by an insert.
func (d *Settings) Reset(ctx context.Context) error {
	return d.store.Mutate(ctx, []string{store.Settings.Name}, func(tx *sql.Tx) error {
		if _, err := d.store.Exec(ctx, tx, store.Settings.DeleteAllSQL()); err != nil {
			return store.NewIO("reset settings", err)
		}
		if _, err := d.store.Exec(ctx, tx, store.Settings.InsertOrReplaceSQL(), settingsArgs(model.DefaultSettings())...); err != nil {
			return store.NewIO("reset settings", err)
		}
		return nil
	})
}

// Get returns the stored settings, or ok=false when not yet configured.
func (d *Settings) Get(ctx context.Context) (model.AppSettings, bool, error) {
	stmt, err := d.store.Prepared(ctx, store.Settings.SelectSQL("id = ?", ""))
	if err != nil {
		return model.AppSettings{}, false, err
	}
	rows, err := stmt.QueryContext(ctx, settingsRowID)
	if err != nil {
		return model.AppSettings{}, false, store.NewIO("query settings", err)
	}
	defer rows.Close()

	r, err := store.NewRows(store.Settings.Name, rows)
	if err != nil {
		return model.AppSettings{}, false, err
	}

	ok, err := r.Next()
	if err != nil {
		return model.AppSettings{}, false, err
	}
	if !ok {
		return model.AppSettings{}, false, nil
	}

	set, err := scanSettings(r)
	if err != nil {
		return model.AppSettings{}, false, err
	}
	return set, true, nil
}

// Observe re-emits the settings row on every settings write. A nil value
// means the row is absent (not yet configured).
func (d *Settings) Observe(ctx context.Context) <-chan store.Snapshot[*model.AppSettings] {
	return store.Observe(ctx, d.store, []string{store.Settings.Name}, func(ctx context.Context) (*model.AppSettings, error) {
		set, ok, err := d.Get(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return &set, nil
	})
}
