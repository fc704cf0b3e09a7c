package dao

import (
	"context"
	"database/sql"

	"github.com/wakeupclock/alarmstore/internal/model"
	"github.com/wakeupclock/alarmstore/internal/store"
)

// Alarms is the typed facade over the alarms table.
type Alarms struct {
	store *store.Store
}

// NewAlarms returns the alarms facade backed by s.
func NewAlarms(s *store.Store) *Alarms {
	return &Alarms{store: s}
}

// alarmArgs binds an alarm in column declaration order.
func alarmArgs(a model.Alarm) []any {
	return []any{
		a.ID,
		a.Time,
		a.Enabled,
		a.Label,
		string(a.Mission),
		a.Difficulty.Code(),
		string(a.Repeat),
		model.EncodeDays(a.CustomDays),
		a.SkipHolidays,
		a.CreatedAt,
	}
}

// scanAlarm maps the current row to an Alarm, decoding enum and list
// columns through the model codec.
func scanAlarm(r *store.Rows) (model.Alarm, error) {
	var a model.Alarm
	var err error

	if a.ID, err = r.Text("id"); err != nil {
		return model.Alarm{}, err
	}
	if a.Time, err = r.Text("time"); err != nil {
		return model.Alarm{}, err
	}
	if a.Enabled, err = r.Bool("enabled"); err != nil {
		return model.Alarm{}, err
	}
	if a.Label, err = r.Text("label"); err != nil {
		return model.Alarm{}, err
	}

	mission, err := r.Text("mission_type")
	if err != nil {
		return model.Alarm{}, err
	}
	if a.Mission, err = model.ParseMissionType(mission); err != nil {
		return model.Alarm{}, store.NewDecode(store.Alarms.Name, "mission_type", err)
	}

	difficulty, err := r.Int("difficulty")
	if err != nil {
		return model.Alarm{}, err
	}
	if a.Difficulty, err = model.ParseDifficulty(int(difficulty)); err != nil {
		return model.Alarm{}, store.NewDecode(store.Alarms.Name, "difficulty", err)
	}

	repeat, err := r.Text("repeat_mode")
	if err != nil {
		return model.Alarm{}, err
	}
	if a.Repeat, err = model.ParseRepeatMode(repeat); err != nil {
		return model.Alarm{}, store.NewDecode(store.Alarms.Name, "repeat_mode", err)
	}

	days, err := r.Text("custom_days")
	if err != nil {
		return model.Alarm{}, err
	}
	if a.CustomDays, err = model.DecodeDays(days); err != nil {
		return model.Alarm{}, store.NewDecode(store.Alarms.Name, "custom_days", err)
	}

	if a.SkipHolidays, err = r.Bool("skip_holidays"); err != nil {
		return model.Alarm{}, err
	}
	if a.CreatedAt, err = r.Int("created_at"); err != nil {
		return model.Alarm{}, err
	}

	return a, nil
}

// InsertOrReplace writes the alarm, replacing any existing row with the
// same id.
func (d *Alarms) InsertOrReplace(ctx context.Context, a model.Alarm) error {
	return d.store.Mutate(ctx, []string{store.Alarms.Name}, func(tx *sql.Tx) error {
		if _, err := d.store.Exec(ctx, tx, store.Alarms.InsertOrReplaceSQL(), alarmArgs(a)...); err != nil {
			return store.NewIO("insert alarm", err)
		}
		return nil
	})
}

// Update rewrites every mutable column of an existing alarm.
// Returns NOT_FOUND if no row has the alarm's id.
func (d *Alarms) Update(ctx context.Context, a model.Alarm) error {
	return d.store.Mutate(ctx, []string{store.Alarms.Name}, func(tx *sql.Tx) error {
		args := append(alarmArgs(a)[1:], a.ID) // non-key columns, then key
		res, err := d.store.Exec(ctx, tx, store.Alarms.UpdateSQL(), args...)
		if err != nil {
			return store.NewIO("update alarm", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return store.NewIO("update alarm", err)
		}
		if n == 0 {
			return store.NewNotFound(store.Alarms.Name, a.ID)
		}
		return nil
	})
}

// Delete removes the alarm matching a's identity.
func (d *Alarms) Delete(ctx context.Context, a model.Alarm) error {
	return d.DeleteByID(ctx, a.ID)
}

// DeleteByID removes the alarm with the given id.
// A missing id is a silent no-op, not an error.
func (d *Alarms) DeleteByID(ctx context.Context, id string) error {
	return d.store.Mutate(ctx, []string{store.Alarms.Name}, func(tx *sql.Tx) error {
		if _, err := d.store.Exec(ctx, tx, store.Alarms.DeleteByKeySQL(), id); err != nil {
			return store.NewIO("delete alarm", err)
		}
		return nil
	})
}

// DeleteAll removes every alarm.
func (d *Alarms) DeleteAll(ctx context.Context) error {
	return d.store.Mutate(ctx, []string{store.Alarms.Name}, func(tx *sql.Tx) error {
		if _, err := d.store.Exec(ctx, tx, store.Alarms.DeleteAllSQL()); err != nil {
			return store.NewIO("delete all alarms", err)
		}
		return nil
	})
}

const setEnabledSQL = "UPDATE alarms SET enabled = ? WHERE id = ?"

// SetEnabled flips just the enabled flag. Like DeleteByID, a missing id
// is a silent no-op.
func (d *Alarms) SetEnabled(ctx context.Context, id string, enabled bool) error {
	return d.store.Mutate(ctx, []string{store.Alarms.Name}, func(tx *sql.Tx) error {
		if _, err := d.store.Exec(ctx, tx, setEnabledSQL, enabled, id); err != nil {
			return store.NewIO("set alarm enabled", err)
		}
		return nil
	})
}

// ByID returns the alarm with the given id, or ok=false if absent.
func (d *Alarms) ByID(ctx context.Context, id string) (model.Alarm, bool, error) {
	alarms, err := d.query(ctx, store.Alarms.SelectSQL("id = ?", ""), id)
	if err != nil {
		return model.Alarm{}, false, err
	}
	if len(alarms) == 0 {
		return model.Alarm{}, false, nil
	}
	return alarms[0], true, nil
}

// All returns every alarm, sorted ascending by trigger time.
func (d *Alarms) All(ctx context.Context) ([]model.Alarm, error) {
	return d.query(ctx, store.Alarms.SelectSQL("", "time ASC"))
}

// Enabled returns every enabled alarm, sorted ascending by trigger time.
func (d *Alarms) Enabled(ctx context.Context) ([]model.Alarm, error) {
	return d.query(ctx, store.Alarms.SelectSQL("enabled = 1", "time ASC"))
}

// ObserveAll re-emits the full alarm list on every alarms write.
func (d *Alarms) ObserveAll(ctx context.Context) <-chan store.Snapshot[[]model.Alarm] {
	return store.Observe(ctx, d.store, []string{store.Alarms.Name}, d.All)
}

// ObserveEnabled re-emits the enabled alarm list on every alarms write.
func (d *Alarms) ObserveEnabled(ctx context.Context) <-chan store.Snapshot[[]model.Alarm] {
	return store.Observe(ctx, d.store, []string{store.Alarms.Name}, d.Enabled)
}

func (d *Alarms) query(ctx context.Context, q string, args ...any) ([]model.Alarm, error) {
	stmt, err := d.store.Prepared(ctx, q)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, store.NewIO("query alarms", err)
	}
	defer rows.Close()

	r, err := store.NewRows(store.Alarms.Name, rows)
	if err != nil {
		return nil, err
	}

	// Empty slice instead of nil
	alarms := []model.Alarm{}
	for {
		ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		a, err := scanAlarm(r)
		if err != nil {
			return nil, err
		}
		alarms = append(alarms, a)
	}
	return alarms, nil
}
