package dao

import (
	"context"
	"database/sql"
	"time"

	"github.com/wakeupclock/alarmstore/internal/model"
	"github.com/wakeupclock/alarmstore/internal/store"
)

// Records is the typed facade over the wakeup_records table.
type Records struct {
	store *store.Store
}

// NewRecords returns the wake-up record facade backed by s.
func NewRecords(s *store.Store) *Records {
	return &Records{store: s}
}

// recordArgs binds a record in column declaration order.
func recordArgs(rec model.WakeUpRecord) []any {
	return []any{
		rec.ID,
		rec.Date,
		rec.Time,
		rec.AlarmLabel,
		rec.AlarmID,
		rec.Timestamp,
	}
}

func scanRecord(r *store.Rows) (model.WakeUpRecord, error) {
	var rec model.WakeUpRecord
	var err error

	if rec.ID, err = r.Text("id"); err != nil {
		return model.WakeUpRecord{}, err
	}
	if rec.Date, err = r.Text("date"); err != nil {
		return model.WakeUpRecord{}, err
	}
	if rec.Time, err = r.Text("time"); err != nil {
		return model.WakeUpRecord{}, err
	}
	if rec.AlarmLabel, err = r.NullText("alarm_label"); err != nil {
		return model.WakeUpRecord{}, err
	}
	if rec.AlarmID, err = r.NullText("alarm_id"); err != nil {
		return model.WakeUpRecord{}, err
	}
	if rec.Timestamp, err = r.Int("timestamp"); err != nil {
		return model.WakeUpRecord{}, err
	}

	return rec, nil
}

// InsertOrReplace writes the record, replacing any existing row with the
// same id.
func (d *Records) InsertOrReplace(ctx context.Context, rec model.WakeUpRecord) error {
	return d.store.Mutate(ctx, []string{store.Records.Name}, func(tx *sql.Tx) error {
		if _, err := d.store.Exec(ctx, tx, store.Records.InsertOrReplaceSQL(), recordArgs(rec)...); err != nil {
			return store.NewIO("insert record", err)
		}
		return nil
	})
}

// Delete removes the record matching rec's identity.
func (d *Records) Delete(ctx context.Context, rec model.WakeUpRecord) error {
	return d.DeleteByID(ctx, rec.ID)
}

// DeleteByID removes the record with the given id; missing ids no-op.
func (d *Records) DeleteByID(ctx context.Context, id string) error {
	return d.store.Mutate(ctx, []string{store.Records.Name}, func(tx *sql.Tx) error {
		if _, err := d.store.Exec(ctx, tx, store.Records.DeleteByKeySQL(), id); err != nil {
			return store.NewIO("delete record", err)
		}
		return nil
	})
}

// DeleteAll removes every record.
func (d *Records) DeleteAll(ctx context.Context) error {
	return d.store.Mutate(ctx, []string{store.Records.Name}, func(tx *sql.Tx) error {
		if _, err := d.store.Exec(ctx, tx, store.Records.DeleteAllSQL()); err != nil {
			return store.NewIO("delete all records", err)
		}
		return nil
	})
}

// All returns every record, newest event first.
func (d *Records) All(ctx context.Context) ([]model.WakeUpRecord, error) {
	return d.query(ctx, store.Records.SelectSQL("", "timestamp DESC"))
}

// ByMonth returns the records whose date begins with yearMonth
// (e.g. "2024-05"), ascending by date.
func (d *Records) ByMonth(ctx context.Context, yearMonth string) ([]model.WakeUpRecord, error) {
	return d.query(ctx, store.Records.SelectSQL("date LIKE ? || '%'", "date ASC"), yearMonth)
}

// ByDate returns the record for an exact date, or ok=false if absent.
// Duplicate dates are allowed by the schema; the newest record wins.
func (d *Records) ByDate(ctx context.Context, date string) (model.WakeUpRecord, bool, error) {
	recs, err := d.query(ctx, store.Records.SelectSQL("date = ?", "timestamp DESC")+" LIMIT 1", date)
	if err != nil {
		return model.WakeUpRecord{}, false, err
	}
	if len(recs) == 0 {
		return model.WakeUpRecord{}, false, nil
	}
	return recs[0], true, nil
}

const countRecordsSQL = "SELECT COUNT(*) FROM wakeup_records"

// Count returns the total number of records.
func (d *Records) Count(ctx context.Context) (int, error) {
	stmt, err := d.store.Prepared(ctx, countRecordsSQL)
	if err != nil {
		return 0, err
	}
	var n int
	if err := stmt.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, store.NewIO("count records", err)
	}
	return n, nil
}

// ObserveAll re-emits the full record list on every records write.
func (d *Records) ObserveAll(ctx context.Context) <-chan store.Snapshot[[]model.WakeUpRecord] {
	return store.Observe(ctx, d.store, []string{store.Records.Name}, d.All)
}

// ObserveByMonth re-emits one month's records on every records write.
func (d *Records) ObserveByMonth(ctx context.Context, yearMonth string) <-chan store.Snapshot[[]model.WakeUpRecord] {
	return store.Observe(ctx, d.store, []string{store.Records.Name}, func(ctx context.Context) ([]model.WakeUpRecord, error) {
		return d.ByMonth(ctx, yearMonth)
	})
}

// ObserveCount re-emits the record count on every records write.
func (d *Records) ObserveCount(ctx context.Context) <-chan store.Snapshot[int] {
	return store.Observe(ctx, d.store, []string{store.Records.Name}, d.Count)
}

// Streak counts consecutive days with at least one record, walking
// backwards from today. When today has no record yet the walk starts at
// yesterday, so an unbroken run is not zeroed before the user wakes up.
// Multiple records on one day count once.
func (d *Records) Streak(ctx context.Context, today time.Time) (int, error) {
	recs, err := d.query(ctx, store.Records.SelectSQL("", "date DESC"))
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, nil
	}

	var dates []string
	seen := make(map[string]struct{})
	for _, rec := range recs {
		if _, dup := seen[rec.Date]; dup {
			continue
		}
		seen[rec.Date] = struct{}{}
		dates = append(dates, rec.Date)
	}

	expected := today
	if dates[0] != today.Format(model.DateLayout) {
		expected = today.AddDate(0, 0, -1)
	}

	streak := 0
	for _, date := range dates {
		if date != expected.Format(model.DateLayout) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak, nil
}

func (d *Records) query(ctx context.Context, q string, args ...any) ([]model.WakeUpRecord, error) {
	stmt, err := d.store.Prepared(ctx, q)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, store.NewIO("query records", err)
	}
	defer rows.Close()

	r, err := store.NewRows(store.Records.Name, rows)
	if err != nil {
		return nil, err
	}

	recs := []model.WakeUpRecord{}
	for {
		ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		rec, err := scanRecord(r)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
